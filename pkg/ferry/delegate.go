package ferry

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// Variables mocked for unit testing.
var (
	fs         = afero.NewOsFs()
	runCommand = (*exec.Cmd).Run
)

// Delegate runs the wrapped tool described by `inv` and blocks until it
// exits. The tool runs in `inv.WorkDir` within `projectDir`, with
// `inv.OutputEnv` pointing at `outputDir`, and with `passthrough` appended
// verbatim to its arguments. Everything else, including stdio and the rest
// of the environment, is inherited.
//
// `outputDir` is created before the tool starts.
func Delegate(inv Invocation, projectDir, outputDir string, passthrough []string) error {
	if err := fs.MkdirAll(outputDir, 0755); err != nil {
		return errors.ScratchDirCreateFailed{Path: outputDir, Err: err}
	}

	// The tool runs in a different directory than we do, so relative paths
	// would be resolved differently by it.
	if !filepath.IsAbs(projectDir) {
		cwd, err := getWorkingDirectory()
		if err != nil {
			return errors.WithContext(err, "get working directory")
		}
		projectDir = filepath.Join(cwd, projectDir)
	}

	args := append(append([]string{}, inv.Args...), passthrough...)
	cmd := exec.Command(inv.Command, args...)
	cmd.Dir = filepath.Join(projectDir, inv.WorkDir)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", inv.OutputEnv, outputDir))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.WithFields(log.Fields{
		"command":     inv.Command,
		"args":        args,
		"dir":         cmd.Dir,
		inv.OutputEnv: outputDir,
	}).Info("Running wrapped tool")

	err := runCommand(cmd)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errors.WrappedToolFailed{
			Command:  inv.Name(),
			Status:   exitErr.String(),
			ExitCode: exitErr.ExitCode(),
		}
	}
	return errors.SpawnFailed{Command: inv.Name(), Err: err}
}
