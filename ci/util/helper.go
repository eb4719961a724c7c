package util

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/build-ferry/pkg/config"
	"github.com/sidkik/build-ferry/pkg/errors"
)

// fakeCargo stands in for cargo. It records how it was called, writes a
// small artifact tree into CARGO_TARGET_DIR, and exits with
// $FAKE_CARGO_EXIT.
const fakeCargo = `#!/bin/sh
set -e
{
	echo "args=$*"
	echo "pwd=$(pwd -P)"
	echo "target=$CARGO_TARGET_DIR"
} >> "$FAKE_CARGO_LOG"

mkdir -p "$CARGO_TARGET_DIR/debug/deps" "$CARGO_TARGET_DIR/release/bundle/deb"
printf 'binary' > "$CARGO_TARGET_DIR/debug/app"
printf 'dep' > "$CARGO_TARGET_DIR/debug/deps/libcore.rlib"
printf 'package' > "$CARGO_TARGET_DIR/release/bundle/deb/app.deb"
exit "${FAKE_CARGO_EXIT:-0}"
`

// TestHelper runs the build-ferry binary against a scratch project, with a
// fake cargo on the PATH and an isolated user config.
type TestHelper struct {
	Binary string

	Root        string
	ProjectDir  string
	TempTarget  string
	FinalTarget string

	cargoLog  string
	configDir string
	path      string
	fs        afero.Fs
}

// Output is the result of running the binary.
type Output struct {
	Stdout, Stderr string
	ExitCode       int
}

// NewTestHelper creates the directory layout for a test under `root`.
func NewTestHelper(t *testing.T, binary, root string) *TestHelper {
	helper := &TestHelper{
		Binary:      binary,
		Root:        root,
		ProjectDir:  filepath.Join(root, "code", "app"),
		TempTarget:  filepath.Join(root, "nvme"),
		FinalTarget: filepath.Join(root, "hdd", "target"),
		cargoLog:    filepath.Join(root, "cargo.log"),
		configDir:   filepath.Join(root, "config"),
		fs:          afero.NewOsFs(),
	}

	binDir := filepath.Join(root, "bin")
	require.NoError(t, helper.fs.MkdirAll(binDir, 0755))
	require.NoError(t, helper.fs.MkdirAll(filepath.Join(helper.ProjectDir, "src-tauri"), 0755))
	require.NoError(t, afero.WriteFile(helper.fs, filepath.Join(binDir, "cargo"),
		[]byte(fakeCargo), 0755))
	helper.path = binDir + string(os.PathListSeparator) + os.Getenv("PATH")
	return helper
}

// Run runs build-ferry with the given arguments, from the project directory.
func (helper *TestHelper) Run(ctx context.Context, env []string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, helper.Binary, args...)
	cmd.Dir = helper.ProjectDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(),
		"PATH="+helper.path,
		"HOME="+helper.Root,
		"XDG_CONFIG_HOME="+helper.configDir,
		"FAKE_CARGO_LOG="+helper.cargoLog,
		"NO_COLOR=1",
		"TERM=dumb",
	)
	cmd.Env = append(cmd.Env, env...)

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return out, errors.WithContext(err, "run build-ferry")
	}
	return out, nil
}

// WriteUserConfig writes the user-global config.
func (helper *TestHelper) WriteUserConfig(cfg config.File) error {
	return helper.writeConfig(filepath.Join(helper.configDir, "build-ferry", "config.yaml"), cfg)
}

// WriteProjectConfig writes the project's config.
func (helper *TestHelper) WriteProjectConfig(cfg config.File) error {
	return helper.writeConfig(config.GetProjectConfigPath(helper.ProjectDir), cfg)
}

func (helper *TestHelper) writeConfig(path string, cfg config.File) error {
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := helper.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "make parent")
	}
	return afero.WriteFile(helper.fs, path, yamlBytes, 0644)
}

// CargoInvocations returns the calls to the fake cargo so far. Each call is a
// map with the keys `args`, `pwd` and `target`.
func (helper *TestHelper) CargoInvocations() ([]map[string]string, error) {
	logBytes, err := afero.ReadFile(helper.fs, helper.cargoLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var calls []map[string]string
	for _, line := range strings.Split(strings.TrimSpace(string(logBytes)), "\n") {
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed cargo log line: %q", line)
		}
		if kv[0] == "args" {
			calls = append(calls, map[string]string{})
		}
		calls[len(calls)-1][kv[0]] = kv[1]
	}
	return calls, nil
}

// ReadFinal reads a file relative to the final target.
func (helper *TestHelper) ReadFinal(relPath string) (string, error) {
	contents, err := afero.ReadFile(helper.fs, filepath.Join(helper.FinalTarget, relPath))
	return string(contents), err
}

// FinalExists returns whether the final target has been created.
func (helper *TestHelper) FinalExists() (bool, error) {
	return afero.DirExists(helper.fs, helper.FinalTarget)
}
