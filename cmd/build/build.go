package build

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/build-ferry/cmd/util"
	"github.com/sidkik/build-ferry/pkg/config"
	"github.com/sidkik/build-ferry/pkg/errors"
	"github.com/sidkik/build-ferry/pkg/ferry"
)

// Mocked for unit testing.
var (
	stdout        io.Writer = os.Stdout
	resolveConfig           = config.Resolve
	runJob                  = ferry.Run
)

// New creates a new `build` command.
func New() *cobra.Command {
	var targets util.TargetFlags
	var profile string
	cmd := &cobra.Command{
		Use:   "build [flags] [-- cargo args...]",
		Short: "Run `cargo build` in a temp target and mirror the artifacts",
		Long: "Run `cargo build` with CARGO_TARGET_DIR pointing at the project's " +
			"directory within the temp target.\nIf the build succeeds, the " +
			"target directory is mirrored to the final target.",
		Args: util.ValidatePassthroughArgs,
		Run: func(cmd *cobra.Command, args []string) {
			passthrough, err := util.PassthroughArgs(cmd, args)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(targets, ferry.CargoBuild(profile), passthrough); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	targets.Register(cmd)
	cmd.Flags().StringVar(&profile, "profile", "debug",
		"The cargo profile to build with, e.g. `debug` or `release`")
	return cmd
}

func run(targets util.TargetFlags, inv ferry.Invocation, passthrough []string) error {
	cfg, err := resolveConfig(targets.ProjectDir, targets.Targets())
	if err != nil {
		return errors.WithContext(err, "resolve config")
	}

	progress := util.NewMirrorProgress(os.Stderr, "Mirroring artifacts")
	res, err := runJob(ferry.Job{
		Config:          cfg,
		Invocation:      inv,
		PassthroughArgs: passthrough,
		OnCopied:        progress.Copied,
	})
	progress.Finish()
	if err != nil {
		return err
	}

	util.PrintSummary(stdout, res, cfg.FinalTarget)
	return nil
}
