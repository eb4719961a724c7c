package tauri

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

// New creates a new `tauri` command.
func New() *cobra.Command {
	var targets util.TargetFlags
	var command string
	cmd := &cobra.Command{
		Use:   "tauri [flags] [-- tauri args...]",
		Short: "Run `cargo tauri dev|build` in a temp target",
		Long: "Run `cargo tauri` in the project's src-tauri directory with " +
			"CARGO_TARGET_DIR pointing at the project's directory within the " +
			"temp target.\nAfter a successful `build`, the bundled target " +
			"directory is mirrored to the final target. `dev` never mirrors.",
		Args: util.ValidatePassthroughArgs,
		Run: func(cmd *cobra.Command, args []string) {
			passthrough, err := util.PassthroughArgs(cmd, args)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(targets, command, passthrough); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	targets.Register(cmd)
	cmd.Flags().StringVar(&command, "command", string(ferry.TauriDev),
		"The Tauri command to run: `dev` or `build`")
	return cmd
}

func run(targets util.TargetFlags, command string, passthrough []string) error {
	tauriCmd, err := ferry.ParseTauriCommand(command)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(targets.ProjectDir, targets.Targets())
	if err != nil {
		return errors.WithContext(err, "resolve config")
	}

	progress := util.NewMirrorProgress(os.Stderr, "Mirroring bundle")
	res, err := runJob(ferry.Job{
		Config:          cfg,
		Invocation:      ferry.Tauri(tauriCmd),
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
