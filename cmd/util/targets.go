package util

import (
	"github.com/spf13/cobra"

	"github.com/sidkik/build-ferry/pkg/config"
	"github.com/sidkik/build-ferry/pkg/errors"
)

// TargetFlags are the flags shared by commands that run a build.
type TargetFlags struct {
	ProjectDir  string
	TempTarget  string
	FinalTarget string
}

// Register adds the flags to `cmd`.
func (f *TargetFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ProjectDir, "project-dir", ".",
		"The project directory")
	cmd.Flags().StringVar(&f.TempTarget, "temp-target", "",
		"The fast directory to build in. "+
			"Optional: Defaults to `temp_target` in the project or user config.")
	cmd.Flags().StringVar(&f.FinalTarget, "final-target", "",
		"The directory to mirror finished artifacts to. "+
			"Optional: Defaults to `final_target` in the project or user config.")
}

// Targets returns the target paths given on the command line.
func (f TargetFlags) Targets() config.Targets {
	return config.Targets{
		TempTarget:  f.TempTarget,
		FinalTarget: f.FinalTarget,
	}
}

// PassthroughArgs returns the arguments after `--`, which are passed to the
// wrapped tool verbatim. Positional arguments before `--` aren't allowed.
func PassthroughArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	switch {
	case dash == -1 && len(args) != 0:
		return nil, errors.NewFriendlyError("Unexpected arguments %q. "+
			"Arguments for the wrapped tool must come after `--`.", args)
	case dash > 0:
		return nil, errors.NewFriendlyError("Unexpected arguments %q. "+
			"Arguments for the wrapped tool must come after `--`.", args[:dash])
	case dash == -1:
		return nil, nil
	default:
		return args[dash:], nil
	}
}

// ValidatePassthroughArgs is a cobra.PositionalArgs that rejects arguments
// before `--`.
func ValidatePassthroughArgs(cmd *cobra.Command, args []string) error {
	_, err := PassthroughArgs(cmd, args)
	return err
}
