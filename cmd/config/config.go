package config

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/sidkik/build-ferry/cmd/util"
	"github.com/sidkik/build-ferry/pkg/config"
	"github.com/sidkik/build-ferry/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout        io.Writer = os.Stdout
	mergeConfig             = config.Merge
	getUserPath             = config.GetUserConfigPath
	updateUser              = config.UpdateUser
	updateProject           = config.UpdateProject
)

// New creates a new `config` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the build-ferry configuration",
	}
	cmd.AddCommand(newShowCommand(), newSetCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	var projectDir string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved targets and where each one was set",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := show(projectDir); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&projectDir, "project-dir", ".", "The project directory")
	return cmd
}

func show(projectDir string) error {
	resolved, err := mergeConfig(projectDir, config.Targets{})
	if err != nil {
		return errors.WithContext(err, "read config")
	}

	userPath, err := getUserPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "project config:\t%s\n", config.GetProjectConfigPath(resolved.ProjectDir))
	fmt.Fprintf(w, "user config:\t%s\n", userPath)
	fmt.Fprintf(w, "temp-target:\t%s\t(%s)\n",
		valueOrUnset(resolved.TempTarget), resolved.TempTargetSource)
	fmt.Fprintf(w, "final-target:\t%s\t(%s)\n",
		valueOrUnset(resolved.FinalTarget), resolved.FinalTargetSource)
	fmt.Fprintf(w, "isolate-projects:\t%t\n", resolved.IsolateProjects)
	if resolved.MirrorWorkers == 0 {
		fmt.Fprintf(w, "mirror-workers:\tdefault\n")
	} else {
		fmt.Fprintf(w, "mirror-workers:\t%d\n", resolved.MirrorWorkers)
	}
	return w.Flush()
}

func valueOrUnset(value string) string {
	if value == "" {
		return color.Warn.Sprint("<unset>")
	}
	return value
}

type setOptions struct {
	global      bool
	projectDir  string
	tempTarget  string
	finalTarget string
	isolate     bool
	workers     int
}

func newSetCommand() *cobra.Command {
	var opts setOptions
	cmd := &cobra.Command{
		Use:   "set (--global | --project-dir DIR) [flags]",
		Short: "Write settings to the user or project config",
		Long: "Write settings to the user config (--global) or to the " +
			"config in a project directory.\nSettings that aren't given " +
			"are kept. Relative paths are resolved against the current " +
			"directory.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := set(opts, cmd.Flags().Changed("isolate-projects")); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().BoolVar(&opts.global, "global", false, "Write the user config")
	cmd.Flags().StringVar(&opts.projectDir, "project-dir", "",
		"Write the config in this project directory")
	cmd.Flags().StringVar(&opts.tempTarget, "temp-target", "", "Set temp_target")
	cmd.Flags().StringVar(&opts.finalTarget, "final-target", "", "Set final_target")
	cmd.Flags().BoolVar(&opts.isolate, "isolate-projects", false, "Set isolate_projects")
	cmd.Flags().IntVar(&opts.workers, "mirror-workers", 0, "Set mirror_workers")
	return cmd
}

func set(opts setOptions, isolateSet bool) error {
	if opts.global == (opts.projectDir != "") {
		return errors.NewFriendlyError("Exactly one of --global or --project-dir must be specified.")
	}
	if opts.workers < 0 {
		return errors.NewFriendlyError("--mirror-workers must not be negative.")
	}

	changes := config.File{
		TempTarget:    opts.tempTarget,
		FinalTarget:   opts.finalTarget,
		MirrorWorkers: opts.workers,
	}
	if isolateSet {
		isolate := opts.isolate
		changes.IsolateProjects = &isolate
	}
	if changes == (config.File{}) {
		return errors.NewFriendlyError("Nothing to set. " +
			"Pass at least one of --temp-target, --final-target, " +
			"--isolate-projects or --mirror-workers.")
	}

	var path string
	var err error
	if opts.global {
		path, err = updateUser(changes)
	} else {
		path, err = updateProject(opts.projectDir, changes)
	}
	if err != nil {
		return errors.WithContext(err, "update config")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}
