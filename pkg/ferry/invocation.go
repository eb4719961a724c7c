package ferry

import (
	"strings"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// CargoTargetDirEnv is the environment variable cargo reads its build output
// directory from.
const CargoTargetDirEnv = "CARGO_TARGET_DIR"

// An Invocation describes how to run a wrapped build tool.
type Invocation struct {
	// Command is the executable, looked up in $PATH.
	Command string

	// Args are the fixed arguments for this mode. Passthrough arguments are
	// appended after them.
	Args []string

	// WorkDir is the directory to run in, relative to the project directory.
	WorkDir string

	// OutputSubpath is the tool's output directory relative to the project's
	// scratch path. It's also the root of the tree that gets mirrored.
	OutputSubpath string

	// OutputEnv is the environment variable that points the tool at its
	// output directory.
	OutputEnv string

	// Mirror is true if the tool produces a finished artifact tree that
	// should be mirrored to the final target after it exits successfully.
	// Interactive modes like `tauri dev` don't.
	Mirror bool
}

// Name returns the command line without passthrough arguments, e.g.
// "cargo tauri build".
func (inv Invocation) Name() string {
	return strings.Join(append([]string{inv.Command}, inv.Args...), " ")
}

// CargoBuild runs `cargo build` in the project directory for the given
// profile.
func CargoBuild(profile string) Invocation {
	args := []string{"build"}
	switch profile {
	case "", "debug":
	case "release":
		args = append(args, "--release")
	default:
		args = append(args, "--profile", profile)
	}

	return Invocation{
		Command:       "cargo",
		Args:          args,
		WorkDir:       ".",
		OutputSubpath: "target",
		OutputEnv:     CargoTargetDirEnv,
		Mirror:        true,
	}
}

// TauriCommand is the Tauri CLI sub-command to run.
type TauriCommand string

const (
	// TauriDev runs the app in development mode until it's closed.
	TauriDev TauriCommand = "dev"

	// TauriBuild bundles the app.
	TauriBuild TauriCommand = "build"
)

// ParseTauriCommand validates a sub-command given on the command line.
func ParseTauriCommand(s string) (TauriCommand, error) {
	switch cmd := TauriCommand(s); cmd {
	case TauriDev, TauriBuild:
		return cmd, nil
	default:
		return "", errors.NewFriendlyError("Unknown tauri command %q. "+
			"Expected %q or %q.", s, TauriDev, TauriBuild)
	}
}

// Tauri runs `cargo tauri <command>` in the project's src-tauri directory.
// Only `build` is mirrored.
func Tauri(command TauriCommand) Invocation {
	return Invocation{
		Command:       "cargo",
		Args:          []string{"tauri", string(command)},
		WorkDir:       "src-tauri",
		OutputSubpath: "src-tauri/target",
		OutputEnv:     CargoTargetDirEnv,
		Mirror:        command == TauriBuild,
	}
}
