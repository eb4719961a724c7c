package errors

import (
	"fmt"
	"strings"
)

// ConfigurationMissing is returned when the temp or final target couldn't be
// resolved from flags or any config file.
type ConfigurationMissing struct {
	// Missing lists the unresolved settings, e.g. "temp-target".
	Missing []string
}

func (err ConfigurationMissing) Error() string {
	return fmt.Sprintf("temp-target and final-target must be specified "+
		"either via CLI flags or config files (missing: %s)",
		strings.Join(err.Missing, ", "))
}

// InvalidProjectPath represents a project directory that has no final path
// segment to name it by, such as the filesystem root.
type InvalidProjectPath struct {
	Path string
}

func (err InvalidProjectPath) Error() string {
	return fmt.Sprintf("cannot derive a project name from %q", err.Path)
}

// ScratchDirCreateFailed represents a failure to create the scratch output
// directory before running the wrapped tool.
type ScratchDirCreateFailed struct {
	Path string
	Err  error
}

func (err ScratchDirCreateFailed) Error() string {
	return fmt.Sprintf("failed to create temp target dir %s: %s", err.Path, err.Err)
}

func (err ScratchDirCreateFailed) Unwrap() error {
	return err.Err
}

// FinalDirCreateFailed represents a failure to create the root of the
// mirrored tree.
type FinalDirCreateFailed struct {
	Path string
	Err  error
}

func (err FinalDirCreateFailed) Error() string {
	return fmt.Sprintf("failed to create final target dir %s: %s", err.Path, err.Err)
}

func (err FinalDirCreateFailed) Unwrap() error {
	return err.Err
}

// SpawnFailed represents a wrapped tool that couldn't be started at all.
type SpawnFailed struct {
	Command string
	Err     error
}

func (err SpawnFailed) Error() string {
	return fmt.Sprintf("failed to spawn `%s`: %s", err.Command, err.Err)
}

func (err SpawnFailed) Unwrap() error {
	return err.Err
}

// WrappedToolFailed represents a wrapped tool that started but didn't exit
// successfully.
type WrappedToolFailed struct {
	Command string

	// Status is the exit status as reported by the OS, e.g. "exit status 101"
	// or "signal: killed".
	Status string

	// ExitCode is -1 if the process was terminated by a signal.
	ExitCode int
}

func (err WrappedToolFailed) Error() string {
	return fmt.Sprintf("%s failed with status %s", err.Command, err.Status)
}

// MirrorFailed represents an I/O error while copying the artifact tree.
type MirrorFailed struct {
	Path string
	Err  error
}

func (err MirrorFailed) Error() string {
	return fmt.Sprintf("mirror %q: %s", err.Path, err.Err)
}

func (err MirrorFailed) Unwrap() error {
	return err.Err
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}
