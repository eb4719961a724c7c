package config

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// Source identifies which tier a resolved setting came from.
type Source string

const (
	// SourceFlag means the value was passed on the command line.
	SourceFlag Source = "flag"

	// SourceProject means the value came from the project config.
	SourceProject Source = "project"

	// SourceUser means the value came from the user-global config.
	SourceUser Source = "user"

	// SourceUnset means no tier set the value.
	SourceUnset Source = "unset"
)

// Targets are the directories that can be set on the command line.
type Targets struct {
	TempTarget  string
	FinalTarget string
}

// Resolved is the fully merged configuration for a single invocation. All
// paths are absolute.
type Resolved struct {
	ProjectDir string

	TempTarget       string
	TempTargetSource Source

	FinalTarget       string
	FinalTargetSource Source

	IsolateProjects bool
	MirrorWorkers   int
}

// getWorkingDirectory will be overridden in mock tests
var getWorkingDirectory = os.Getwd

// Resolve merges the command line targets with the project and user configs,
// and checks that the result is usable. It fails with
// errors.ConfigurationMissing if either target is unset in every tier.
func Resolve(projectDir string, flags Targets) (Resolved, error) {
	resolved, err := Merge(projectDir, flags)
	if err != nil {
		return Resolved{}, err
	}

	var missing []string
	if resolved.TempTargetSource == SourceUnset {
		missing = append(missing, "temp-target")
	}
	if resolved.FinalTargetSource == SourceUnset {
		missing = append(missing, "final-target")
	}
	if len(missing) != 0 {
		return Resolved{}, errors.ConfigurationMissing{Missing: missing}
	}

	isDir, err := isDirectory(resolved.ProjectDir)
	if err != nil {
		return Resolved{}, errors.WithContext(err, "stat project directory")
	}
	if !isDir {
		return Resolved{}, errors.FileNotFound{Path: resolved.ProjectDir}
	}

	log.WithFields(log.Fields{
		"projectDir":  resolved.ProjectDir,
		"tempTarget":  resolved.TempTarget,
		"tempSource":  resolved.TempTargetSource,
		"finalTarget": resolved.FinalTarget,
		"finalSource": resolved.FinalTargetSource,
	}).Debug("Resolved configuration")
	return resolved, nil
}

// Merge merges the command line targets with the project and user configs.
// Each setting is taken from the first tier that sets it, in the order: flag,
// project config, user config. Unset targets are reported as SourceUnset.
func Merge(projectDir string, flags Targets) (Resolved, error) {
	cwd, err := getWorkingDirectory()
	if err != nil {
		return Resolved{}, errors.WithContext(err, "get working directory")
	}

	projectDir = absPath(projectDir, cwd)
	projectConfig, err := ParseProject(projectDir)
	if err != nil {
		return Resolved{}, errors.WithContext(err, "project config")
	}

	userConfig, err := ParseUser()
	if err != nil {
		return Resolved{}, errors.WithContext(err, "user config")
	}

	// Relative flags are relative to where the user ran the command.
	for _, flag := range []*string{&flags.TempTarget, &flags.FinalTarget} {
		if *flag == "" {
			continue
		}
		if *flag, err = expandPath(*flag, cwd); err != nil {
			return Resolved{}, errors.WithContext(err, "expand flag")
		}
	}

	resolved := Resolved{ProjectDir: projectDir}
	resolved.TempTarget, resolved.TempTargetSource = firstSet(
		flags.TempTarget, projectConfig.TempTarget, userConfig.TempTarget)
	resolved.FinalTarget, resolved.FinalTargetSource = firstSet(
		flags.FinalTarget, projectConfig.FinalTarget, userConfig.FinalTarget)

	switch {
	case projectConfig.IsolateProjects != nil:
		resolved.IsolateProjects = *projectConfig.IsolateProjects
	case userConfig.IsolateProjects != nil:
		resolved.IsolateProjects = *userConfig.IsolateProjects
	}

	resolved.MirrorWorkers = projectConfig.MirrorWorkers
	if resolved.MirrorWorkers == 0 {
		resolved.MirrorWorkers = userConfig.MirrorWorkers
	}

	return resolved, nil
}

func firstSet(flag, project, user string) (string, Source) {
	switch {
	case flag != "":
		return flag, SourceFlag
	case project != "":
		return project, SourceProject
	case user != "":
		return user, SourceUser
	default:
		return "", SourceUnset
	}
}

func absPath(path, cwd string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return filepath.Clean(path)
}

func isDirectory(path string) (bool, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}
