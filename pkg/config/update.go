package config

import (
	"github.com/sidkik/build-ferry/pkg/errors"
)

// UpdateUser sets the non-zero fields of `changes` in the user config, and
// keeps the rest of the existing config. Relative paths in `changes` are
// resolved against the working directory. It returns the path of the
// written file.
func UpdateUser(changes File) (string, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return "", errors.WithContext(err, "get path")
	}

	curr, err := ParseUser()
	if err != nil {
		return "", err
	}

	updated, err := apply(curr, changes)
	if err != nil {
		return "", err
	}
	return path, WriteUser(updated)
}

// UpdateProject is like UpdateUser, but for the config of the project at
// `projectDir`.
func UpdateProject(projectDir string, changes File) (string, error) {
	cwd, err := getWorkingDirectory()
	if err != nil {
		return "", errors.WithContext(err, "get working directory")
	}
	projectDir = absPath(projectDir, cwd)

	isDir, err := isDirectory(projectDir)
	if err != nil {
		return "", errors.WithContext(err, "stat project")
	}
	if !isDir {
		return "", errors.FileNotFound{Path: projectDir}
	}

	curr, err := ParseProject(projectDir)
	if err != nil {
		return "", err
	}

	updated, err := apply(curr, changes)
	if err != nil {
		return "", err
	}
	return GetProjectConfigPath(projectDir), WriteProject(projectDir, updated)
}

func apply(curr, changes File) (File, error) {
	cwd, err := getWorkingDirectory()
	if err != nil {
		return File{}, errors.WithContext(err, "get working directory")
	}

	if changes.TempTarget != "" {
		if curr.TempTarget, err = expandPath(changes.TempTarget, cwd); err != nil {
			return File{}, errors.WithContext(err, "expand temp_target")
		}
	}
	if changes.FinalTarget != "" {
		if curr.FinalTarget, err = expandPath(changes.FinalTarget, cwd); err != nil {
			return File{}, errors.WithContext(err, "expand final_target")
		}
	}
	if changes.IsolateProjects != nil {
		curr.IsolateProjects = changes.IsolateProjects
	}
	if changes.MirrorWorkers != 0 {
		curr.MirrorWorkers = changes.MirrorWorkers
	}
	return curr, nil
}
