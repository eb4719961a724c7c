package config

import (
	"path/filepath"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// ProjectConfigName is the name of the config file that lives in the root of
// a project.
const ProjectConfigName = ".build-ferry.yaml"

// ParseProject parses the config in the project directory `projectDir`. A
// missing file results in an empty config.
func ParseProject(projectDir string) (File, error) {
	config, err := parseConfig(GetProjectConfigPath(projectDir))
	if err != nil {
		return File{}, errors.WithContext(err, "parse")
	}
	return config, nil
}

// WriteProject writes the given config into the project directory.
func WriteProject(projectDir string, cfg File) error {
	return writeConfig(GetProjectConfigPath(projectDir), cfg)
}

// GetProjectConfigPath returns the path to the config file for the project
// at `projectDir`.
func GetProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectConfigName)
}
