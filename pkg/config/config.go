package config

import (
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// parseConfigErrTemplate is a template for when the CLI fails to parse yaml
// configuration files. The yaml library constructs errors in a way that
// loses context, and so we can only pass the error message on.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Forgetting to quote paths that contain special characters\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// File is the contents of a build-ferry configuration file. Both the
// project and the user config share this format. Unknown keys are ignored.
type File struct {
	// TempTarget is the fast scratch directory, e.g. on an NVMe drive.
	TempTarget string `json:"temp_target,omitempty"`

	// FinalTarget is the permanent directory that artifacts are mirrored
	// to after a successful build.
	FinalTarget string `json:"final_target,omitempty"`

	// IsolateProjects namespaces scratch directories by a hash of the full
	// project path, so that projects with the same directory name don't
	// share a scratch directory.
	IsolateProjects *bool `json:"isolate_projects,omitempty"`

	// MirrorWorkers limits the number of files copied concurrently.
	MirrorWorkers int `json:"mirror_workers,omitempty"`
}

// Mocked for unit testing.
var (
	fs            = afero.NewOsFs()
	homedirExpand = homedir.Expand
)

// parseConfig reads the config file at `path`. A missing file is treated as
// an empty config.
func parseConfig(path string) (File, error) {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if isPathNotFoundError(err) {
			return File{}, nil
		}
		return File{}, errors.WithContext(err, "read file")
	}

	var config File
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return File{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	// Paths in a config file are relative to the file itself, so that a
	// project config keeps working when build-ferry is run from elsewhere.
	relativeTo := filepath.Dir(path)
	if config.TempTarget, err = expandPath(config.TempTarget, relativeTo); err != nil {
		return File{}, errors.WithContext(err, "expand temp_target")
	}
	if config.FinalTarget, err = expandPath(config.FinalTarget, relativeTo); err != nil {
		return File{}, errors.WithContext(err, "expand final_target")
	}
	return config, nil
}

// writeConfig writes `config` to `path`, creating the parent directory if
// necessary.
func writeConfig(path string, config File) error {
	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "make parent")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// expandPath expands a leading `~` and makes relative paths absolute by
// joining them onto `relativeTo`. Empty paths stay empty.
func expandPath(path, relativeTo string) (string, error) {
	if path == "" {
		return "", nil
	}

	expanded, err := homedirExpand(path)
	if err != nil {
		return "", errors.WithContext(err, "expand homedir")
	}

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(relativeTo, expanded)
	}
	return filepath.Clean(expanded), nil
}

func isPathNotFoundError(err error) bool {
	return os.IsNotExist(err)
}
