package config

import (
	"os"
	"path/filepath"

	"github.com/sidkik/build-ferry/pkg/errors"
)

const (
	// appName is the directory build-ferry uses within the platform's
	// configuration directory.
	appName = "build-ferry"

	// userConfigName is the name of the user config within appName.
	userConfigName = "config.yaml"
)

// userConfigDir will be overridden in mock tests
var userConfigDir = os.UserConfigDir

// ParseUser parses the user-global config. A missing file results in an
// empty config.
func ParseUser() (File, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return File{}, errors.WithContext(err, "get user config path")
	}

	config, err := parseConfig(path)
	if err != nil {
		return File{}, errors.WithContext(err, "parse")
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg File) error {
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}
	return writeConfig(path, cfg)
}

// GetUserConfigPath returns the path to the user's global build-ferry
// configuration, e.g. `~/.config/build-ferry/config.yaml` on Linux.
func GetUserConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", errors.WithContext(err, "find config directory")
	}
	return filepath.Join(dir, appName, userConfigName), nil
}
