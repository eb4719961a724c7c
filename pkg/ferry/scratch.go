package ferry

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// Namespace is the directory within the temp target that holds every
// project's scratch directory.
const Namespace = "build-ferry"

// getWorkingDirectory will be overridden in mock tests
var getWorkingDirectory = os.Getwd

// ScratchPath returns the scratch directory for the project at `projectDir`:
// `<tempRoot>/build-ferry/<project name>`, where the project name is the last
// segment of the absolute project path.
// The result only depends on the arguments and the working directory, so the
// wrapped tool sees the same output directory on every run and can reuse its
// incremental cache.
// Projects in different directories with the same name share a scratch
// directory. IsolatedScratchPath avoids this.
func ScratchPath(tempRoot, projectDir string) (string, error) {
	_, name, err := projectName(projectDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(tempRoot, Namespace, name), nil
}

// IsolatedScratchPath is like ScratchPath, but inserts a digest of the
// absolute project path before the project name, so that projects with the
// same name get separate scratch directories.
func IsolatedScratchPath(tempRoot, projectDir string) (string, error) {
	absPath, name, err := projectName(projectDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(tempRoot, Namespace, pathDigest(absPath), name), nil
}

// projectName resolves `projectDir` to an absolute path and returns it along
// with its last segment.
func projectName(projectDir string) (absPath, name string, err error) {
	absPath = projectDir
	if !filepath.IsAbs(absPath) {
		cwd, err := getWorkingDirectory()
		if err != nil {
			return "", "", errors.WithContext(err, "get working directory")
		}
		absPath = filepath.Join(cwd, absPath)
	}
	absPath = filepath.Clean(absPath)

	// The cleaned path only ends in a separator if it's the root.
	_, name = filepath.Split(absPath)
	if name == "" {
		return "", "", errors.InvalidProjectPath{Path: projectDir}
	}
	return absPath, name, nil
}

func pathDigest(path string) string {
	sum := blake3.Sum256([]byte(path))
	return hex.EncodeToString(sum[:8])
}
