package ferry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/build-ferry/pkg/errors"
)

func mockWorkingDirectory(dir string) {
	getWorkingDirectory = func() (string, error) {
		return dir, nil
	}
}

func TestScratchPath(t *testing.T) {
	mockWorkingDirectory("/home/user/code")

	tests := []struct {
		name       string
		tempRoot   string
		projectDir string
		exp        string
	}{
		{
			name:       "Absolute",
			tempRoot:   "/nvme",
			projectDir: "/home/user/code/app",
			exp:        "/nvme/build-ferry/app",
		},
		{
			name:       "Relative",
			tempRoot:   "/nvme",
			projectDir: "app",
			exp:        "/nvme/build-ferry/app",
		},
		{
			name:       "CurrentDirectory",
			tempRoot:   "/nvme",
			projectDir: ".",
			exp:        "/nvme/build-ferry/code",
		},
		{
			name:       "TrailingSlash",
			tempRoot:   "/nvme",
			projectDir: "/home/user/code/app/",
			exp:        "/nvme/build-ferry/app",
		},
		{
			name:       "ParentReference",
			tempRoot:   "/nvme",
			projectDir: "../other/lib",
			exp:        "/nvme/build-ferry/lib",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			path, err := ScratchPath(test.tempRoot, test.projectDir)
			assert.NoError(t, err)
			assert.Equal(t, test.exp, path)
		})
	}
}

func TestScratchPathDeterministic(t *testing.T) {
	mockWorkingDirectory("/home/user")

	for _, projectDir := range []string{"/a/foo", "foo", "./nested/dir/bar"} {
		first, err := ScratchPath("/tmp/fast", projectDir)
		require.NoError(t, err)
		second, err := ScratchPath("/tmp/fast", projectDir)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		isolatedFirst, err := IsolatedScratchPath("/tmp/fast", projectDir)
		require.NoError(t, err)
		isolatedSecond, err := IsolatedScratchPath("/tmp/fast", projectDir)
		require.NoError(t, err)
		assert.Equal(t, isolatedFirst, isolatedSecond)
	}
}

func TestScratchPathLastSegment(t *testing.T) {
	mockWorkingDirectory("/home/user")

	for _, projectDir := range []string{"/a/foo", "bar", "/deeply/nested/project-name"} {
		path, err := ScratchPath("/nvme", projectDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(projectDir), filepath.Base(path))

		isolated, err := IsolatedScratchPath("/nvme", projectDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(projectDir), filepath.Base(isolated))
	}
}

func TestScratchPathRoot(t *testing.T) {
	mockWorkingDirectory("/")

	for _, projectDir := range []string{"/", ".", "/.."} {
		_, err := ScratchPath("/nvme", projectDir)
		assert.Equal(t, errors.InvalidProjectPath{Path: projectDir}, err, projectDir)

		_, err = IsolatedScratchPath("/nvme", projectDir)
		assert.Equal(t, errors.InvalidProjectPath{Path: projectDir}, err, projectDir)
	}
}

func TestScratchPathSameName(t *testing.T) {
	mockWorkingDirectory("/")

	// Projects with the same directory name share a scratch directory unless
	// they're isolated.
	a, err := ScratchPath("/nvme", "/a/foo")
	require.NoError(t, err)
	b, err := ScratchPath("/nvme", "/b/foo")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	a, err = IsolatedScratchPath("/nvme", "/a/foo")
	require.NoError(t, err)
	b, err = IsolatedScratchPath("/nvme", "/b/foo")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "/nvme/build-ferry", filepath.Dir(filepath.Dir(a)))
	assert.Len(t, filepath.Base(filepath.Dir(a)), 16)
}
