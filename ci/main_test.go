//go:build ci
// +build ci

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/build-ferry/ci/util"
	"github.com/sidkik/build-ferry/pkg/config"
)

type TestFunction func(*testing.T, *util.TestHelper)

func TestBuildFerry(t *testing.T) {
	binary, ok := os.LookupEnv("CI_BUILD_FERRY_BIN")
	if !ok {
		binary = "build-ferry"
	}

	tests := []struct {
		name   string
		testFn TestFunction
	}{
		{name: "Build", testFn: testBuild},
		{name: "BuildFailure", testFn: testBuildFailure},
		{name: "TauriDev", testFn: testTauriDev},
		{name: "TauriBuild", testFn: testTauriBuild},
		{name: "ConfigTiers", testFn: testConfigTiers},
		{name: "ConfigurationMissing", testFn: testConfigurationMissing},
		{name: "Rebuild", testFn: testRebuild},
		{name: "PipedOutputIsPlain", testFn: testPipedOutputIsPlain},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// The fake cargo reports the physical working directory.
			root, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)

			test.testFn(t, util.NewTestHelper(t, binary, root))
		})
	}
}

func run(t *testing.T, helper *util.TestHelper, env []string, args ...string) util.Output {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := helper.Run(ctx, env, args...)
	require.NoError(t, err)
	return out
}

func targetFlags(helper *util.TestHelper) []string {
	return []string{"--temp-target", helper.TempTarget, "--final-target", helper.FinalTarget}
}

func testBuild(t *testing.T, helper *util.TestHelper) {
	args := append([]string{"build", "--profile", "release"}, targetFlags(helper)...)
	out := run(t, helper, nil, append(args, "--", "--locked")...)
	require.Zero(t, out.ExitCode, out.Stderr)
	assertNoErrorOrWarningLogs(t, out.Stderr)
	assert.Contains(t, out.Stdout, "Mirrored 3 files")

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "build --release --locked", calls[0]["args"])
	assert.Equal(t, helper.ProjectDir, calls[0]["pwd"])
	assert.Equal(t, filepath.Join(helper.TempTarget, "build-ferry", "app", "target"),
		calls[0]["target"])

	contents, err := helper.ReadFinal("debug/app")
	require.NoError(t, err)
	assert.Equal(t, "binary", contents)
	contents, err = helper.ReadFinal("release/bundle/deb/app.deb")
	require.NoError(t, err)
	assert.Equal(t, "package", contents)
}

func testBuildFailure(t *testing.T, helper *util.TestHelper) {
	out := run(t, helper, []string{"FAKE_CARGO_EXIT=101"},
		append([]string{"build"}, targetFlags(helper)...)...)
	assert.Equal(t, 1, out.ExitCode)
	assert.Contains(t, out.Stderr, "cargo build failed with status exit status 101")

	exists, err := helper.FinalExists()
	require.NoError(t, err)
	assert.False(t, exists, "a failed build shouldn't be mirrored")
}

func testTauriDev(t *testing.T, helper *util.TestHelper) {
	out := run(t, helper, nil, append([]string{"tauri"}, targetFlags(helper)...)...)
	require.Zero(t, out.ExitCode, out.Stderr)

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "tauri dev", calls[0]["args"])
	assert.Equal(t, filepath.Join(helper.ProjectDir, "src-tauri"), calls[0]["pwd"])
	assert.Equal(t, filepath.Join(helper.TempTarget, "build-ferry", "app", "src-tauri", "target"),
		calls[0]["target"])

	exists, err := helper.FinalExists()
	require.NoError(t, err)
	assert.False(t, exists, "dev shouldn't be mirrored")
}

func testTauriBuild(t *testing.T, helper *util.TestHelper) {
	args := append([]string{"tauri", "--command", "build"}, targetFlags(helper)...)
	out := run(t, helper, nil, append(args, "--", "--bundles", "deb")...)
	require.Zero(t, out.ExitCode, out.Stderr)

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "tauri build --bundles deb", calls[0]["args"])

	contents, err := helper.ReadFinal("release/bundle/deb/app.deb")
	require.NoError(t, err)
	assert.Equal(t, "package", contents)
}

func testConfigTiers(t *testing.T, helper *util.TestHelper) {
	require.NoError(t, helper.WriteUserConfig(config.File{
		TempTarget:  "/nonexistent/user-temp",
		FinalTarget: helper.FinalTarget,
	}))
	require.NoError(t, helper.WriteProjectConfig(config.File{
		TempTarget: helper.TempTarget,
	}))

	out := run(t, helper, nil, "config", "show")
	require.Zero(t, out.ExitCode, out.Stderr)
	assert.Contains(t, out.Stdout, "(project)")
	assert.Contains(t, out.Stdout, "(user)")

	out = run(t, helper, nil, "build")
	require.Zero(t, out.ExitCode, out.Stderr)

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0]["target"], helper.TempTarget),
		"the project config should win over the user config")

	_, err = helper.ReadFinal("debug/app")
	assert.NoError(t, err)
}

func testConfigurationMissing(t *testing.T, helper *util.TestHelper) {
	out := run(t, helper, nil, "build", "--temp-target", helper.TempTarget)
	assert.Equal(t, 1, out.ExitCode)
	assert.Contains(t, out.Stderr, "temp-target and final-target must be specified")

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	assert.Empty(t, calls, "cargo shouldn't run without a complete configuration")

	_, err = os.Stat(helper.TempTarget)
	assert.True(t, os.IsNotExist(err), "nothing should be created")
}

func testRebuild(t *testing.T, helper *util.TestHelper) {
	require.NoError(t, helper.WriteUserConfig(config.File{
		TempTarget:  helper.TempTarget,
		FinalTarget: helper.FinalTarget,
	}))

	for i := 0; i < 2; i++ {
		out := run(t, helper, nil, "build")
		require.Zero(t, out.ExitCode, out.Stderr)
	}

	calls, err := helper.CargoInvocations()
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0]["target"], calls[1]["target"], "the scratch path should be reused")

	contents, err := helper.ReadFinal("debug/deps/libcore.rlib")
	require.NoError(t, err)
	assert.Equal(t, "dep", contents)
}

func testPipedOutputIsPlain(t *testing.T, helper *util.TestHelper) {
	// A colour-capable TERM alone shouldn't colour output that isn't a terminal.
	env := []string{"NO_COLOR=", "TERM=xterm-256color"}

	out := run(t, helper, env, append([]string{"build"}, targetFlags(helper)...)...)
	require.Zero(t, out.ExitCode, out.Stderr)
	assert.Contains(t, out.Stdout, "Mirrored 3 files")
	assert.NotContains(t, out.Stdout, "\x1b[")

	out = run(t, helper, append(env, "FAKE_CARGO_EXIT=101"),
		append([]string{"build"}, targetFlags(helper)...)...)
	assert.Equal(t, 1, out.ExitCode)
	assert.Contains(t, out.Stderr, "Error: ")
	assert.NotContains(t, out.Stderr, "\x1b[")
}

func assertNoErrorOrWarningLogs(t *testing.T, log string) {
	for _, line := range strings.Split(log, "\n") {
		assert.NotContains(t, line, "level=warning", "unexpected warning log")
		assert.NotContains(t, line, "level=error", "unexpected error log")
	}
}
