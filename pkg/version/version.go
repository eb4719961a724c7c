package version

import "runtime/debug"

// EmptyValue is the value of Version for binaries that weren't linked with
// `-ldflags "-X github.com/sidkik/build-ferry/pkg/version.Version=..."`.
const EmptyValue = "unversioned"

// Version is the latest tag on git for releases. On non-release commits, it may
// include additional information such as the most recent commit hash.
var Version = EmptyValue

// readBuildInfo is mocked for unit testing.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the version set at link time. Binaries installed with
// `go install` aren't linked with a version, so the module version is used
// instead when it's known.
func Get() string {
	if Version != EmptyValue {
		return Version
	}

	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
