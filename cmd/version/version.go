package version

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sidkik/build-ferry/pkg/version"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of build-ferry.",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "build-ferry %s (%s %s/%s)\n",
				version.Get(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
