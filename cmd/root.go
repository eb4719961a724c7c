package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/build-ferry/cmd/build"
	configCmd "github.com/sidkik/build-ferry/cmd/config"
	"github.com/sidkik/build-ferry/cmd/tauri"
	"github.com/sidkik/build-ferry/cmd/util"
	"github.com/sidkik/build-ferry/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "BUILD_FERRY_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}
	util.ConfigureColor()

	if err := NewRoot().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

// NewRoot creates the top-level `build-ferry` command.
func NewRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "build-ferry",
		Short: "Build in a fast temp target and mirror artifacts to a final target",
		Long: "build-ferry runs cargo with CARGO_TARGET_DIR pointing at a fast " +
			"scratch directory,\nthen mirrors the finished artifacts to a " +
			"permanent directory.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		build.New(),
		configCmd.New(),
		tauri.New(),
		version.New(),
	)
	return rootCmd
}
