package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandleFatalError prints the error and exits with a non-zero status.
// Friendly errors are printed as is. Other errors are printed with their full
// context chain so that the failing stage is visible.
func HandleFatalError(err error) {
	fmt.Fprintf(stderr, "%s %s\n", color.Danger.Sprint("Error:"), errorMessage(err))
	log.WithError(err).Debug("Exiting due to fatal error")
	exit(1)
}

func errorMessage(err error) string {
	var friendly errors.Friendly
	if errors.As(err, &friendly) {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}

// HandlePanic reports a panic in the same format as a fatal error, with the
// stack trace logged at Debug. It must be deferred directly.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	log.WithField("stack", string(debug.Stack())).Debug("Recovered panic")
	HandleFatalError(errors.WithContext(fmt.Errorf("%v", r), "unexpected panic"))
}
