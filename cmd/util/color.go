package util

import (
	"os"

	"github.com/gookit/color"
)

// noColorKey disables coloured output when it's set to a non-empty value.
// See https://no-color.org.
const noColorKey = "NO_COLOR"

// ConfigureColor only enables coloured output when both stdout and stderr
// are terminals and NO_COLOR isn't set. gookit/color otherwise decides from
// TERM, which leaks escape codes into piped output.
func ConfigureColor() {
	noColor := os.Getenv(noColorKey) != ""
	color.Enable = !noColor && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
