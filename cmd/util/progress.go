package util

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Mocked for unit testing.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MirrorProgress shows a spinner with the number of bytes mirrored so far.
// It's a no-op when stderr isn't a terminal, so that piped output isn't
// polluted with control characters.
type MirrorProgress struct {
	bar *progressbar.ProgressBar
}

// NewMirrorProgress creates a MirrorProgress that writes to `out`.
func NewMirrorProgress(out io.Writer, description string) *MirrorProgress {
	if !isTerminal(os.Stderr) {
		return &MirrorProgress{}
	}

	// The total is unknown since the tree is walked while it's copied.
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &MirrorProgress{bar: bar}
}

// Copied records a copied file. It's safe to call from multiple goroutines,
// and matches the signature of mirror.Options.OnCopied.
func (mp *MirrorProgress) Copied(_ string, size int64) {
	if mp.bar == nil {
		return
	}
	_ = mp.bar.Add64(size)
}

// Finish clears the spinner.
func (mp *MirrorProgress) Finish() {
	if mp.bar == nil {
		return
	}
	_ = mp.bar.Finish()
}
