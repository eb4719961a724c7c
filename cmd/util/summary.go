package util

import (
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"

	"github.com/sidkik/build-ferry/pkg/ferry"
)

// PrintSummary prints what a successful run did.
func PrintSummary(out io.Writer, res ferry.Result, finalTarget string) {
	fmt.Fprintf(out, "%s in %s\n", color.Success.Sprint("Build finished"),
		res.BuildDuration.Round(time.Millisecond))
	if !res.Mirrored {
		return
	}

	stats := res.MirrorStats
	fmt.Fprintf(out, "%s %d files (%s) in %d directories to %s in %s\n",
		color.Success.Sprint("Mirrored"), stats.Files, FormatBytes(stats.Bytes),
		stats.Dirs, color.Bold.Sprint(finalTarget),
		res.MirrorDuration.Round(time.Millisecond))
	if stats.Skipped != 0 {
		fmt.Fprintf(out, "%s %d entries that aren't regular files or directories\n",
			color.Warn.Sprint("Skipped"), stats.Skipped)
	}
}

// FormatBytes formats a byte count with a binary unit, e.g. "1.5 MiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
