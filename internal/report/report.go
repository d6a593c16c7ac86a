package report

import (
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// colorEnabled gates color codes so piped logs stay clean.
var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// SizeReport is the before/after byte-size comparison produced after a
// successful transcode. Valid is false when either size lookup failed; such
// a report renders an explicit marker and must never be treated as zero.
type SizeReport struct {
	Before int64
	After  int64
	Valid  bool
}

// Compare stats both paths and builds a SizeReport. A failed stat on either
// side yields an invalid report rather than an error.
func Compare(beforePath, afterPath string) SizeReport {
	before, err := os.Stat(beforePath)
	if err != nil {
		return SizeReport{}
	}
	after, err := os.Stat(afterPath)
	if err != nil {
		return SizeReport{}
	}
	return FromSizes(before.Size(), after.Size())
}

// FromSizes builds a valid SizeReport from known byte counts.
func FromSizes(before, after int64) SizeReport {
	return SizeReport{Before: before, After: after, Valid: true}
}

// Delta returns the percentage change, positive when the output shrank.
func (r SizeReport) Delta() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Before-r.After) / float64(r.Before) * 100
}

// Render formats the report as a human-readable fragment for a log line.
func (r SizeReport) Render() string {
	if !r.Valid {
		return colorize(text.FgMagenta, "size unavailable")
	}

	// An empty input that produced output has no meaningful percentage.
	if r.Before == 0 && r.After > 0 {
		return fmt.Sprintf("%s (0 -> %d bytes)", colorize(text.FgRed, "gained"), r.After)
	}

	delta := r.Delta()
	switch {
	case delta > 0:
		return fmt.Sprintf("%s (%d -> %d bytes)",
			colorize(text.FgGreen, fmt.Sprintf("reduced %.1f%%", delta)), r.Before, r.After)
	case delta < 0:
		return fmt.Sprintf("%s (%d -> %d bytes)",
			colorize(text.FgRed, fmt.Sprintf("gained %.1f%%", math.Abs(delta))), r.Before, r.After)
	default:
		return fmt.Sprintf("%s (%d bytes)", colorize(text.FgYellow, "unchanged"), r.Before)
	}
}

func colorize(c text.Color, s string) string {
	if !colorEnabled {
		return s
	}
	return c.Sprint(s)
}
