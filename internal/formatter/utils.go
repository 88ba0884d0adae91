package formatter

import (
	"fmt"
	"strconv"

	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/trackedit/internal/geom"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// formatFloat renders a value the way the track file stores it
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatRect renders the bounds of a track
func formatRect(r geom.Rect) string {
	return fmt.Sprintf("%s to %s (%.1f x %.1f)", r.Min, r.Max, r.Width(), r.Height())
}

// SmoothingBar renders the smoothing factor, 0..10, as a gauge using
// go-termfmt. Values outside the range are clamped.
func SmoothingBar(smoothing float64, opts *termfmt.TerminalOptions) string {
	level := smoothing / 10
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	if opts == nil {
		opts = termfmt.DefaultOptions()
	}
	return termfmt.CreateConfidenceBar(level, opts)
}

// overlayStatus summarizes a layer for listings
func overlayStatus(o OverlayInfo) string {
	switch {
	case o.Error != "":
		return "unavailable: " + o.Error
	case o.Path == "":
		return "not configured"
	default:
		return fmt.Sprintf("%s points", formatNumber(o.Points))
	}
}
