package formatter

import (
	"fmt"

	"github.com/yildizm/trackedit/internal/track"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(inspection *Inspection) ([]byte, error)
}

// Inspection is what the inspect command reports about a track file.
type Inspection struct {
	Source    string
	Summary   track.Summary
	Stats     track.LoadStats
	Overlays  []OverlayInfo
	Smoothing float64
}

// OverlayInfo describes one reference layer. Error is set when the layer
// was configured but could not be read.
type OverlayInfo struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Points int    `json:"points"`
	Error  string `json:"error,omitempty"`
}

// New returns the formatter for format. Unknown formats fall back to text.
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "text", "terminal", "":
		return NewTerminal(color), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
