package formatter

import (
	"encoding/json"

	"github.com/yildizm/trackedit/internal/track"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(in *Inspection) ([]byte, error) {
	output := &JSONOutput{
		Source:    in.Source,
		Summary:   createSummary(in),
		Columns:   createColumnOutputs(in.Summary),
		Overlays:  in.Overlays,
		Smoothing: in.Smoothing,
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput represents the JSON document written by inspect
type JSONOutput struct {
	Source    string          `json:"source,omitempty"`
	Summary   *SummaryOutput  `json:"summary"`
	Columns   []*ColumnOutput `json:"columns"`
	Overlays  []OverlayInfo   `json:"overlays,omitempty"`
	Smoothing float64         `json:"smoothing"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	Points    int           `json:"points"`
	Rows      int           `json:"rows"`
	Dropped   int           `json:"dropped"`
	Bounds    *BoundsOutput `json:"bounds,omitempty"`
	Perimeter float64       `json:"perimeter"`
	Closed    bool          `json:"closed"`
}

// BoundsOutput represents the bounding box of the track
type BoundsOutput struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// ColumnOutput represents one header column; numeric columns carry a range
type ColumnOutput struct {
	Name    string   `json:"name"`
	Numeric bool     `json:"numeric"`
	Present bool     `json:"present"`
	Count   int      `json:"count,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
}

// createSummary creates the summary section
func createSummary(in *Inspection) *SummaryOutput {
	s := in.Summary
	summary := &SummaryOutput{
		Points:    s.Points,
		Rows:      in.Stats.Rows,
		Dropped:   in.Stats.Dropped,
		Perimeter: s.Perimeter,
		Closed:    s.Closed,
	}

	if s.Points > 0 {
		summary.Bounds = &BoundsOutput{
			MinX: s.Bounds.Min.X,
			MinY: s.Bounds.Min.Y,
			MaxX: s.Bounds.Max.X,
			MaxY: s.Bounds.Max.Y,
		}
	}

	return summary
}

// createColumnOutputs lists every header column in file order
func createColumnOutputs(s track.Summary) []*ColumnOutput {
	stats := make(map[string]track.ColumnStats, len(s.Numeric))
	for _, cs := range s.Numeric {
		stats[cs.Name] = cs
	}

	outputs := make([]*ColumnOutput, 0, len(s.Columns))
	for _, col := range s.Columns {
		output := &ColumnOutput{Name: col, Present: true}
		if cs, ok := stats[col]; ok {
			minV, maxV, mean := cs.Min, cs.Max, cs.Mean
			output.Numeric = true
			output.Count = cs.Count
			output.Min = &minV
			output.Max = &maxV
			output.Mean = &mean
		}
		outputs = append(outputs, output)
	}

	return outputs
}
