package formatter

import (
	"fmt"
	"strings"
	"time"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(in *Inspection) ([]byte, error) {
	var b strings.Builder

	title := "Track Report"
	if in.Source != "" {
		title += ": " + in.Source
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, in)
	f.writeColumnTable(&b, in)

	if len(in.Overlays) > 0 {
		f.writeOverlays(&b, in.Overlays)
	}

	b.WriteString("\n---\n")
	b.WriteString("*Report generated by trackedit*\n")

	return []byte(b.String()), nil
}

// writeSummaryTable writes the geometry summary
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, in *Inspection) {
	s := in.Summary
	b.WriteString("## Summary\n\n")

	bounds := "N/A"
	if s.Points > 0 {
		bounds = formatRect(s.Bounds)
	}

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Points | %s |\n", formatNumber(s.Points))
	fmt.Fprintf(b, "| Rows Dropped | %d of %d |\n", in.Stats.Dropped, in.Stats.Rows)
	fmt.Fprintf(b, "| Bounds | %s |\n", bounds)
	fmt.Fprintf(b, "| Perimeter | %.2f |\n", s.Perimeter)
	fmt.Fprintf(b, "| Closed Curve | %t |\n", s.Closed)
	fmt.Fprintf(b, "| Smoothing | %s `%s` |\n\n", formatFloat(in.Smoothing), SmoothingBar(in.Smoothing, nil))
}

// writeColumnTable writes one row per header column
func (f *markdownFormatter) writeColumnTable(b *strings.Builder, in *Inspection) {
	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Min | Max | Mean | Values |\n")
	b.WriteString("|--------|-----|-----|------|--------|\n")

	for _, c := range createColumnOutputs(in.Summary) {
		if !c.Numeric {
			fmt.Fprintf(b, "| %s | | | | |\n", c.Name)
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s | %.3f | %d |\n",
			c.Name, formatFloat(*c.Min), formatFloat(*c.Max), *c.Mean, c.Count)
	}

	if len(in.Stats.MissingNumeric) > 0 {
		fmt.Fprintf(b, "\n**Missing numeric columns**: %s\n", strings.Join(in.Stats.MissingNumeric, ", "))
	}
	b.WriteString("\n")
}

// writeOverlays writes the reference layer list
func (f *markdownFormatter) writeOverlays(b *strings.Builder, overlays []OverlayInfo) {
	b.WriteString("## Overlays\n\n")
	for _, o := range overlays {
		if o.Path != "" {
			fmt.Fprintf(b, "- **%s** (`%s`): %s\n", o.Kind, o.Path, overlayStatus(o))
		} else {
			fmt.Fprintf(b, "- **%s**: %s\n", o.Kind, overlayStatus(o))
		}
	}
}
