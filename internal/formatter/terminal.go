package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/trackedit/internal/emoji"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7D56F4")).
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("#7D56F4")).
	Padding(0, 1)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(in *Inspection) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, in.Source)
	f.writeStatistics(&b, in)
	f.writeColumns(&b, in)

	if len(in.Overlays) > 0 {
		f.writeOverlays(&b, in.Overlays)
	}

	f.writeSmoothing(&b, in.Smoothing)

	return []byte(b.String()), nil
}

// writeHeader writes the title box. With colour enabled lipgloss draws it.
func (f *terminalFormatter) writeHeader(b *strings.Builder, source string) {
	header := "Track Summary"
	if source != "" {
		header += ": " + source
	}

	if f.opts.Color {
		b.WriteString(headerStyle.Render(header) + "\n\n")
		return
	}

	headerLen := len([]rune(header))
	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes geometry statistics with tree-style formatting
func (f *terminalFormatter) writeStatistics(b *strings.Builder, in *Inspection) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	s := in.Summary
	items := []termfmt.TreeItem{
		{Label: "Points", Value: formatNumber(s.Points)},
		{Label: "Rows Dropped", Value: fmt.Sprintf("%d of %d", in.Stats.Dropped, in.Stats.Rows)},
	}
	if s.Points > 0 {
		items = append(items,
			termfmt.TreeItem{Label: "Bounds", Value: formatRect(s.Bounds)},
			termfmt.TreeItem{Label: "Perimeter", Value: fmt.Sprintf("%.2f", s.Perimeter)},
		)
	}
	closed := "no (fewer than 4 points)"
	if s.Closed {
		closed = "yes"
	}
	items = append(items, termfmt.TreeItem{Label: "Closed Curve", Value: closed, Last: true})

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeColumns lists the header and the range of each numeric column
func (f *terminalFormatter) writeColumns(b *strings.Builder, in *Inspection) {
	symbol := emoji.GetEmoji("number")
	b.WriteString(symbol + " Columns\n")

	items := make([]termfmt.TreeItem, 0, len(in.Summary.Columns))
	numeric := make(map[string]int, len(in.Summary.Numeric))
	for i, cs := range in.Summary.Numeric {
		numeric[cs.Name] = i
	}

	for _, col := range in.Summary.Columns {
		item := termfmt.TreeItem{Label: col}
		if idx, ok := numeric[col]; ok {
			cs := in.Summary.Numeric[idx]
			item.Value = fmt.Sprintf("%s..%s", formatFloat(cs.Min), formatFloat(cs.Max))
			item.Children = []termfmt.TreeItem{
				{Label: "Mean", Value: fmt.Sprintf("%.3f", cs.Mean)},
				{Label: "Values", Value: formatNumber(cs.Count), Last: true},
			}
		}
		items = append(items, item)
	}

	for _, col := range in.Stats.MissingNumeric {
		items = append(items, termfmt.TreeItem{Label: col, Value: "(numeric column not in file)"})
	}
	for i := range items {
		items[i].Last = i == len(items)-1
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeOverlays lists the reference layers
func (f *terminalFormatter) writeOverlays(b *strings.Builder, overlays []OverlayInfo) {
	symbol := emoji.GetEmoji("lane")
	b.WriteString(symbol + " Overlays\n")

	items := make([]termfmt.TreeItem, 0, len(overlays))
	for i, o := range overlays {
		items = append(items, termfmt.TreeItem{
			Label: o.Kind,
			Value: overlayStatus(o),
			Last:  i == len(overlays)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeSmoothing(b *strings.Builder, smoothing float64) {
	symbol := emoji.GetEmoji("smoothing")
	fmt.Fprintf(b, "%s Smoothing %s %s\n", symbol, SmoothingBar(smoothing, f.opts), formatFloat(smoothing))
}
