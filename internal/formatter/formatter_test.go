package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yildizm/trackedit/internal/track"
)

func sampleInspection(t *testing.T) *Inspection {
	t.Helper()
	input := "x,y,speed,name\n0,0,10,a\n10,0,20,b\n10,10,30,c\n0,10,40,d\nbad,1,1,e\n"
	ps, stats, err := track.ReadCSV(strings.NewReader(input), track.LoadOptions{NumericColumns: []string{"speed", "lap"}})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return &Inspection{
		Source:  "input.csv",
		Summary: ps.Summarize(),
		Stats:   stats,
		Overlays: []OverlayInfo{
			{Kind: "inner_lane", Path: "lane/inner.csv", Points: 1200},
			{Kind: "outer_lane", Path: "lane/outer.csv", Error: "file not found"},
			{Kind: "backdrop"},
		},
		Smoothing: 2.5,
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "markdown", "md", "csv", "text", ""} {
		if _, err := New(format, false); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("yaml", false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestTerminalFormat(t *testing.T) {
	out, err := NewTerminal(false).Format(sampleInspection(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"Track Summary: input.csv",
		"Statistics",
		"1 of 5",
		"40.00",
		"10..40",
		"lap",
		"1,200 points",
		"unavailable: file not found",
		"not configured",
		"Smoothing",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	out, err := NewJSON().Format(sampleInspection(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var got JSONOutput
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	wantSummary := &SummaryOutput{
		Points:    4,
		Rows:      5,
		Dropped:   1,
		Bounds:    &BoundsOutput{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		Perimeter: 40,
		Closed:    true,
	}
	if d := cmp.Diff(wantSummary, got.Summary); d != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", d)
	}

	names := make([]string, 0, len(got.Columns))
	for _, c := range got.Columns {
		names = append(names, c.Name)
	}
	if d := cmp.Diff([]string{"x", "y", "speed", "name"}, names); d != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", d)
	}
	speed := got.Columns[2]
	if !speed.Numeric || *speed.Min != 10 || *speed.Max != 40 || *speed.Mean != 25 {
		t.Errorf("Unexpected speed stats: %+v", speed)
	}
	if got.Columns[3].Numeric {
		t.Error("name column should not be numeric")
	}
}

func TestJSONEmptyTrackOmitsBounds(t *testing.T) {
	in := &Inspection{Summary: track.New([]string{"x", "y"}).Summarize()}
	out, err := NewJSON().Format(in)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(string(out), "bounds") {
		t.Errorf("Empty track should not report bounds: %s", out)
	}
}

func TestMarkdownFormat(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}
	out, err := f.Format(sampleInspection(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"# Track Report: input.csv",
		"Generated: 2024-05-01 12:00:00",
		"| Points | 4 |",
		"| speed | 10 | 40 | 25.000 | 4 |",
		"| name | | | | |",
		"**Missing numeric columns**: lap",
		"- **inner_lane** (`lane/inner.csv`): 1,200 points",
		"- **backdrop**: not configured",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected markdown to contain %q:\n%s", want, text)
		}
	}
}

func TestCSVFormat(t *testing.T) {
	out, err := NewCSV().Format(sampleInspection(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}

	want := [][]string{
		{"Column", "Numeric", "Count", "Min", "Max", "Mean"},
		{"x", "false", "", "", "", ""},
		{"y", "false", "", "", "", ""},
		{"speed", "true", "4", "10", "40", "25"},
		{"name", "false", "", "", "", ""},
	}
	if d := cmp.Diff(want, records); d != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", d)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSmoothingBarClamps(t *testing.T) {
	if SmoothingBar(-3, nil) != SmoothingBar(0, nil) {
		t.Error("Negative smoothing should render as zero")
	}
	if SmoothingBar(42, nil) != SmoothingBar(10, nil) {
		t.Error("Smoothing above 10 should render as full")
	}
}
