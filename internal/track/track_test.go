package track

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `id,x,y,speed,label
a,0,0,1,start
b,10,0,2,
c,10,10,3,corner
d,0,10,4,end
`

func TestReadCSV(t *testing.T) {
	ps, stats, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if ps.Len() != 4 {
		t.Fatalf("Expected 4 points, got %d", ps.Len())
	}
	if stats.Dropped != 0 {
		t.Errorf("Expected no dropped rows, got %d", stats.Dropped)
	}
	if d := cmp.Diff([]string{"id", "x", "y", "speed", "label"}, ps.Columns); d != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", d)
	}

	p := ps.Points[2]
	if p.X != 10 || p.Y != 10 {
		t.Errorf("Expected (10,10), got (%v,%v)", p.X, p.Y)
	}
	speed, ok := p.Attrs.Get("speed")
	if !ok || speed.Kind() != KindNumber {
		t.Fatalf("Expected numeric speed, got %+v", speed)
	}
	if f, _ := speed.Float(); f != 3 {
		t.Errorf("Expected speed 3, got %v", f)
	}
	label, _ := p.Attrs.Get("label")
	if label.Kind() != KindText || label.String() != "corner" {
		t.Errorf("Expected text label 'corner', got %+v", label)
	}
	if d := cmp.Diff([]string{"id", "speed", "label"}, p.Attrs.Keys()); d != "" {
		t.Errorf("Attribute order mismatch (-want +got):\n%s", d)
	}
}

func TestLoadDropsUnparsableRows(t *testing.T) {
	header := []string{"x", "y", "speed", "note"}
	rows := [][]string{
		{"1", "2", "3", "ok"},
		{"abc", "2", "3", "bad x"},
		{"1", "", "3", "bad y"},
		{"1", "2", "fast", "bad speed"},
		{"1"},
		{" 4.5 ", "5", "6", "padded"},
	}

	ps, stats, err := Load(header, rows, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ps.Len() != 2 {
		t.Fatalf("Expected 2 points, got %d", ps.Len())
	}
	if stats.Dropped != 4 {
		t.Errorf("Expected 4 dropped rows, got %d", stats.Dropped)
	}
	if ps.Points[1].X != 4.5 {
		t.Errorf("Expected padded value to parse as 4.5, got %v", ps.Points[1].X)
	}
}

func TestReadCSVStrayQuote(t *testing.T) {
	data := "x,y,speed,name\n0,0,1,a\n1,0,2,b\"c\n1,1,3,d\n0,1,4,e\n"

	ps, stats, err := ReadCSV(strings.NewReader(data), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if ps.Len() != 4 {
		t.Fatalf("Expected 4 points, got %d", ps.Len())
	}
	if stats.Rows != 4 || stats.Dropped != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	var names []string
	for _, p := range ps.Points {
		v, _ := p.Attrs.Get("name")
		names = append(names, v.String())
	}
	if diff := cmp.Diff([]string{"a", `b"c`, "d", "e"}, names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVDropsBadRowsAroundStrayQuote(t *testing.T) {
	data := "x,y\n0,0\nnope,0\n1,\"0\n1,1\n"

	ps, stats, err := ReadCSV(strings.NewReader(data), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	// The stray quote opens a field that runs to the end of input, so
	// that row swallows the last line and fails to parse as a number.
	if ps.Len() != 1 {
		t.Fatalf("Expected 1 point, got %d", ps.Len())
	}
	if stats.Rows != 3 || stats.Dropped != 2 {
		t.Errorf("Expected 3 rows with 2 dropped, got %+v", stats)
	}
}

func TestLoadSpeedOnlyParsedWhenDesignated(t *testing.T) {
	header := []string{"x", "y", "speed"}
	rows := [][]string{{"1", "2", "fast"}}

	ps, _, err := Load(header, rows, LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ps.Len() != 1 {
		t.Fatalf("Expected row to be kept when speed is not designated, got %d points", ps.Len())
	}
	v, _ := ps.Points[0].Attrs.Get("speed")
	if v.Kind() != KindText {
		t.Errorf("Expected text speed, got %v", v.Kind())
	}
}

func TestLoadMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		missing []string
		kind    FormatErrorKind
	}{
		{"no header", nil, nil, MissingHeader},
		{"missing x", []string{"y", "speed"}, []string{"x"}, MissingColumn},
		{"missing both", []string{"lat", "lon"}, []string{"x", "y"}, MissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.header, nil, DefaultLoadOptions())
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FormatError, got %v", err)
			}
			if fe.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, fe.Kind)
			}
			if d := cmp.Diff(tt.missing, fe.Columns); d != "" {
				t.Errorf("Missing columns mismatch (-want +got):\n%s", d)
			}
			if !errors.Is(err, &FormatError{Kind: tt.kind}) {
				t.Errorf("errors.Is should match by kind")
			}
		})
	}
}

func TestLoadReportsMissingNumericColumn(t *testing.T) {
	_, stats, err := Load([]string{"x", "y"}, [][]string{{"1", "2"}}, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d := cmp.Diff([]string{"speed"}, stats.MissingNumeric); d != "" {
		t.Errorf("MissingNumeric mismatch (-want +got):\n%s", d)
	}
}

func TestRoundTrip(t *testing.T) {
	ps, _, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	// Long mantissas must survive a save/reload cycle.
	ps.Points[0].X = 1.0 / 3.0
	ps.Points[1].Y = -123456.78901234567
	ps.Points[2].Attrs.Set("speed", Number(math.Pi))

	var buf bytes.Buffer
	if err := ps.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	reloaded, _, err := ReadCSV(&buf, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if d := cmp.Diff(ps.Columns, reloaded.Columns); d != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", d)
	}
	if reloaded.Len() != ps.Len() {
		t.Fatalf("Expected %d rows, got %d", ps.Len(), reloaded.Len())
	}
	for i := range ps.Points {
		if d := cmp.Diff(ps.Row(i), reloaded.Row(i)); d != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, d)
		}
		if ps.Points[i].X != reloaded.Points[i].X || ps.Points[i].Y != reloaded.Points[i].Y {
			t.Errorf("row %d position changed: %v -> %v", i, ps.Points[i].Pos(), reloaded.Points[i].Pos())
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ps, _, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	c := ps.Clone()

	c.Points[0].X = 99
	c.Points[0].Attrs.Set("speed", Number(42))
	c.Points[0].Attrs.Set("extra", Text("new"))
	c.Columns[0] = "changed"

	if ps.Points[0].X != 0 {
		t.Errorf("clone shares positions")
	}
	if f, _ := ps.Points[0].Attrs.Float("speed"); f != 1 {
		t.Errorf("clone shares attribute values, speed = %v", f)
	}
	if ps.Points[0].Attrs.Len() != 3 {
		t.Errorf("clone shares attribute keys, len = %d", ps.Points[0].Attrs.Len())
	}
	if ps.Columns[0] != "id" {
		t.Errorf("clone shares header")
	}
}

func TestReadFileErrors(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultLoadOptions())
	var fae *FileAccessError
	if !errors.As(err, &fae) {
		t.Fatalf("Expected *FileAccessError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist")
	}

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("lat,lon\n1,2\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	_, _, err = ReadFile(path, DefaultLoadOptions())
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FormatError, got %v", err)
	}
	if fe.Source != path {
		t.Errorf("Expected source %s, got %s", path, fe.Source)
	}
}

func TestWriteFile(t *testing.T) {
	ps, _, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ps.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,x,y,speed,label\na,0,0,1,start\n") {
		t.Errorf("Unexpected output:\n%s", data)
	}
}

func TestSummarize(t *testing.T) {
	ps, _, err := ReadCSV(strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	s := ps.Summarize()
	if s.Points != 4 || !s.Closed {
		t.Errorf("Unexpected summary header: %+v", s)
	}
	if s.Perimeter != 40 {
		t.Errorf("Expected perimeter 40, got %v", s.Perimeter)
	}
	if len(s.Numeric) != 1 || s.Numeric[0].Name != "speed" {
		t.Fatalf("Expected speed statistics only, got %+v", s.Numeric)
	}
	if s.Numeric[0].Min != 1 || s.Numeric[0].Max != 4 || s.Numeric[0].Mean != 2.5 {
		t.Errorf("Unexpected speed stats: %+v", s.Numeric[0])
	}

	lo, hi, ok := ps.NumericRange("speed")
	if !ok || lo != 1 || hi != 4 {
		t.Errorf("NumericRange = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := ps.NumericRange("label"); ok {
		t.Errorf("text column should have no numeric range")
	}
}
