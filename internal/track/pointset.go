// Package track holds the editable point store: an ordered sequence of track
// points with their per-row attributes, loaded from and written back to flat
// tabular rows.
package track

import (
	"strconv"
	"strings"

	"github.com/yildizm/trackedit/internal/geom"
)

// Names of the required position columns.
const (
	ColumnX = "x"
	ColumnY = "y"
)

// ColumnSpeed is the designated numeric column parsed at load time when no
// other list is configured.
const ColumnSpeed = "speed"

// Point is one track sample. X and Y are the promoted position columns;
// Attrs holds every other column of the row.
type Point struct {
	X     float64
	Y     float64
	Attrs Attributes
}

// Pos returns the position of p.
func (p Point) Pos() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// SetPos moves p to pos, leaving attributes untouched.
func (p *Point) SetPos(pos geom.Point) {
	p.X = pos.X
	p.Y = pos.Y
}

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	return Point{X: p.X, Y: p.Y, Attrs: p.Attrs.Clone()}
}

// PointSet is the ordered, mutable sequence of points being edited. The
// sequence order is the traversal order of the track. Indices are positions
// in Points and are invalidated by any operation that replaces the sequence.
type PointSet struct {
	Columns []string
	Points  []Point
}

// New returns an empty point set with the given header.
func New(columns []string) *PointSet {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &PointSet{Columns: cols}
}

// Len returns the number of points.
func (ps *PointSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.Points)
}

// Positions returns a snapshot of every point position.
func (ps *PointSet) Positions() []geom.Point {
	out := make([]geom.Point, len(ps.Points))
	for i, p := range ps.Points {
		out[i] = p.Pos()
	}
	return out
}

// HasColumn reports whether name is part of the header.
func (ps *PointSet) HasColumn(name string) bool {
	for _, c := range ps.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a fully independent deep copy of ps.
func (ps *PointSet) Clone() *PointSet {
	if ps == nil {
		return nil
	}
	c := New(ps.Columns)
	c.Points = make([]Point, len(ps.Points))
	for i, p := range ps.Points {
		c.Points[i] = p.Clone()
	}
	return c
}

// Row renders point i as dataset fields in header order.
func (ps *PointSet) Row(i int) []string {
	p := ps.Points[i]
	row := make([]string, len(ps.Columns))
	for j, col := range ps.Columns {
		switch col {
		case ColumnX:
			row[j] = formatFloat(p.X)
		case ColumnY:
			row[j] = formatFloat(p.Y)
		default:
			if v, ok := p.Attrs.Get(col); ok {
				row[j] = v.String()
			}
		}
	}
	return row
}

// LoadOptions controls how rows are turned into points.
type LoadOptions struct {
	// NumericColumns are parsed as numbers at load time when present in the
	// header. A row whose value in one of them does not parse is dropped.
	NumericColumns []string
}

// DefaultLoadOptions parses the speed column, if any.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{NumericColumns: []string{ColumnSpeed}}
}

// LoadStats reports aggregate facts about a load. Individual dropped rows are
// never reported.
type LoadStats struct {
	Rows    int
	Dropped int
	// MissingNumeric lists designated numeric columns absent from the header.
	MissingNumeric []string
}

// Load builds a point set from a header and its rows. It fails with a
// *FormatError when the header lacks x or y; rows whose x, y or designated
// numeric values do not parse are skipped.
func Load(header []string, rows [][]string, opts LoadOptions) (*PointSet, LoadStats, error) {
	stats := LoadStats{Rows: len(rows)}
	if len(header) == 0 {
		return nil, stats, &FormatError{Kind: MissingHeader}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range []string{ColumnX, ColumnY} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &FormatError{Kind: MissingColumn, Columns: missing}
	}

	numeric := make(map[string]bool, len(opts.NumericColumns))
	for _, col := range opts.NumericColumns {
		if _, ok := index[col]; ok {
			numeric[col] = true
		} else {
			stats.MissingNumeric = append(stats.MissingNumeric, col)
		}
	}

	ps := New(header)
	ps.Points = make([]Point, 0, len(rows))
	for _, row := range rows {
		p, ok := parseRow(header, index, row, numeric)
		if !ok {
			stats.Dropped++
			continue
		}
		ps.Points = append(ps.Points, p)
	}

	return ps, stats, nil
}

func parseRow(header []string, index map[string]int, row []string, numeric map[string]bool) (Point, bool) {
	field := func(col string) (string, bool) {
		i := index[col]
		if i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	number := func(col string) (float64, bool) {
		s, ok := field(col)
		if !ok {
			return 0, false
		}
		f, err := parseNumber(s)
		return f, err == nil
	}

	var p Point
	var ok bool
	if p.X, ok = number(ColumnX); !ok {
		return Point{}, false
	}
	if p.Y, ok = number(ColumnY); !ok {
		return Point{}, false
	}

	for i, col := range header {
		if col == ColumnX || col == ColumnY || index[col] != i {
			continue
		}
		if numeric[col] {
			f, ok := number(col)
			if !ok {
				return Point{}, false
			}
			p.Attrs.Set(col, Number(f))
			continue
		}
		s, _ := field(col)
		p.Attrs.Set(col, Text(s))
	}

	return p, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
