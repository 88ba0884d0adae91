package track

import (
	"math"

	"github.com/yildizm/trackedit/internal/geom"
)

// ColumnStats describes the numeric range of one attribute column.
type ColumnStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Summary is a compact description of a point set.
type Summary struct {
	Points    int           `json:"points"`
	Columns   []string      `json:"columns"`
	Bounds    geom.Rect     `json:"bounds"`
	Perimeter float64       `json:"perimeter"`
	Closed    bool          `json:"closed"`
	Numeric   []ColumnStats `json:"numeric,omitempty"`
}

// Summarize computes a Summary of ps. Numeric statistics cover every
// attribute column holding number values.
func (ps *PointSet) Summarize() Summary {
	pos := ps.Positions()
	s := Summary{
		Points:    len(pos),
		Columns:   append([]string(nil), ps.Columns...),
		Perimeter: geom.Perimeter(pos),
		Closed:    len(pos) >= 4,
	}
	if r, ok := geom.Bounds(pos); ok {
		s.Bounds = r
	}

	for _, col := range ps.Columns {
		if col == ColumnX || col == ColumnY {
			continue
		}
		cs := ColumnStats{Name: col, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for _, p := range ps.Points {
			v, ok := p.Attrs.Get(col)
			if !ok || v.Kind() != KindNumber {
				continue
			}
			f, _ := v.Float()
			cs.Count++
			sum += f
			cs.Min = math.Min(cs.Min, f)
			cs.Max = math.Max(cs.Max, f)
		}
		if cs.Count == 0 {
			continue
		}
		cs.Mean = sum / float64(cs.Count)
		s.Numeric = append(s.Numeric, cs)
	}
	return s
}

// NumericRange returns the range of the numeric column name across ps. ok is
// false when no point carries a number in that column.
func (ps *PointSet) NumericRange(name string) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range ps.Points {
		v, present := p.Attrs.Get(name)
		if !present || v.Kind() != KindNumber {
			continue
		}
		f, _ := v.Float()
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
		ok = true
	}
	return lo, hi, ok
}
