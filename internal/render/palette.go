package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/yildizm/trackedit/internal/track"
)

// jet is the blue-cyan-yellow-red gradient used for speed colouring.
var jet = []stop{
	{colorful.Color{R: 0, G: 0, B: 0.5}, 0.0},
	{colorful.Color{R: 0, G: 0.3, B: 1}, 0.15},
	{colorful.Color{R: 0, G: 0.9, B: 1}, 0.35},
	{colorful.Color{R: 0.5, G: 1, B: 0.5}, 0.5},
	{colorful.Color{R: 1, G: 0.9, B: 0}, 0.65},
	{colorful.Color{R: 1, G: 0.3, B: 0}, 0.85},
	{colorful.Color{R: 0.5, G: 0, B: 0}, 1.0},
}

type stop struct {
	col colorful.Color
	pos float64
}

// Ramp maps a numeric attribute onto the jet gradient.
type Ramp struct {
	Column string
	lo, hi float64
}

// NewRamp returns a ramp spanning [lo, hi] for column.
func NewRamp(column string, lo, hi float64) Ramp {
	return Ramp{Column: column, lo: lo, hi: hi}
}

// RampFor returns the ramp covering the range of column in ps. ok is false
// when no point carries a number in that column.
func RampFor(ps *track.PointSet, column string) (Ramp, bool) {
	if ps == nil || column == "" {
		return Ramp{}, false
	}
	lo, hi, ok := ps.NumericRange(column)
	if !ok {
		return Ramp{}, false
	}
	return NewRamp(column, lo, hi), true
}

// At returns the colour for v. A degenerate range maps everything to the
// middle of the gradient.
func (r Ramp) At(v float64) colorful.Color {
	t := 0.5
	if span := r.hi - r.lo; span > 0 && !math.IsNaN(v) {
		t = (v - r.lo) / span
	}
	return gradient(t)
}

// Color returns the colour of p, or false when p has no numeric value in
// the ramp's column.
func (r Ramp) Color(p track.Point) (colorful.Color, bool) {
	v, ok := p.Attrs.Float(r.Column)
	if !ok {
		return colorful.Color{}, false
	}
	return r.At(v), true
}

func gradient(t float64) colorful.Color {
	if t <= jet[0].pos {
		return jet[0].col
	}
	if t >= jet[len(jet)-1].pos {
		return jet[len(jet)-1].col
	}
	for i := 0; i < len(jet)-1; i++ {
		a, b := jet[i], jet[i+1]
		if t <= b.pos {
			return a.col.BlendLab(b.col, (t-a.pos)/(b.pos-a.pos)).Clamped()
		}
	}
	return jet[len(jet)-1].col
}

// Theme holds the colours of one preview style.
type Theme struct {
	Background color.Color
	Grid       color.Color
	Label      color.Color
	Lane       color.Color
	Backdrop   color.Color
	Curve      color.Color
	Point      color.Color
	Selection  color.Color
}

// LightTheme draws on white.
func LightTheme() Theme {
	return Theme{
		Background: color.White,
		Grid:       hex("#cccccc"),
		Label:      color.Black,
		Lane:       color.Black,
		Backdrop:   color.NRGBA{R: 0xff, A: 0xb3},
		Curve:      hex("#0000ff"),
		Point:      hex("#ff0000"),
		Selection:  hex("#ffd700"),
	}
}

// DarkTheme draws on a dark grey background.
func DarkTheme() Theme {
	return Theme{
		Background: hex("#3c3c3c"),
		Grid:       hex("#555555"),
		Label:      color.White,
		Lane:       hex("#777777"),
		Backdrop:   color.NRGBA{R: 0xff, A: 0xb3},
		Curve:      hex("#00a0ff"),
		Point:      hex("#ff0000"),
		Selection:  hex("#ffff00"),
	}
}

func hex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}
