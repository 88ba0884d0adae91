package render

import (
	"math"

	"github.com/yildizm/trackedit/internal/geom"
)

// Transform maps data coordinates onto a raster of width × height units,
// y growing downwards. The scale is uniform in data space; Aspect is the
// height of one raster unit relative to its width (1 for pixels, about 2
// for terminal cells).
type Transform struct {
	Width, Height float64
	Aspect        float64
	scale         float64
	center        geom.Point
}

// Fit returns the transform that centres bounds in the raster with at least
// margin units of padding on every side.
func Fit(bounds geom.Rect, width, height, margin, aspect float64) Transform {
	if aspect <= 0 {
		aspect = 1
	}
	bounds = bounds.Normalize()
	t := Transform{
		Width:  width,
		Height: height,
		Aspect: aspect,
		scale:  1,
		center: bounds.Min.Lerp(bounds.Max, 0.5),
	}

	availW := math.Max(width-2*margin, 1)
	availH := math.Max(height-2*margin, 1) * aspect
	bw, bh := bounds.Width(), bounds.Height()
	switch {
	case bw > 0 && bh > 0:
		t.scale = math.Min(availW/bw, availH/bh)
	case bw > 0:
		t.scale = availW / bw
	case bh > 0:
		t.scale = availH / bh
	}
	return t
}

// Scale returns raster units per data unit along x.
func (t Transform) Scale() float64 { return t.scale }

// ToRaster maps a data point to raster coordinates.
func (t Transform) ToRaster(p geom.Point) (x, y float64) {
	x = t.Width/2 + (p.X-t.center.X)*t.scale
	y = t.Height/2 - (p.Y-t.center.Y)*t.scale/t.Aspect
	return x, y
}

// ToData maps raster coordinates back to data space.
func (t Transform) ToData(x, y float64) geom.Point {
	return geom.Point{
		X: t.center.X + (x-t.Width/2)/t.scale,
		Y: t.center.Y - (y-t.Height/2)*t.Aspect/t.scale,
	}
}

// Zoom returns t with its scale multiplied by factor around the data point
// at.
func (t Transform) Zoom(factor float64, at geom.Point) Transform {
	if factor <= 0 {
		return t
	}
	t.center = at.Lerp(t.center, 1/factor)
	t.scale *= factor
	return t
}

// Pan returns t shifted by dx, dy raster units.
func (t Transform) Pan(dx, dy float64) Transform {
	t.center.X -= dx / t.scale
	t.center.Y += dy * t.Aspect / t.scale
	return t
}
