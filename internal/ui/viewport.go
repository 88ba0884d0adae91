package ui

import (
	"math"

	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/render"
)

// Viewport maps the cells of the plot area onto data space. Each cell shows
// two vertically stacked pixels, so the plot is rendered at Cols × 2·Rows
// pixels and terminal cells come out roughly square.
type Viewport struct {
	Left, Top  int
	Cols, Rows int
	tr         render.Transform
}

// NewViewport fits bounds into a plot of cols × rows cells whose top-left
// cell is at (left, top) on screen.
func NewViewport(left, top, cols, rows int, bounds geom.Rect) Viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	return Viewport{
		Left: left,
		Top:  top,
		Cols: cols,
		Rows: rows,
		tr:   render.Fit(bounds, float64(cols), float64(2*rows), 1, 1),
	}
}

// Transform returns the pixel transform of the plot.
func (v Viewport) Transform() render.Transform { return v.tr }

// InPlot reports whether the screen cell (x, y) lies in the plot area.
func (v Viewport) InPlot(x, y int) bool {
	return x >= v.Left && x < v.Left+v.Cols && y >= v.Top && y < v.Top+v.Rows
}

// CellToData returns the data position at the centre of screen cell (x, y).
func (v Viewport) CellToData(x, y int) geom.Point {
	return v.tr.ToData(float64(x-v.Left)+0.5, float64(2*(y-v.Top))+1)
}

// DataToCell returns the screen cell showing p.
func (v Viewport) DataToCell(p geom.Point) (x, y int) {
	px, py := v.tr.ToRaster(p)
	return v.Left + int(math.Floor(px)), v.Top + int(math.Floor(py/2))
}

// CellSize returns the data extent of one cell.
func (v Viewport) CellSize() (w, h float64) {
	s := v.tr.Scale()
	if s == 0 {
		return 0, 0
	}
	return 1 / s, 2 / s
}

// Snap returns the position of the point of pts nearest the centre of cell
// (x, y) when that point is drawn in the cell itself, and the cell centre
// otherwise. A press on a drawn point therefore lands exactly on it however
// coarse the cells are.
func (v Viewport) Snap(x, y int, pts []geom.Point) geom.Point {
	p := v.CellToData(x, y)
	i, _ := geom.Nearest(pts, p)
	if i < 0 {
		return p
	}
	if cx, cy := v.DataToCell(pts[i]); cx == x && cy == y {
		return pts[i]
	}
	return p
}

// Zoom scales the view by factor keeping the data under cell (x, y) fixed.
func (v Viewport) Zoom(factor float64, x, y int) Viewport {
	v.tr = v.tr.Zoom(factor, v.CellToData(x, y))
	return v
}

// Pan shifts the content by dx, dy cells.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.tr = v.tr.Pan(float64(dx), float64(2*dy))
	return v
}
