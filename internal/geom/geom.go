// Package geom holds the small planar geometry helpers shared by the track,
// spline and editor packages.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in data space.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// Add translates pt by the vector v.
func (pt Point) Add(v Vec2) Point {
	return Point{X: pt.X + v.X, Y: pt.Y + v.Y}
}

// Sub computes pt−o.
func (pt Point) Sub(o Point) Vec2 {
	return Vec2{X: pt.X - o.X, Y: pt.Y - o.Y}
}

// Distance returns the euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return math.Hypot(pt.X-o.X, pt.Y-o.Y)
}

// DistanceSquared returns the squared euclidean distance between two points.
func (pt Point) DistanceSquared(o Point) float64 {
	x := pt.X - o.X
	y := pt.Y - o.Y
	return x*x + y*y
}

// Lerp linearly interpolates between two points.
func (pt Point) Lerp(o Point, t float64) Point {
	return Point{
		X: pt.X + (o.X-pt.X)*t,
		Y: pt.Y + (o.Y-pt.Y)*t,
	}
}

// IsFinite reports whether both coordinates are finite numbers.
func (pt Point) IsFinite() bool {
	return !math.IsNaN(pt.X) && !math.IsNaN(pt.Y) && !math.IsInf(pt.X, 0) && !math.IsInf(pt.Y, 0)
}

// Vec2 is a displacement in data space.
type Vec2 struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle spanned by two arbitrary corners. The
// corners need not be ordered; use Normalize before containment tests.
type Rect struct {
	Min Point
	Max Point
}

// RectFromCorners returns the normalized rectangle spanned by a and b.
func RectFromCorners(a, b Point) Rect {
	return Rect{Min: a, Max: b}.Normalize()
}

// Normalize returns r with Min holding the smaller and Max the larger
// coordinate on each axis.
func (r Rect) Normalize() Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, r.Max.X), Y: math.Min(r.Min.Y, r.Max.Y)},
		Max: Point{X: math.Max(r.Min.X, r.Max.X), Y: math.Max(r.Min.Y, r.Max.Y)},
	}
}

// Width returns the signed width of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the signed height of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether pt lies in r with inclusive bounds. r must be
// normalized.
func (r Rect) Contains(pt Point) bool {
	return r.Min.X <= pt.X && pt.X <= r.Max.X && r.Min.Y <= pt.Y && pt.Y <= r.Max.Y
}

// Union returns the smallest normalized rectangle containing r and pt.
func (r Rect) Union(pt Point) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, pt.X), Y: math.Min(r.Min.Y, pt.Y)},
		Max: Point{X: math.Max(r.Max.X, pt.X), Y: math.Max(r.Max.Y, pt.Y)},
	}
}

// Bounds returns the bounding rectangle of pts. ok is false for an empty
// slice.
func Bounds(pts []Point) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r = Rect{Min: pts[0], Max: pts[0]}
	for _, pt := range pts[1:] {
		r = r.Union(pt)
	}
	return r, true
}

// ChordLengths returns the cumulative chord length parameter of pts,
// starting at zero. When closed is true an extra trailing entry holds the
// length including the segment back to pts[0].
func ChordLengths(pts []Point, closed bool) []float64 {
	n := len(pts)
	if n == 0 {
		return nil
	}
	size := n
	if closed {
		size++
	}
	u := make([]float64, size)
	for i := 1; i < n; i++ {
		u[i] = u[i-1] + pts[i-1].Distance(pts[i])
	}
	if closed {
		u[n] = u[n-1] + pts[n-1].Distance(pts[0])
	}
	return u
}

// Perimeter returns the length of the closed polyline through pts.
func Perimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	u := ChordLengths(pts, true)
	return u[len(u)-1]
}

// Nearest returns the index of the point in pts closest to p and its
// distance. The first minimum wins; idx is -1 for an empty slice.
func Nearest(pts []Point, p Point) (idx int, dist float64) {
	idx = -1
	best := math.Inf(1)
	for i, q := range pts {
		if d := q.DistanceSquared(p); d < best {
			best = d
			idx = i
		}
	}
	if idx < 0 {
		return -1, math.Inf(1)
	}
	return idx, math.Sqrt(best)
}
