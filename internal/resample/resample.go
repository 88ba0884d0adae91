// Package resample re-fits track points with smoothing splines. Range
// smooths a local window in place; All and Curve replace the whole track with
// samples of a closed spline, carrying attributes over from the nearest
// original point.
package resample

import (
	"fmt"

	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/nearest"
	"github.com/yildizm/trackedit/internal/spline"
	"github.com/yildizm/trackedit/internal/track"
)

// DefaultRadius is the number of neighbours taken on each side of the anchor
// for a range window.
const DefaultRadius = 10

// DefaultSampleCount is the fixed point count produced by Curve.
const DefaultSampleCount = 100

// MinPoints is the smallest track that can be resampled.
const MinPoints = spline.MinPoints

// Window returns the indices (anchor-radius) .. (anchor+radius) modulo n in
// order. When the window is wider than the track an index is listed only
// the first time it occurs. anchor may lie outside [0, n); it is reduced
// modulo n.
func Window(anchor, n, radius int) []int {
	if n <= 0 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}
	k := mod(anchor, n)

	out := make([]int, 0, min(2*radius+1, n))
	seen := make(map[int]bool, cap(out))
	for off := -radius; off <= radius; off++ {
		i := mod(k+off, n)
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// WindowPositions returns the positions of ps at window, in window order.
func WindowPositions(ps *track.PointSet, window []int) []geom.Point {
	out := make([]geom.Point, len(window))
	for i, idx := range window {
		out[i] = ps.Points[idx].Pos()
	}
	return out
}

// Range fits an open smoothing spline through the points at window and
// returns one new position per window entry, evenly spaced over the fitted
// parameter range. ps is not modified.
func Range(ps *track.PointSet, window []int, smoothing float64) ([]geom.Point, error) {
	c, err := spline.FitOpen(WindowPositions(ps, window), smoothing)
	if err != nil {
		return nil, err
	}
	return c.Sample(len(window)), nil
}

// ApplyRange overwrites the positions at window with pts. Attributes stay.
func ApplyRange(ps *track.PointSet, window []int, pts []geom.Point) {
	for i, idx := range window {
		ps.Points[idx].SetPos(pts[i])
	}
}

// All fits a closed smoothing spline through every point of ps and returns a
// new point set with the same number of points sampled evenly over one
// period.
func All(ps *track.PointSet, smoothing float64) (*track.PointSet, error) {
	return Curve(ps, ps.Len(), smoothing)
}

// Curve fits a closed smoothing spline through ps and returns count points
// sampled evenly over one period. Every new point is a copy of the original
// point nearest to it, moved to its sampled position. ps is not modified.
func Curve(ps *track.PointSet, count int, smoothing float64) (*track.PointSet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", count)
	}
	positions := ps.Positions()
	c, err := spline.FitPeriodic(positions, smoothing)
	if err != nil {
		return nil, err
	}

	idx := nearest.New(positions)
	out := track.New(ps.Columns)
	out.Points = make([]track.Point, count)
	for i, pos := range c.Sample(count) {
		src, _ := idx.Nearest(pos)
		p := ps.Points[src].Clone()
		p.SetPos(pos)
		out.Points[i] = p
	}
	return out, nil
}
