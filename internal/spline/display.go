package spline

import "github.com/yildizm/trackedit/internal/geom"

// ClosedCurve returns a closed outline through pts suitable for drawing: an
// interpolating periodic spline sampled at samples points (with the first
// sample repeated at the end), or, when pts has fewer than MinPoints points
// or the fit fails, the straight-segment closed polyline through pts.
// fitted reports which of the two was produced.
func ClosedCurve(pts []geom.Point, samples int) (outline []geom.Point, fitted bool) {
	if len(pts) == 0 {
		return nil, false
	}
	if len(pts) >= MinPoints && samples > 0 {
		if c, err := FitPeriodic(pts, 0); err == nil {
			outline = c.Sample(samples)
			return append(outline, outline[0]), true
		}
	}
	outline = make([]geom.Point, 0, len(pts)+1)
	outline = append(outline, pts...)
	return append(outline, pts[0]), false
}
