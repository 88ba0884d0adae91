package nearest

import (
	"math"
	"testing"

	"github.com/yildizm/trackedit/internal/geom"
)

func TestNearestMatchesBruteForce(t *testing.T) {
	var pts []geom.Point
	for i := 0; i < 60; i++ {
		a := float64(i) * 0.37
		pts = append(pts, geom.Pt(50*math.Cos(a)+float64(i%7), 30*math.Sin(1.3*a)-float64(i%5)))
	}
	idx := New(pts)
	if idx.Len() != len(pts) {
		t.Fatalf("Len = %d, want %d", idx.Len(), len(pts))
	}

	for qx := -60.0; qx <= 60; qx += 7.5 {
		for qy := -40.0; qy <= 40; qy += 6.5 {
			q := geom.Pt(qx, qy)
			got, d := idx.Nearest(q)
			_, want := geom.Nearest(pts, q)
			if got < 0 {
				t.Fatalf("no result for %v", q)
			}
			// Ties may resolve to any minimal candidate, so compare distances.
			if math.Abs(d-want) > 1e-9 {
				t.Errorf("query %v: distance %v, brute force %v", q, d, want)
			}
			if math.Abs(pts[got].Distance(q)-want) > 1e-9 {
				t.Errorf("query %v: returned index %d is not minimal", q, got)
			}
		}
	}
}

func TestNearestExactHit(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)}
	idx := New(pts)
	for i, p := range pts {
		got, d := idx.Nearest(p)
		if got != i || d != 0 {
			t.Errorf("Nearest(%v) = %d (%v), want %d (0)", p, got, d, i)
		}
	}
}

func TestNearestEmpty(t *testing.T) {
	idx := New(nil)
	got, d := idx.Nearest(geom.Pt(1, 1))
	if got != -1 || !math.IsInf(d, 1) {
		t.Errorf("Nearest on empty index = %d, %v", got, d)
	}
}
