package resample

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/spline"
	"github.com/yildizm/trackedit/internal/track"
)

const squareCSV = `x,y,speed,name
0,0,1,a
10,0,2,b
10,10,3,c
0,10,4,d
`

func load(t *testing.T, data string) *track.PointSet {
	t.Helper()
	ps, _, err := track.ReadCSV(strings.NewReader(data), track.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return ps
}

func ring(n int) *track.PointSet {
	ps := track.New([]string{"x", "y", "speed"})
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := track.Point{X: 50 * math.Cos(a), Y: 30 * math.Sin(a)}
		p.Attrs.Set("speed", track.Number(float64(i)))
		ps.Points = append(ps.Points, p)
	}
	return ps
}

func TestWindowEveryAnchor(t *testing.T) {
	for _, n := range []int{21, 22, 40} {
		for k := 0; k < n; k++ {
			want := make([]int, 0, 21)
			for off := -10; off <= 10; off++ {
				want = append(want, (k+off+n)%n)
			}
			if d := cmp.Diff(want, Window(k, n, DefaultRadius)); d != "" {
				t.Fatalf("n=%d k=%d: window mismatch (-want +got):\n%s", n, k, d)
			}
		}
	}
}

func TestWindowSmallTrack(t *testing.T) {
	tests := []struct {
		name   string
		anchor int
		n      int
		want   []int
	}{
		{"dedup wraps", 0, 5, []int{0, 1, 2, 3, 4}},
		{"dedup keeps first", 3, 6, []int{5, 0, 1, 2, 3, 4}},
		{"stale anchor", 12, 5, []int{2, 3, 4, 0, 1}},
		{"negative anchor", -1, 30, []int{19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"empty", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.anchor, tt.n, DefaultRadius)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Window mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestRangeKeepsAttributes(t *testing.T) {
	ps := ring(30)
	ps.Points[3].X += 4
	before := ps.Clone()

	window := Window(3, ps.Len(), DefaultRadius)
	pts, err := Range(ps, window, 3)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(pts) != len(window) {
		t.Fatalf("Expected %d positions, got %d", len(window), len(pts))
	}
	if ps.Points[3].X != before.Points[3].X {
		t.Fatal("Range must not modify its input")
	}

	ApplyRange(ps, window, pts)
	if ps.Len() != 30 {
		t.Fatalf("Expected 30 points, got %d", ps.Len())
	}
	for i := range ps.Points {
		want, _ := before.Points[i].Attrs.Float("speed")
		got, _ := ps.Points[i].Attrs.Float("speed")
		if got != want {
			t.Errorf("point %d speed changed: %v -> %v", i, want, got)
		}
	}
	// Points outside the window stay where they were.
	if ps.Points[15].Pos() != before.Points[15].Pos() {
		t.Errorf("point outside the window moved")
	}
	if math.Abs(ps.Points[3].X-before.Points[3].X) < 1e-6 {
		t.Errorf("bumped point was not smoothed")
	}
}

func TestAllSquareAtZeroSmoothing(t *testing.T) {
	ps := load(t, squareCSV)

	got, err := All(ps, 0)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("Expected 4 points, got %d", got.Len())
	}
	if d := cmp.Diff(ps.Columns, got.Columns); d != "" {
		t.Errorf("columns changed (-want +got):\n%s", d)
	}

	for i, p := range got.Points {
		orig := ps.Points[i]
		if p.Pos().Distance(orig.Pos()) > 1e-6 {
			t.Errorf("point %d = %v, want about %v", i, p.Pos(), orig.Pos())
		}
		speed, _ := p.Attrs.Float("speed")
		wantSpeed, _ := orig.Attrs.Float("speed")
		if speed != wantSpeed {
			t.Errorf("point %d speed = %v, want %v", i, speed, wantSpeed)
		}
		name, _ := p.Attrs.Get("name")
		wantName, _ := orig.Attrs.Get("name")
		if name.String() != wantName.String() {
			t.Errorf("point %d name = %q, want %q", i, name, wantName)
		}
	}
}

func TestCurveInheritsNearestAttributes(t *testing.T) {
	ps := ring(37)
	positions := ps.Positions()

	got, err := Curve(ps, DefaultSampleCount, 0)
	if err != nil {
		t.Fatalf("Curve failed: %v", err)
	}
	if got.Len() != DefaultSampleCount {
		t.Fatalf("Expected %d points, got %d", DefaultSampleCount, got.Len())
	}
	if ps.Len() != 37 {
		t.Fatalf("Curve must not modify its input")
	}

	for i, p := range got.Points {
		_, best := geom.Nearest(positions, p.Pos())
		speed, ok := p.Attrs.Float("speed")
		if !ok {
			t.Fatalf("point %d lost its speed", i)
		}
		src := ps.Points[int(speed)].Pos()
		if math.Abs(src.Distance(p.Pos())-best) > 1e-9 {
			t.Errorf("point %d inherited from %v which is not nearest", i, src)
		}
	}
}

func TestCurveErrors(t *testing.T) {
	ps := load(t, squareCSV)
	ps.Points = ps.Points[:3]

	_, err := Curve(ps, 10, 0)
	if !errors.Is(err, &spline.FittingError{Kind: spline.InsufficientPoints}) {
		t.Errorf("Expected insufficient points, got %v", err)
	}
	if _, err := Curve(ring(8), 0, 0); err == nil {
		t.Error("Expected an error for a zero count")
	}
}
