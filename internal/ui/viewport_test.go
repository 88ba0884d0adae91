package ui

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/yildizm/trackedit/internal/geom"
)

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(2, 1, 40, 10, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(100, 50)})
	cw, ch := v.CellSize()

	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(50, 25), geom.Pt(100, 50), geom.Pt(13, 41)} {
		x, y := v.DataToCell(p)
		if !v.InPlot(x, y) {
			t.Errorf("Point %v maps to cell (%d, %d) outside the plot", p, x, y)
			continue
		}
		back := v.CellToData(x, y)
		if math.Abs(back.X-p.X) > cw/2+1e-9 || math.Abs(back.Y-p.Y) > ch/2+1e-9 {
			t.Errorf("Point %v came back as %v, cell is %.2f x %.2f", p, back, cw, ch)
		}
	}
}

func TestViewportInPlot(t *testing.T) {
	v := NewViewport(2, 1, 40, 10, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(10, 10)})

	tests := []struct {
		x, y int
		want bool
	}{
		{2, 1, true},
		{41, 10, true},
		{1, 5, false},
		{42, 5, false},
		{10, 0, false},
		{10, 11, false},
	}

	for _, tt := range tests {
		if got := v.InPlot(tt.x, tt.y); got != tt.want {
			t.Errorf("InPlot(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestViewportSnap(t *testing.T) {
	v := NewViewport(0, 0, 40, 20, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(100, 100)})
	pts := []geom.Point{geom.Pt(10, 10), geom.Pt(90, 90)}

	x, y := v.DataToCell(pts[1])
	if got := v.Snap(x, y, pts); got != pts[1] {
		t.Errorf("Snap on the cell of %v = %v", pts[1], got)
	}

	cx, cy := v.DataToCell(geom.Pt(50, 50))
	if got, want := v.Snap(cx, cy, pts), v.CellToData(cx, cy); got != want {
		t.Errorf("Snap on an empty cell = %v, want cell centre %v", got, want)
	}
}

func TestViewportZoomKeepsCell(t *testing.T) {
	v := NewViewport(0, 0, 40, 20, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(100, 100)})
	before := v.CellToData(10, 5)
	after := v.Zoom(2, 10, 5).CellToData(10, 5)
	if before.Distance(after) > 1e-9 {
		t.Errorf("Zoom moved the data under the cursor from %v to %v", before, after)
	}
}

func TestPaint(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if y%2 == 0 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}

	lines := paint(img)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, halfBlock); got != 4 {
			t.Errorf("Line %d has %d cells, want 4", i, got)
		}
	}
}

func TestPaintMono(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, white)
		}
	}
	img.Set(1, 0, color.Black)
	img.Set(2, 3, color.Black)
	img.Set(3, 2, color.Black)
	img.Set(3, 3, color.Black)

	got := paintMono(img, white)
	want := []string{" ▀  ", "  ▄█"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
