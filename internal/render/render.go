// Package render draws a static PNG preview of a track, its fitted closed
// curve and the reference overlays.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/spline"
	"github.com/yildizm/trackedit/internal/track"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// ErrEmptyScene is returned when neither the track nor any overlay has a
// point to draw.
var ErrEmptyScene = errors.New("nothing to render")

// Options configures a preview.
type Options struct {
	Width        int
	Height       int
	Margin       float64
	CurveSamples int
	PointRadius  float64
	ShowLabels   bool
	ColorBy      string
	Dark         bool
	Grid         bool
}

// DefaultOptions returns the preview settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		Width:        1200,
		Height:       900,
		Margin:       40,
		CurveSamples: 1000,
		PointRadius:  3,
		ColorBy:      track.ColumnSpeed,
		Grid:         true,
	}
}

// Scene is what gets drawn. Any field may be nil or empty. Box is a
// selection rectangle being dragged out.
type Scene struct {
	Track    *track.PointSet
	Overlays *overlay.Set
	Selected []int
	Box      *geom.Rect
}

// Bounds returns the data extent of everything in the scene.
func (s Scene) Bounds() (geom.Rect, bool) {
	var pts []geom.Point
	if s.Track != nil {
		pts = append(pts, s.Track.Positions()...)
	}
	r, ok := geom.Bounds(pts)
	if ob, has := s.Overlays.Bounds(); has {
		if !ok {
			return ob, true
		}
		r = r.Union(ob.Min).Union(ob.Max)
	}
	return r, ok
}

// Draw renders scene into a new drawing context.
func Draw(scene Scene, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	bounds, ok := scene.Bounds()
	if !ok {
		return nil, ErrEmptyScene
	}
	return DrawWith(scene, opts, Fit(bounds, float64(opts.Width), float64(opts.Height), opts.Margin, 1))
}

// DrawWith renders scene through tr. The raster size is taken from tr;
// opts.Width, opts.Height and opts.Margin are ignored.
func DrawWith(scene Scene, opts Options, tr Transform) (*gg.Context, error) {
	width, height := int(math.Round(tr.Width)), int(math.Round(tr.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	theme := LightTheme()
	if opts.Dark {
		theme = DarkTheme()
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(theme.Background)
	dc.Clear()

	if opts.Grid {
		drawGrid(dc, tr, theme)
	}

	// Backdrop first, then lanes, curve, points, selection and labels on top
	if scene.Overlays != nil {
		bg := scene.Overlays.Layer(overlay.Backdrop)
		dc.SetColor(theme.Backdrop)
		dc.SetLineWidth(1)
		drawPolyline(dc, tr, bg.Points)
		for _, p := range bg.Points {
			x, y := tr.ToRaster(p)
			dc.DrawCircle(x, y, 1.5)
			dc.Fill()
		}

		dc.SetColor(theme.Lane)
		dc.SetLineWidth(0.75)
		dc.SetDash(6, 4)
		for _, kind := range []overlay.Kind{overlay.InnerLane, overlay.OuterLane} {
			drawPolyline(dc, tr, scene.Overlays.Layer(kind).Points)
		}
		dc.SetDash()
	}

	// The box goes over everything else
	if scene.Box != nil {
		defer drawBox(dc, tr, *scene.Box, theme)
	}

	if scene.Track == nil || scene.Track.Len() == 0 {
		return dc, nil
	}
	pts := scene.Track.Positions()

	outline, _ := spline.ClosedCurve(pts, opts.CurveSamples)
	dc.SetColor(theme.Curve)
	dc.SetLineWidth(1.5)
	drawPolyline(dc, tr, outline)

	ramp, colored := RampFor(scene.Track, opts.ColorBy)
	for _, p := range scene.Track.Points {
		x, y := tr.ToRaster(p.Pos())
		dc.SetColor(theme.Point)
		if colored {
			if c, ok := ramp.Color(p); ok {
				dc.SetColor(c)
			}
		}
		dc.DrawCircle(x, y, opts.PointRadius)
		dc.Fill()
	}

	dc.SetColor(theme.Selection)
	dc.SetLineWidth(2)
	for _, i := range scene.Selected {
		if i < 0 || i >= len(pts) {
			continue
		}
		x, y := tr.ToRaster(pts[i])
		dc.DrawCircle(x, y, opts.PointRadius+3)
		dc.Stroke()
	}

	if opts.ShowLabels {
		face, err := labelFace()
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(theme.Label)
		for i, p := range pts {
			x, y := tr.ToRaster(p)
			dc.DrawString(strconv.Itoa(i), x+opts.PointRadius+2, y-opts.PointRadius-2)
		}
	}

	return dc, nil
}

// Image renders scene and returns the raster.
func Image(scene Scene, opts Options) (image.Image, error) {
	dc, err := Draw(scene, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders scene as PNG into w.
func WritePNG(w io.Writer, scene Scene, opts Options) error {
	dc, err := Draw(scene, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG renders scene into the PNG file at path.
func SavePNG(path string, scene Scene, opts Options) error {
	dc, err := Draw(scene, opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return &track.FileAccessError{Path: path, Op: "write", Cause: err}
	}
	return nil
}

func drawPolyline(dc *gg.Context, tr Transform, pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	for i, p := range pts {
		x, y := tr.ToRaster(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func drawBox(dc *gg.Context, tr Transform, box geom.Rect, theme Theme) {
	x0, y0 := tr.ToRaster(box.Min)
	x1, y1 := tr.ToRaster(box.Max)
	dc.SetColor(theme.Selection)
	dc.SetLineWidth(1)
	dc.SetDash(4, 2)
	dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
	dc.Stroke()
	dc.SetDash()
}

func drawGrid(dc *gg.Context, tr Transform, theme Theme) {
	lo := tr.ToData(0, tr.Height)
	hi := tr.ToData(tr.Width, 0)
	step := gridStep(math.Max(hi.X-lo.X, hi.Y-lo.Y))

	dc.SetColor(theme.Grid)
	dc.SetLineWidth(0.5)
	for x := math.Ceil(lo.X/step) * step; x <= hi.X; x += step {
		px, _ := tr.ToRaster(geom.Pt(x, 0))
		dc.DrawLine(px, 0, px, tr.Height)
	}
	for y := math.Ceil(lo.Y/step) * step; y <= hi.Y; y += step {
		_, py := tr.ToRaster(geom.Pt(0, y))
		dc.DrawLine(0, py, tr.Width, py)
	}
	dc.Stroke()
}

// gridStep picks a 1, 2 or 5 × 10ⁿ spacing giving roughly ten lines.
func gridStep(span float64) float64 {
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 1
	}
	raw := span / 10
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch r := raw / mag; {
	case r < 2:
		return mag
	case r < 5:
		return 2 * mag
	default:
		return 5 * mag
	}
}

var (
	faceOnce sync.Once
	face     font.Face
	faceErr  error
)

func labelFace() (font.Face, error) {
	faceOnce.Do(func() {
		ttf, err := truetype.Parse(gomono.TTF)
		if err != nil {
			faceErr = fmt.Errorf("failed to parse font: %w", err)
			return
		}
		face = truetype.NewFace(ttf, &truetype.Options{
			Size:    10,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return face, faceErr
}
