// Package editor is the curve-editing controller. An Editor owns the track
// being edited together with its selection, pointer state and undo history,
// and exposes the operations a shell can trigger. It never presents anything
// itself: every operation returns a Report and a typed error for the shell to
// show however it likes.
package editor

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/yildizm/trackedit/internal/history"
	"github.com/yildizm/trackedit/internal/logger"
	"github.com/yildizm/trackedit/internal/resample"
	"github.com/yildizm/trackedit/internal/spline"
	"github.com/yildizm/trackedit/internal/track"
)

// Smoothing bounds.
const (
	MinSmoothing     = 0.0
	MaxSmoothing     = 10.0
	DefaultSmoothing = 3.0
)

// DefaultEpsilon is the pick radius in data units.
const DefaultEpsilon = 5.0

// Options configures an Editor.
type Options struct {
	// Epsilon is the pick radius in data units; a press closer than this to
	// a point starts a drag.
	Epsilon float64
	// Smoothing is the initial smoothing factor.
	Smoothing float64
	// HistoryCapacity bounds the undo stack.
	HistoryCapacity int
	// WindowRadius is the half width of the range resample window.
	WindowRadius int
	// SampleCount is used by SampleCurve when called with a non-positive
	// count.
	SampleCount int
}

// DefaultOptions returns the stock editor settings.
func DefaultOptions() Options {
	return Options{
		Epsilon:         DefaultEpsilon,
		Smoothing:       DefaultSmoothing,
		HistoryCapacity: history.DefaultCapacity,
		WindowRadius:    resample.DefaultRadius,
		SampleCount:     resample.DefaultSampleCount,
	}
}

// Report describes the outcome of a successful operation.
type Report struct {
	Message string
	Effects Effects
}

// Editor is the editing state of one track. It is not safe for concurrent
// use; a single shell goroutine drives it.
type Editor struct {
	opts    Options
	log     *logger.Logger
	points  *track.PointSet
	history *history.Manager[*track.PointSet]

	smoothing float64
	selection map[int]bool
	mode      Mode
	drag      *dragSession
	box       *boxSession

	anchor    int
	hasAnchor bool
	dirty     bool
}

// New returns an editor that takes ownership of ps. Non-positive sizes and
// radii in opts take their defaults. A nil log discards output.
func New(ps *track.PointSet, opts Options, log *logger.Logger) *Editor {
	def := DefaultOptions()
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = def.HistoryCapacity
	}
	if opts.WindowRadius <= 0 {
		opts.WindowRadius = def.WindowRadius
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = def.SampleCount
	}
	if log == nil {
		log = logger.Nop()
	}
	if ps == nil {
		ps = track.New([]string{track.ColumnX, track.ColumnY})
	}

	return &Editor{
		opts:      opts,
		log:       log,
		points:    ps,
		history:   history.New[*track.PointSet](opts.HistoryCapacity),
		smoothing: clampSmoothing(opts.Smoothing),
		selection: map[int]bool{},
	}
}

// Points returns the current track. Callers must treat it as read-only; it
// may be replaced by the next operation.
func (e *Editor) Points() *track.PointSet { return e.points }

// Smoothing returns the current smoothing factor.
func (e *Editor) Smoothing() float64 { return e.smoothing }

// Anchor returns the index centring the next range resample.
func (e *Editor) Anchor() (int, bool) { return e.anchor, e.hasAnchor }

// SetAnchor centres the next range resample on point i, as a completed drag
// of that point would.
func (e *Editor) SetAnchor(i int) error {
	if i < 0 || i >= e.points.Len() {
		return newError(KindNoAnchor, nil, "Point %d does not exist (track has %d points)", i, e.points.Len())
	}
	e.anchor, e.hasAnchor = i, true
	return nil
}

// Dirty reports whether the track changed since it was loaded or saved.
func (e *Editor) Dirty() bool { return e.dirty }

// UndoDepth returns the number of undo and redo snapshots.
func (e *Editor) UndoDepth() (undo, redo int) {
	return e.history.Len(), e.history.RedoLen()
}

func clampSmoothing(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultSmoothing
	}
	return math.Max(MinSmoothing, math.Min(MaxSmoothing, s))
}

// SetSmoothing sets the smoothing factor used by ResampleRange and
// ResampleAll, clamped to [MinSmoothing, MaxSmoothing].
func (e *Editor) SetSmoothing(s float64) Report {
	e.smoothing = clampSmoothing(s)
	return Report{Message: fmt.Sprintf("Smoothing set to %.1f", e.smoothing)}
}

// ResampleRange smooths the window of points around the last dragged point
// with an open spline, in place. It records a snapshot both before and
// after the change.
func (e *Editor) ResampleRange() (Report, error) {
	if !e.hasAnchor {
		return Report{}, newError(KindNoAnchor, nil, "No point has been moved yet")
	}
	n := e.points.Len()
	if n < resample.MinPoints {
		return Report{}, tooFew(n)
	}

	window := resample.Window(e.anchor, n, e.opts.WindowRadius)
	distinct := len(spline.Distinct(resample.WindowPositions(e.points, window), false))
	if distinct < spline.MinPoints {
		return Report{}, newError(KindWindowTooSmall, nil,
			"Range around point %d has only %d distinct points", e.anchor, distinct)
	}

	pts, err := resample.Range(e.points, window, e.smoothing)
	if err != nil {
		return Report{}, e.fittingError(err)
	}

	e.history.Push(e.points.Clone())
	resample.ApplyRange(e.points, window, pts)
	e.history.Push(e.points.Clone())
	e.modified()

	e.log.DebugWithFields("range resampled", []logger.Field{
		logger.F("anchor", e.anchor), logger.Points(len(window)), logger.Smoothing(e.smoothing),
	})
	return Report{
		Message: fmt.Sprintf("Resampled %d points around point %d", len(window), e.anchor),
		Effects: EffectRedraw | EffectSelection | EffectModified,
	}, nil
}

// ResampleAll replaces the track with the same number of points sampled
// from a closed smoothing spline. The shell must ask the operator first and
// pass the answer; an unconfirmed call changes nothing.
func (e *Editor) ResampleAll(confirmed bool) (Report, error) {
	if !confirmed {
		return Report{}, newError(KindUserCancel, nil, "Resample cancelled")
	}
	n := e.points.Len()
	if n < resample.MinPoints {
		return Report{}, tooFew(n)
	}

	next, err := resample.All(e.points, e.smoothing)
	if err != nil {
		return Report{}, e.fittingError(err)
	}

	e.history.Push(e.points.Clone())
	e.points = next
	e.history.Push(e.points.Clone())
	e.modified()

	e.log.DebugWithFields("track resampled", []logger.Field{
		logger.Points(n), logger.Smoothing(e.smoothing),
	})
	return Report{
		Message: fmt.Sprintf("Resampled all %d points", n),
		Effects: EffectRedraw | EffectSelection | EffectModified,
	}, nil
}

// SampleCurve replaces the track with count points sampled from the closed
// spline through every point. A non-positive count uses the configured
// default.
func (e *Editor) SampleCurve(count int) (Report, error) {
	if count <= 0 {
		count = e.opts.SampleCount
	}
	n := e.points.Len()
	if n < resample.MinPoints {
		return Report{}, tooFew(n)
	}

	next, err := resample.Curve(e.points, count, 0)
	if err != nil {
		return Report{}, e.fittingError(err)
	}

	e.history.Push(e.points.Clone())
	e.points = next
	e.modified()

	e.log.DebugWithFields("curve sampled", []logger.Field{
		logger.F("from", n), logger.Points(count),
	})
	return Report{
		Message: fmt.Sprintf("Sampled %d points from the curve", count),
		Effects: EffectRedraw | EffectSelection | EffectModified,
	}, nil
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() (Report, error) {
	prev, err := e.history.Undo(e.points)
	if errors.Is(err, history.ErrNothingToUndo) {
		return Report{}, newError(KindNothingToUndo, nil, "Nothing to undo")
	}
	if err != nil {
		return Report{}, err
	}
	e.points = prev
	e.modified()
	return Report{Message: "Undone", Effects: EffectRedraw | EffectSelection | EffectModified}, nil
}

// Redo re-applies the last undone snapshot.
func (e *Editor) Redo() (Report, error) {
	next, err := e.history.Redo(e.points)
	if errors.Is(err, history.ErrNothingToRedo) {
		return Report{}, newError(KindNothingToRedo, nil, "Nothing to redo")
	}
	if err != nil {
		return Report{}, err
	}
	e.points = next
	e.modified()
	return Report{Message: "Redone", Effects: EffectRedraw | EffectSelection | EffectModified}, nil
}

// Save writes the track as CSV to w.
func (e *Editor) Save(w io.Writer) (Report, error) {
	if err := e.points.WriteCSV(w); err != nil {
		return Report{}, newError(KindIO, err, "Failed to save track")
	}
	e.dirty = false
	return Report{Message: fmt.Sprintf("Saved %d points", e.points.Len())}, nil
}

// SaveFile writes the track as CSV to path.
func (e *Editor) SaveFile(path string) (Report, error) {
	if err := e.points.WriteFile(path); err != nil {
		return Report{}, newError(KindIO, err, "Failed to save %s", path)
	}
	e.dirty = false
	e.log.DebugWithFields("track saved", []logger.Field{logger.Path(path), logger.Points(e.points.Len())})
	return Report{Message: fmt.Sprintf("Saved %d points to %s", e.points.Len(), path)}, nil
}

// modified records a change to the point data. Indices may now refer to
// different points, so the selection and any pointer gesture are dropped.
func (e *Editor) modified() {
	e.dirty = true
	e.resetInteraction()
}

func (e *Editor) fittingError(err error) error {
	e.log.WarnWithFields("spline fit failed", []logger.Field{logger.Error(err)})
	return newError(KindFitting, err, "Could not fit a spline")
}

func tooFew(n int) error {
	return newError(KindTooFewPoints, nil, "Need at least %d points, have %d", resample.MinPoints, n)
}
