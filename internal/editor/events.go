package editor

import (
	"sort"

	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/logger"
)

// Mode is the state of the pointer state machine.
type Mode int

const (
	Idle Mode = iota
	Dragging
	BoxSelecting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case BoxSelecting:
		return "box-selecting"
	default:
		return "unknown"
	}
}

// PointerKind is the kind of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is one discrete pointer input in data coordinates. InPlot is
// false when the pointer is outside the plotted area; such events are
// ignored.
type PointerEvent struct {
	Kind   PointerKind
	Pos    geom.Point
	InPlot bool
}

// Effects is a set of side-effect intents for the calling shell.
type Effects uint8

const (
	// EffectRedraw asks the shell to render the track again.
	EffectRedraw Effects = 1 << iota
	// EffectSelection reports that the selection changed.
	EffectSelection
	// EffectModified reports that point data changed.
	EffectModified
)

// Has reports whether every effect in o is set in e.
func (e Effects) Has(o Effects) bool { return e&o == o }

// dragSession holds the pre-drag positions of the selected points.
type dragSession struct {
	anchor   geom.Point
	snapshot map[int]geom.Point
}

// boxSession is the live selection rectangle.
type boxSession struct {
	anchor geom.Point
	corner geom.Point
}

// Handle feeds one pointer event through the state machine and returns what
// the shell should do about it.
func (e *Editor) Handle(ev PointerEvent) Effects {
	if !ev.InPlot {
		return 0
	}

	switch e.mode {
	case Idle:
		if ev.Kind == PointerDown {
			return e.pointerDown(ev.Pos)
		}
	case Dragging:
		switch ev.Kind {
		case PointerMove:
			return e.dragTo(ev.Pos)
		case PointerUp:
			return e.endDrag()
		}
	case BoxSelecting:
		switch ev.Kind {
		case PointerMove:
			e.box.corner = ev.Pos
			return EffectRedraw
		case PointerUp:
			return e.endBox(ev.Pos)
		}
	}
	return 0
}

func (e *Editor) pointerDown(p geom.Point) Effects {
	i, dist := geom.Nearest(e.points.Positions(), p)
	if i < 0 || dist >= e.opts.Epsilon {
		e.selection = map[int]bool{}
		e.box = &boxSession{anchor: p, corner: p}
		e.mode = BoxSelecting
		return EffectRedraw | EffectSelection
	}

	if !e.selection[i] {
		e.selection = map[int]bool{i: true}
	}
	e.history.Push(e.points.Clone())

	snap := make(map[int]geom.Point, len(e.selection))
	for j := range e.selection {
		snap[j] = e.points.Points[j].Pos()
	}
	e.drag = &dragSession{anchor: p, snapshot: snap}
	e.mode = Dragging

	e.log.DebugWithFields("drag started", []logger.Field{
		logger.F("index", i), logger.Count(len(snap)),
	})
	return EffectRedraw | EffectSelection
}

func (e *Editor) dragTo(p geom.Point) Effects {
	delta := p.Sub(e.drag.anchor)
	for j, pos := range e.drag.snapshot {
		e.points.Points[j].SetPos(pos.Add(delta))
	}
	e.dirty = true
	return EffectRedraw | EffectModified
}

func (e *Editor) endDrag() Effects {
	if sel := e.Selection(); len(sel) > 0 {
		e.anchor = sel[0]
		e.hasAnchor = true
	}
	e.drag = nil
	e.mode = Idle
	e.log.Debug("drag finished, anchor %d", e.anchor)
	return EffectRedraw
}

func (e *Editor) endBox(p geom.Point) Effects {
	r := geom.RectFromCorners(e.box.anchor, p)
	sel := make(map[int]bool)
	for i, pt := range e.points.Points {
		if r.Contains(pt.Pos()) {
			sel[i] = true
		}
	}
	e.selection = sel
	e.box = nil
	e.mode = Idle
	e.log.DebugWithFields("box selection", []logger.Field{logger.Count(len(sel))})
	return EffectRedraw | EffectSelection
}

// Mode returns the current state of the pointer state machine.
func (e *Editor) Mode() Mode { return e.mode }

// Selection returns the selected indices in ascending order.
func (e *Editor) Selection() []int {
	out := make([]int, 0, len(e.selection))
	for i := range e.selection {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// IsSelected reports whether index i is selected.
func (e *Editor) IsSelected(i int) bool { return e.selection[i] }

// SelectionRect returns the live selection rectangle, as spanned by its
// anchor and free corner, while box-selecting.
func (e *Editor) SelectionRect() (anchor, corner geom.Point, ok bool) {
	if e.box == nil {
		return geom.Point{}, geom.Point{}, false
	}
	return e.box.anchor, e.box.corner, true
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selection = map[int]bool{}
}

func (e *Editor) resetInteraction() {
	e.selection = map[int]bool{}
	e.drag = nil
	e.box = nil
	e.mode = Idle
}
