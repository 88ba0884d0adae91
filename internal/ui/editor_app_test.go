package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/trackedit/internal/editor"
	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/track"
)

const (
	testWidth  = 60
	testHeight = 23
)

// newTestModel returns a sized model editing a square with one point inside.
func newTestModel(t *testing.T) *EditorModel {
	t.Helper()
	data := "x,y,speed\n0,0,1\n100,0,2\n100,100,3\n0,100,4\n30,40,5\n"
	ps, _, err := track.ReadCSV(strings.NewReader(data), track.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	m := NewEditorModel(Options{
		Editor:     editor.New(ps, editor.DefaultOptions(), nil),
		Source:     "test.csv",
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
	})
	m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	msg := tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
	if action == tea.MouseActionRelease {
		msg.Button = tea.MouseButtonNone
	}
	return msg
}

// gesture presses at from, moves to to and releases there.
func gesture(m *EditorModel, from, to geom.Point) {
	fx, fy := m.viewport.DataToCell(from)
	tx, ty := m.viewport.DataToCell(to)
	m.Update(mouse(tea.MouseActionPress, fx, fy))
	m.Update(mouse(tea.MouseActionMotion, tx, ty))
	m.Update(mouse(tea.MouseActionRelease, tx, ty))
}

func TestEditorModelView(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if got := strings.Count(view, "\n") + 1; got != testHeight {
		t.Errorf("Expected %d lines, got %d", testHeight, got)
	}
	if !strings.Contains(view, "test.csv") {
		t.Error("Header should name the source file")
	}
}

func TestEditorModelDragAndUndo(t *testing.T) {
	m := newTestModel(t)

	gesture(m, geom.Pt(100, 0), geom.Pt(80, 20))

	ed := m.ed
	if ed.Mode() != editor.Idle {
		t.Fatalf("Expected idle after release, got %s", ed.Mode())
	}
	moved := ed.Points().Points[1].Pos()
	if moved.Distance(geom.Pt(80, 20)) > 6 {
		t.Errorf("Point 1 ended at %v, want near (80, 20)", moved)
	}
	if anchor, ok := ed.Anchor(); !ok || anchor != 1 {
		t.Errorf("Anchor = %d, %v; want 1, true", anchor, ok)
	}
	if !ed.Dirty() {
		t.Error("Track should be dirty after a drag")
	}

	m.Update(key("u"))
	if got := ed.Points().Points[1].Pos(); got != geom.Pt(100, 0) {
		t.Errorf("Undo left point 1 at %v", got)
	}
	if m.status.Kind != StatusSuccess {
		t.Errorf("Undo status kind = %v, want success", m.status.Kind)
	}

	m.Update(key("u"))
	if m.status.Kind != StatusInfo || !strings.Contains(m.status.Text, "Nothing to undo") {
		t.Errorf("Second undo status = %+v", m.status)
	}
}

func TestEditorModelBoxSelect(t *testing.T) {
	m := newTestModel(t)

	gesture(m, geom.Pt(60, 60), geom.Pt(20, 30))

	if got := m.ed.Selection(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("Selection = %v, want [4]", got)
	}
	if !strings.Contains(m.status.Text, "1 point selected") {
		t.Errorf("Status = %q", m.status.Text)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.ed.Selection(); len(got) != 0 {
		t.Errorf("Esc should clear the selection, got %v", got)
	}
}

func TestEditorModelIgnoresOutsidePlot(t *testing.T) {
	m := newTestModel(t)

	x, _ := m.viewport.DataToCell(geom.Pt(100, 0))
	m.Update(mouse(tea.MouseActionPress, x, 0))
	if m.ed.Mode() != editor.Idle {
		t.Errorf("Press on the header started %s", m.ed.Mode())
	}
}

func TestEditorModelClipboard(t *testing.T) {
	m := newTestModel(t)
	var copied string
	m.writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	m.Update(key("y"))
	if !strings.Contains(m.status.Text, "Nothing selected") {
		t.Errorf("Copy without a selection: status %q", m.status.Text)
	}

	gesture(m, geom.Pt(60, 60), geom.Pt(20, 30))
	_, cmd := m.Update(key("y"))
	if cmd == nil {
		t.Fatal("Expected a clipboard command")
	}
	m.Update(cmd())

	if want := "x,y,speed\n30,40,5\n"; copied != want {
		t.Errorf("Copied %q, want %q", copied, want)
	}
	if m.status.Kind != StatusSuccess || !strings.Contains(m.status.Text, "Copied 1 row") {
		t.Errorf("Status = %+v", m.status)
	}
}

func TestEditorModelClipboardError(t *testing.T) {
	m := newTestModel(t)
	m.writeClipboard = func(string) error { return errors.New("no display") }

	gesture(m, geom.Pt(60, 60), geom.Pt(20, 30))
	_, cmd := m.Update(key("y"))
	m.Update(cmd())

	if m.status.Kind != StatusError || !strings.Contains(m.status.Text, "no display") {
		t.Errorf("Status = %+v", m.status)
	}
}

func TestEditorModelConfirmResampleAll(t *testing.T) {
	m := newTestModel(t)
	before := m.ed.Points().Positions()

	m.Update(key("a"))
	if m.view != ViewConfirm {
		t.Fatalf("Expected the confirm view, got %v", m.view)
	}
	if !strings.Contains(m.View(), "Resample all 5 points?") {
		t.Error("Confirm prompt not shown")
	}

	m.Update(key("n"))
	if m.view != ViewEditor {
		t.Errorf("Expected the editor view, got %v", m.view)
	}
	if m.status.Kind != StatusInfo {
		t.Errorf("Cancel status kind = %v, want info", m.status.Kind)
	}
	after := m.ed.Points().Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Cancelled resample changed point %d", i)
		}
	}
}

func TestEditorModelResampleRangeNeedsAnchor(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("g"))
	if m.status.Kind != StatusError || !strings.Contains(m.status.Text, "No point has been moved yet") {
		t.Errorf("Status = %+v", m.status)
	}
}

func TestEditorModelSmoothingKeys(t *testing.T) {
	m := newTestModel(t)
	start := m.ed.Smoothing()

	m.Update(key("]"))
	if got := m.ed.Smoothing(); got != start+defaultSmoothingStep {
		t.Errorf("Smoothing after ] = %v, want %v", got, start+defaultSmoothingStep)
	}
	for i := 0; i < 100; i++ {
		m.Update(key("["))
	}
	if got := m.ed.Smoothing(); got != editor.MinSmoothing {
		t.Errorf("Smoothing should clamp at %v, got %v", editor.MinSmoothing, got)
	}
}

func TestEditorModelSave(t *testing.T) {
	m := newTestModel(t)
	gesture(m, geom.Pt(100, 0), geom.Pt(80, 20))

	m.Update(key("s"))
	if m.status.Kind != StatusSuccess {
		t.Fatalf("Save status = %+v", m.status)
	}
	if m.ed.Dirty() {
		t.Error("Track should be clean after saving")
	}

	ps, _, err := track.ReadFile(m.outputPath, track.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if ps.Len() != 5 {
		t.Errorf("Saved %d points, want 5", ps.Len())
	}
}

func TestEditorModelQuitGuard(t *testing.T) {
	m := newTestModel(t)
	gesture(m, geom.Pt(100, 0), geom.Pt(80, 20))

	m.Update(key("q"))
	if m.quitting {
		t.Fatal("First q with unsaved changes should not quit")
	}
	if m.status.Kind != StatusWarning {
		t.Errorf("Status kind = %v, want warning", m.status.Kind)
	}

	_, cmd := m.Update(key("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("Second q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.Quit")
	}
}

func TestEditorModelQuitClean(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(key("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q on a clean track should quit")
	}
	if m.View() != "" {
		t.Error("View should be empty once quitting")
	}
}

func TestEditorModelOverlayReload(t *testing.T) {
	m := newTestModel(t)

	layer := overlay.Layer{
		Kind:   overlay.InnerLane,
		Path:   "inner.csv",
		Points: []geom.Point{geom.Pt(10, 10), geom.Pt(90, 10), geom.Pt(90, 90)},
	}
	m.Update(overlayReloadMsg{layer: layer})

	if got := len(m.overlays.Layer(overlay.InnerLane).Points); got != 3 {
		t.Errorf("Inner lane has %d points, want 3", got)
	}
	if !strings.Contains(m.status.Text, "Reloaded inner_lane") {
		t.Errorf("Status = %q", m.status.Text)
	}

	m.Update(overlayReloadMsg{layer: overlay.Layer{Kind: overlay.OuterLane, Err: errors.New("bad header")}})
	if m.status.Kind != StatusWarning {
		t.Errorf("Failed reload status kind = %v, want warning", m.status.Kind)
	}
}

func TestEditorModelStatusExpiry(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("]"))
	seq := m.statusSeq
	m.Update(statusExpiredMsg{seq: seq - 1})
	if m.status.Text == "" {
		t.Error("A stale expiry cleared the current status")
	}
	m.Update(statusExpiredMsg{seq: seq})
	if m.status.Text != "" {
		t.Errorf("Status should be cleared, got %q", m.status.Text)
	}
}

func TestEditorModelHelp(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("?"))
	if m.view != ViewHelp || !strings.Contains(m.View(), "Keys") {
		t.Fatal("Expected the help view")
	}
	m.Update(key("x"))
	if m.view != ViewEditor {
		t.Error("Any key should leave help")
	}
}
