package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/trackedit/internal/editor"
	"github.com/yildizm/trackedit/internal/emoji"
	"github.com/yildizm/trackedit/internal/formatter"
	"github.com/yildizm/trackedit/internal/geom"
	"github.com/yildizm/trackedit/internal/logger"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/render"
)

const (
	headerLines = 1
	footerLines = 2

	zoomStep = 1.25
	panCols  = 4
	panRows  = 2

	defaultSmoothingStep = 0.5
)

// Options configures the terminal editor.
type Options struct {
	Editor   *editor.Editor
	Overlays *overlay.Set
	// Watcher, when set, must already be started; reloaded layers replace
	// the ones in Overlays.
	Watcher *overlay.Watcher

	Source        string
	OutputPath    string
	SmoothingStep float64
	Render        render.Options

	Log *logger.Logger
	// LogFile receives log output while the screen is taken over. Without
	// it logging is discarded until Run returns.
	LogFile string
}

// EditorModel is the bubbletea model of the track editor
type EditorModel struct {
	ed         *editor.Editor
	overlays   *overlay.Set
	watcher    *overlay.Watcher
	source     string
	outputPath string
	step       float64
	renderOpts render.Options
	styles     *Styles
	gauge      *termfmt.TerminalOptions

	width, height int
	ready         bool
	view          View
	viewport      Viewport
	followData    bool

	status    Status
	statusSeq int
	quitArmed bool
	quitting  bool

	writeClipboard func(string) error
}

// NewEditorModel creates the editor screen model
func NewEditorModel(opts Options) *EditorModel {
	if opts.Editor == nil {
		opts.Editor = editor.New(nil, editor.DefaultOptions(), opts.Log)
	}
	if opts.Overlays == nil {
		opts.Overlays = overlay.Load(overlay.Paths{}, opts.Log)
	}
	if opts.SmoothingStep <= 0 {
		opts.SmoothingStep = defaultSmoothingStep
	}

	ro := opts.Render
	ro.Grid = false
	ro.ShowLabels = false
	ro.PointRadius = 0.9

	gauge := termfmt.DefaultOptions()
	gauge.Color = !IsColorDisabled()
	gauge.Emoji = !emoji.IsEmojiDisabled()

	return &EditorModel{
		ed:         opts.Editor,
		overlays:   opts.Overlays,
		watcher:    opts.Watcher,
		source:     opts.Source,
		outputPath: opts.OutputPath,
		step:       opts.SmoothingStep,
		renderOpts: ro,
		styles:     GetStyles(),
		gauge:      gauge,
		view:       ViewEditor,
		followData: true,
		status:     Status{Text: "Press ? for help", Kind: StatusInfo},
	}
}

// Init starts listening for overlay reloads
func (m *EditorModel) Init() tea.Cmd {
	return waitForOverlay(m.watcher)
}

// Update handles messages
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case overlayReloadMsg:
		return m.handleOverlayReload(msg)
	case clipboardMsg:
		return m.handleClipboard(msg)
	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = Status{}
		}
	}
	return m, nil
}

// handleWindowResize lays the plot out again and refits it
func (m *EditorModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.refit()
	return m, nil
}

// refit fits the track and its overlays into the plot area
func (m *EditorModel) refit() {
	scene := render.Scene{Track: m.ed.Points(), Overlays: m.overlays}
	bounds, ok := scene.Bounds()
	if !ok {
		bounds = geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(100, 100)}
	}
	rows := max(m.height-headerLines-footerLines, 1)
	m.viewport = NewViewport(0, headerLines, m.width, rows, bounds)
}

// handleMouse turns mouse input into pointer events for the editor
func (m *EditorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != ViewEditor {
		return m, nil
	}
	inPlot := m.viewport.InPlot(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inPlot {
			m.viewport = m.viewport.Zoom(zoomStep, msg.X, msg.Y)
			m.followData = false
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if inPlot {
			m.viewport = m.viewport.Zoom(1/zoomStep, msg.X, msg.Y)
			m.followData = false
		}
		return m, nil
	}

	ev := editor.PointerEvent{InPlot: inPlot}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		ev.Kind = editor.PointerDown
		ev.Pos = m.viewport.Snap(msg.X, msg.Y, m.ed.Points().Positions())
	case tea.MouseActionMotion:
		ev.Kind = editor.PointerMove
		ev.Pos = m.viewport.CellToData(msg.X, msg.Y)
	case tea.MouseActionRelease:
		ev.Kind = editor.PointerUp
		ev.Pos = m.viewport.CellToData(msg.X, msg.Y)
	default:
		return m, nil
	}

	m.quitArmed = false
	effects := m.ed.Handle(ev)
	if ev.Kind == editor.PointerUp && effects.Has(editor.EffectSelection) {
		n := len(m.ed.Selection())
		return m, m.setStatus(emoji.GetEmoji("selection")+" "+plural(n, "point")+" selected", StatusInfo)
	}
	return m, nil
}

// handleKeyPress handles keyboard input
func (m *EditorModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewConfirm:
		return m.handleConfirm(msg)
	case ViewHelp:
		m.view = ViewEditor
		return m, nil
	}

	key := msg.String()
	if key != "q" {
		m.quitArmed = false
	}

	switch key {
	case "q", "ctrl+c":
		return m.handleQuit(key)
	case "?", "h":
		m.view = ViewHelp
	case "u", "ctrl+z":
		rep, err := m.ed.Undo()
		return m.apply("undo", rep, err)
	case "r", "ctrl+y":
		rep, err := m.ed.Redo()
		return m.apply("redo", rep, err)
	case "g":
		rep, err := m.ed.ResampleRange()
		return m.apply("resample", rep, err)
	case "a":
		m.view = ViewConfirm
	case "c":
		rep, err := m.ed.SampleCurve(0)
		return m.apply("resample", rep, err)
	case "[":
		return m.apply("smoothing", m.ed.SetSmoothing(m.ed.Smoothing()-m.step), nil)
	case "]":
		return m.apply("smoothing", m.ed.SetSmoothing(m.ed.Smoothing()+m.step), nil)
	case "s":
		rep, err := m.ed.SaveFile(m.outputPath)
		return m.apply("save", rep, err)
	case "y":
		return m.copySelection()
	case "esc":
		m.ed.ClearSelection()
	case "+", "=":
		m.zoomCentre(zoomStep)
	case "-", "_":
		m.zoomCentre(1 / zoomStep)
	case "0":
		m.followData = true
		m.refit()
	case "left":
		m.viewport = m.viewport.Pan(panCols, 0)
	case "right":
		m.viewport = m.viewport.Pan(-panCols, 0)
	case "up":
		m.viewport = m.viewport.Pan(0, panRows)
	case "down":
		m.viewport = m.viewport.Pan(0, -panRows)
	}
	return m, nil
}

// handleConfirm answers the resample-all prompt
func (m *EditorModel) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.view = ViewEditor
		rep, err := m.ed.ResampleAll(true)
		return m.apply("resample", rep, err)
	case "n", "N", "esc", "q", "ctrl+c":
		m.view = ViewEditor
		rep, err := m.ed.ResampleAll(false)
		return m.apply("cancel", rep, err)
	}
	return m, nil
}

// handleQuit quits, asking twice when there are unsaved changes
func (m *EditorModel) handleQuit(key string) (tea.Model, tea.Cmd) {
	if key == "q" && m.ed.Dirty() && !m.quitArmed {
		m.quitArmed = true
		return m, m.setStatus(emoji.GetEmoji("door")+" Unsaved changes. Press q again to quit or s to save", StatusWarning)
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *EditorModel) zoomCentre(factor float64) {
	v := m.viewport
	m.viewport = v.Zoom(factor, v.Left+v.Cols/2, v.Top+v.Rows/2)
	m.followData = false
}

// apply reports the outcome of an editor operation on the status line
func (m *EditorModel) apply(icon string, rep editor.Report, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if editor.IsInformational(err) {
			return m, m.setStatus(emoji.GetEmoji("info")+" "+err.Error(), StatusInfo)
		}
		return m, m.setStatus(emoji.GetEmoji("error")+" "+err.Error(), StatusError)
	}
	if rep.Effects.Has(editor.EffectRedraw) && m.followData {
		m.refit()
	}
	return m, m.setStatus(emoji.GetEmoji(icon)+" "+rep.Message, StatusSuccess)
}

func (m *EditorModel) copySelection() (tea.Model, tea.Cmd) {
	sel := m.ed.Selection()
	if len(sel) == 0 {
		return m, m.setStatus(emoji.GetEmoji("info")+" Nothing selected", StatusInfo)
	}
	text, rows, err := selectionCSV(m.ed.Points(), sel)
	if err != nil {
		return m, m.setStatus(emoji.GetEmoji("error")+" "+err.Error(), StatusError)
	}
	return m, copyToClipboard(m.writeClipboard, text, rows)
}

func (m *EditorModel) handleClipboard(msg clipboardMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.setStatus(fmt.Sprintf("%s Clipboard unavailable: %v", emoji.GetEmoji("error"), msg.err), StatusError)
	}
	return m, m.setStatus(emoji.GetEmoji("clipboard")+" Copied "+plural(msg.rows, "row"), StatusSuccess)
}

// handleOverlayReload swaps in a layer the watcher reloaded and waits for
// the next one
func (m *EditorModel) handleOverlayReload(msg overlayReloadMsg) (tea.Model, tea.Cmd) {
	m.overlays.Replace(msg.layer)

	var status tea.Cmd
	if msg.layer.Err != nil {
		status = m.setStatus(fmt.Sprintf("%s %s unavailable: %v", emoji.GetEmoji("warning"), msg.layer.Kind, msg.layer.Err), StatusWarning)
	} else {
		status = m.setStatus(fmt.Sprintf("%s Reloaded %s (%s)", emoji.GetEmoji("reload"), msg.layer.Kind, plural(len(msg.layer.Points), "point")), StatusInfo)
	}
	return m, tea.Batch(status, waitForOverlay(m.watcher))
}

// setStatus shows text until it expires or is replaced
func (m *EditorModel) setStatus(text string, kind StatusKind) tea.Cmd {
	m.statusSeq++
	m.status = Status{Text: text, Kind: kind}
	return expireStatus(m.statusSeq)
}

// View renders the current screen
func (m *EditorModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading track..."
	}
	if m.view == ViewHelp {
		return m.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderPlot(),
		m.renderStatus(),
		m.renderFooter(),
	)
}

func (m *EditorModel) renderHeader() string {
	ps := m.ed.Points()
	parts := []string{
		m.styles.Header.Render(emoji.GetEmoji("track") + " trackedit"),
		m.styles.Body.Render(m.source),
		m.styles.Muted.Render(plural(ps.Len(), "point")),
	}
	if n := len(m.ed.Selection()); n > 0 {
		parts = append(parts, m.styles.Highlight.Render(fmt.Sprintf(" %d selected ", n)))
	}
	if mode := m.ed.Mode(); mode != editor.Idle {
		parts = append(parts, m.styles.Info.Render(mode.String()))
	}
	if m.ed.Dirty() {
		parts = append(parts, m.styles.Dirty.Render("● modified"))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func (m *EditorModel) renderPlot() string {
	scene := render.Scene{
		Track:    m.ed.Points(),
		Overlays: m.overlays,
		Selected: m.ed.Selection(),
	}
	if a, c, ok := m.ed.SelectionRect(); ok {
		box := geom.RectFromCorners(a, c)
		scene.Box = &box
	}

	dc, err := render.DrawWith(scene, m.renderOpts, m.viewport.Transform())
	if err != nil {
		return m.styles.Error.Render(err.Error())
	}

	var lines []string
	if IsColorDisabled() {
		bg := render.LightTheme().Background
		if m.renderOpts.Dark {
			bg = render.DarkTheme().Background
		}
		lines = paintMono(dc.Image(), bg)
	} else {
		lines = paint(dc.Image())
	}
	return strings.Join(lines, "\n")
}

func (m *EditorModel) renderStatus() string {
	if m.view == ViewConfirm {
		prompt := fmt.Sprintf("%s Resample all %s? Every point is replaced. [y/n]",
			emoji.GetEmoji("warning"), plural(m.ed.Points().Len(), "point"))
		return m.styles.Warning.Render(prompt)
	}

	var style lipgloss.Style
	switch m.status.Kind {
	case StatusSuccess:
		style = m.styles.Success
	case StatusWarning:
		style = m.styles.Warning
	case StatusError:
		style = m.styles.Error
	default:
		style = m.styles.Info
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(style.Render(m.status.Text))
}

func (m *EditorModel) renderFooter() string {
	s := m.ed.Smoothing()
	undo, redo := m.ed.UndoDepth()

	smoothing := fmt.Sprintf("%s %s %s",
		emoji.GetEmoji("smoothing"),
		m.styles.Gauge.Render(formatter.SmoothingBar(s, m.gauge)),
		m.styles.Body.Render(fmt.Sprintf("%.1f", s)))
	history := m.styles.Muted.Render(fmt.Sprintf("undo %d  redo %d", undo, redo))
	hints := m.hint("g", "range") + " " + m.hint("a", "all") + " " +
		m.hint("s", "save") + " " + m.hint("?", "help")

	line := strings.Join([]string{smoothing, history, hints}, "   ")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m *EditorModel) hint(key, desc string) string {
	return m.styles.Key.Render(key) + m.styles.KeyDesc.Render(" "+desc)
}

// renderHelp shows the key bindings
func (m *EditorModel) renderHelp() string {
	title := m.styles.Title.Render(emoji.GetEmoji("help") + " Keys")

	sections := []struct {
		name string
		keys [][2]string
	}{
		{"Editing", [][2]string{
			{"mouse", "drag a point to move it and the selection; drag empty space to select"},
			{"esc", "clear selection"},
			{"u / ctrl+z", "undo"},
			{"r / ctrl+y", "redo"},
		}},
		{"Resampling", [][2]string{
			{"g", "resample around the last moved point"},
			{"a", "resample the whole track"},
			{"c", "replace the track with an even sampling of its curve"},
			{"[ ]", "decrease / increase smoothing"},
		}},
		{"View", [][2]string{
			{"wheel + -", "zoom"},
			{"arrows", "pan"},
			{"0", "fit to track"},
		}},
		{"Files", [][2]string{
			{"s", "save to " + m.outputPath},
			{"y", "copy selected rows as CSV"},
			{"q", "quit"},
		}},
	}

	lines := []string{title, ""}
	for _, sec := range sections {
		lines = append(lines, m.styles.Subheader.Render(sec.name))
		for _, k := range sec.keys {
			lines = append(lines, fmt.Sprintf("  %s  %s",
				m.styles.Key.Render(fmt.Sprintf("%-11s", k[0])), m.styles.KeyDesc.Render(k[1])))
		}
		lines = append(lines, "")
	}
	lines = append(lines, m.styles.Warning.Render("Press any key to go back"))

	box := m.styles.Box.Width(min(m.width-4, 80))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Run takes over the terminal with the editor until the user quits
func Run(opts Options) error {
	if opts.Log != nil {
		if opts.LogFile != "" {
			f, err := tea.LogToFile(opts.LogFile, "trackedit")
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer func() { _ = f.Close() }()
			opts.Log.SetOutput(f)
		} else {
			opts.Log.SetOutput(io.Discard)
		}
		defer opts.Log.SetOutput(os.Stderr)
	}

	opts.Render.Dark = lipgloss.HasDarkBackground()

	model := NewEditorModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
