package ui

import (
	"bytes"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/track"
)

// statusTimeout is how long a status message stays up
const statusTimeout = 4 * time.Second

// Common message types shared across UI models
type overlayReloadMsg struct {
	layer overlay.Layer
}

type clipboardMsg struct {
	rows int
	err  error
}

type statusExpiredMsg struct {
	seq int
}

// waitForOverlay blocks until the watcher delivers a reloaded layer. It
// returns nil once the watcher is closed.
func waitForOverlay(w *overlay.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case layer := <-w.Updates():
			return overlayReloadMsg{layer: layer}
		case <-w.Done():
			return nil
		}
	}
}

// expireStatus clears status message seq after statusTimeout
func expireStatus(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// selectionCSV renders the selected rows of ps, with the header, as CSV.
func selectionCSV(ps *track.PointSet, indices []int) (string, int, error) {
	sub := track.New(ps.Columns)
	for _, i := range indices {
		if i >= 0 && i < ps.Len() {
			sub.Points = append(sub.Points, ps.Points[i].Clone())
		}
	}
	var buf bytes.Buffer
	if err := sub.WriteCSV(&buf); err != nil {
		return "", 0, err
	}
	return buf.String(), sub.Len(), nil
}

// copyToClipboard writes text to the system clipboard
func copyToClipboard(write func(string) error, text string, rows int) tea.Cmd {
	if write == nil {
		write = clipboard.WriteAll
	}
	return func() tea.Msg {
		return clipboardMsg{rows: rows, err: write(text)}
	}
}
