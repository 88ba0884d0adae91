package ui

import (
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colours of the terminal editor chrome. The plot itself is
// coloured by the render palette.
type Theme struct {
	Name string

	Title   lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor

	Selection lipgloss.AdaptiveColor // selected point count
	Dirty     lipgloss.AdaptiveColor // unsaved changes marker
	Gauge     lipgloss.AdaptiveColor // smoothing bar
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var themes = map[string]Theme{
	"default": {
		Name:       "default",
		Title:      adaptive("#1E40AF", "#3B82F6"),
		Accent:     adaptive("#7C3AED", "#A855F7"),
		Success:    adaptive("#059669", "#10B981"),
		Warning:    adaptive("#D97706", "#F59E0B"),
		Error:      adaptive("#DC2626", "#EF4444"),
		Info:       adaptive("#0891B2", "#06B6D4"),
		Border:     adaptive("#D1D5DB", "#374151"),
		Foreground: adaptive("#111827", "#F9FAFB"),
		Muted:      adaptive("#6B7280", "#9CA3AF"),
		Selection:  adaptive("#0369A1", "#38BDF8"),
		Dirty:      adaptive("#EA580C", "#FB923C"),
		Gauge:      adaptive("#059669", "#10B981"),
	},
	"high-contrast": {
		Name:       "high-contrast",
		Title:      adaptive("#000000", "#FFFFFF"),
		Accent:     adaptive("#000080", "#8080FF"),
		Success:    adaptive("#006600", "#00FF00"),
		Warning:    adaptive("#CC6600", "#FFAA00"),
		Error:      adaptive("#CC0000", "#FF4444"),
		Info:       adaptive("#0066CC", "#4499FF"),
		Border:     adaptive("#000000", "#FFFFFF"),
		Foreground: adaptive("#000000", "#FFFFFF"),
		Muted:      adaptive("#444444", "#CCCCCC"),
		Selection:  adaptive("#0000CC", "#FFFF00"),
		Dirty:      adaptive("#800080", "#FF80FF"),
		Gauge:      adaptive("#006600", "#00FF00"),
	},
	"minimal": {
		Name:       "minimal",
		Title:      adaptive("#2D3748", "#E2E8F0"),
		Accent:     adaptive("#4A5568", "#CBD5E0"),
		Success:    adaptive("#2F855A", "#68D391"),
		Warning:    adaptive("#C05621", "#F6AD55"),
		Error:      adaptive("#C53030", "#FC8181"),
		Info:       adaptive("#2B6CB0", "#63B3ED"),
		Border:     adaptive("#E2E8F0", "#2D3748"),
		Foreground: adaptive("#2D3748", "#F7FAFC"),
		Muted:      adaptive("#A0AEC0", "#718096"),
		Selection:  adaptive("#2D3748", "#E2E8F0"),
		Dirty:      adaptive("#553C9A", "#B794F6"),
		Gauge:      adaptive("#4A5568", "#CBD5E0"),
	},
}

var currentTheme = themes["default"]

// SetThemeByName switches the active theme. It reports false and leaves the
// theme unchanged when name is unknown.
func SetThemeByName(name string) bool {
	t, ok := themes[name]
	if ok {
		currentTheme = t
	}
	return ok
}

// GetAvailableThemes returns the theme names in sorted order.
func GetAvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles are the lipgloss styles of the editor screen.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Box       lipgloss.Style
	Gauge     lipgloss.Style
	Dirty     lipgloss.Style
	Highlight lipgloss.Style

	Key     lipgloss.Style
	KeyDesc lipgloss.Style
}

// GetStyles builds the styles of the active theme.
func GetStyles() *Styles {
	t := currentTheme
	bold := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}

	return &Styles{
		Theme: t,

		Title:     bold(t.Title).Padding(0, 1),
		Header:    bold(t.Title),
		Subheader: bold(t.Accent),
		Body:      lipgloss.NewStyle().Foreground(t.Foreground),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),

		Success: bold(t.Success),
		Warning: bold(t.Warning),
		Error:   bold(t.Error),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),
		Gauge:     bold(t.Gauge),
		Dirty:     bold(t.Dirty),
		Highlight: bold(t.Selection),

		Key:     bold(t.Accent),
		KeyDesc: lipgloss.NewStyle().Foreground(t.Muted),
	}
}
