package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Files   FilesConfig  `yaml:"files" json:"files"`
	Editor  EditorConfig `yaml:"editor" json:"editor"`
	Track   TrackConfig  `yaml:"track" json:"track"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Render  RenderConfig `yaml:"render" json:"render"`
}

// FilesConfig names the datasets the editor reads and writes
type FilesConfig struct {
	Input      string `yaml:"input" json:"input"`           // primary track, read at startup
	Output     string `yaml:"output" json:"output"`         // written on save
	InnerLane  string `yaml:"inner_lane" json:"inner_lane"` // optional overlay
	OuterLane  string `yaml:"outer_lane" json:"outer_lane"` // optional overlay
	Background string `yaml:"background" json:"background"` // optional overlay
}

// EditorConfig configures the editing controller
type EditorConfig struct {
	Epsilon         float64       `yaml:"epsilon" json:"epsilon"`                   // pick radius in data units
	Smoothing       float64       `yaml:"smoothing" json:"smoothing"`               // initial smoothing factor, 0..10
	SmoothingStep   float64       `yaml:"smoothing_step" json:"smoothing_step"`     // TUI [ ] increment
	HistoryCapacity int           `yaml:"history_capacity" json:"history_capacity"` // undo snapshots kept
	WindowRadius    int           `yaml:"window_radius" json:"window_radius"`       // range resample half width
	SampleCount     int           `yaml:"sample_count" json:"sample_count"`         // points produced by sample curve
	WatchOverlays   bool          `yaml:"watch_overlays" json:"watch_overlays"`     // reload overlays on change
	WatchDebounce   time.Duration `yaml:"watch_debounce" json:"watch_debounce"`
}

// TrackConfig configures how rows become points
type TrackConfig struct {
	NumericColumns []string `yaml:"numeric_columns" json:"numeric_columns"`
	ColorBy        string   `yaml:"color_by" json:"color_by"` // numeric column used for colouring
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
	Theme         string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
}

// RenderConfig configures the PNG preview
type RenderConfig struct {
	Width        int     `yaml:"width" json:"width"`
	Height       int     `yaml:"height" json:"height"`
	Margin       float64 `yaml:"margin" json:"margin"`
	CurveSamples int     `yaml:"curve_samples" json:"curve_samples"`
	PointRadius  float64 `yaml:"point_radius" json:"point_radius"`
	ShowLabels   bool    `yaml:"show_labels" json:"show_labels"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Files: FilesConfig{
			Input:      "input.csv",
			Output:     "output.csv",
			InnerLane:  "lane/inner_lane_bound.csv",
			OuterLane:  "lane/out_lane_bound.csv",
			Background: "background.csv",
		},
		Editor: EditorConfig{
			Epsilon:         5,
			Smoothing:       3,
			SmoothingStep:   0.5,
			HistoryCapacity: 20,
			WindowRadius:    10,
			SampleCount:     100,
			WatchOverlays:   true,
			WatchDebounce:   200 * time.Millisecond,
		},
		Track: TrackConfig{
			NumericColumns: []string{"speed"},
			ColorBy:        "speed",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			NoEmoji:       false,
			Theme:         "default",
		},
		Render: RenderConfig{
			Width:        1200,
			Height:       900,
			Margin:       40,
			CurveSamples: 1000,
			PointRadius:  3,
			ShowLabels:   false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateFilesConfig(); err != nil {
		return err
	}
	if err := c.validateEditorConfig(); err != nil {
		return err
	}
	if err := c.validateTrackConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateRenderConfig(); err != nil {
		return err
	}
	return nil
}

// validateFilesConfig validates file-related configuration
func (c *Config) validateFilesConfig() error {
	if strings.TrimSpace(c.Files.Input) == "" {
		return fmt.Errorf("files.input must not be empty")
	}
	if strings.TrimSpace(c.Files.Output) == "" {
		return fmt.Errorf("files.output must not be empty")
	}
	return nil
}

// validateEditorConfig validates editing-related configuration
func (c *Config) validateEditorConfig() error {
	if c.Editor.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be greater than 0")
	}
	if c.Editor.Smoothing < 0 || c.Editor.Smoothing > 10 {
		return fmt.Errorf("smoothing must be between 0 and 10, got %v", c.Editor.Smoothing)
	}
	if c.Editor.SmoothingStep <= 0 || c.Editor.SmoothingStep > 10 {
		return fmt.Errorf("smoothing_step must be in (0, 10]")
	}
	if c.Editor.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be greater than 0")
	}
	if c.Editor.WindowRadius < 1 {
		return fmt.Errorf("window_radius must be greater than 0")
	}
	if c.Editor.SampleCount < 4 {
		return fmt.Errorf("sample_count must be at least 4")
	}
	if c.Editor.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must be non-negative")
	}
	return nil
}

// validateTrackConfig validates column configuration
func (c *Config) validateTrackConfig() error {
	for _, col := range c.Track.NumericColumns {
		if col == "x" || col == "y" {
			return fmt.Errorf("numeric_columns must not list the position column %q", col)
		}
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("numeric_columns must not contain empty names")
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}

// validateRenderConfig validates preview settings
func (c *Config) validateRenderConfig() error {
	if c.Render.Width < 16 || c.Render.Height < 16 {
		return fmt.Errorf("render size must be at least 16x16, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Margin < 0 || 2*c.Render.Margin >= float64(min(c.Render.Width, c.Render.Height)) {
		return fmt.Errorf("render margin %v does not fit the image", c.Render.Margin)
	}
	if c.Render.CurveSamples < 4 {
		return fmt.Errorf("curve_samples must be at least 4")
	}
	if c.Render.PointRadius < 0 {
		return fmt.Errorf("point_radius must be non-negative")
	}
	return nil
}
