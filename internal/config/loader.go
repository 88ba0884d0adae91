package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRACKEDIT_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.trackedit.yaml",               // Project-specific config (highest priority)
	"~/.config/trackedit/config.yaml", // User config
	"/etc/trackedit/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.trackedit.yaml
// 4. ~/.config/trackedit/config.yaml
// 5. /etc/trackedit/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file
// keep their current value, so explicit zeros and false are honoured.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Decode into a copy so a half-parsed file leaves config untouched
	merged := *config
	merged.Track.NumericColumns = append([]string(nil), config.Track.NumericColumns...)
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Files
		"TRACKEDIT_FILES_INPUT":      func(v string) error { config.Files.Input = v; return nil },
		"TRACKEDIT_FILES_OUTPUT":     func(v string) error { config.Files.Output = v; return nil },
		"TRACKEDIT_FILES_INNER_LANE": func(v string) error { config.Files.InnerLane = v; return nil },
		"TRACKEDIT_FILES_OUTER_LANE": func(v string) error { config.Files.OuterLane = v; return nil },
		"TRACKEDIT_FILES_BACKGROUND": func(v string) error { config.Files.Background = v; return nil },

		// Editor
		"TRACKEDIT_EDITOR_EPSILON":          func(v string) error { return parseFloat(v, &config.Editor.Epsilon) },
		"TRACKEDIT_EDITOR_SMOOTHING":        func(v string) error { return parseFloat(v, &config.Editor.Smoothing) },
		"TRACKEDIT_EDITOR_SMOOTHING_STEP":   func(v string) error { return parseFloat(v, &config.Editor.SmoothingStep) },
		"TRACKEDIT_EDITOR_HISTORY_CAPACITY": func(v string) error { return parseInt(v, &config.Editor.HistoryCapacity) },
		"TRACKEDIT_EDITOR_WINDOW_RADIUS":    func(v string) error { return parseInt(v, &config.Editor.WindowRadius) },
		"TRACKEDIT_EDITOR_SAMPLE_COUNT":     func(v string) error { return parseInt(v, &config.Editor.SampleCount) },
		"TRACKEDIT_EDITOR_WATCH_OVERLAYS":   func(v string) error { return parseBool(v, &config.Editor.WatchOverlays) },
		"TRACKEDIT_EDITOR_WATCH_DEBOUNCE":   func(v string) error { return parseDuration(v, &config.Editor.WatchDebounce) },

		// Track
		"TRACKEDIT_TRACK_COLOR_BY": func(v string) error { config.Track.ColorBy = v; return nil },

		// Output
		"TRACKEDIT_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"TRACKEDIT_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"TRACKEDIT_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"TRACKEDIT_OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },
		"TRACKEDIT_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },

		// Render
		"TRACKEDIT_RENDER_WIDTH":         func(v string) error { return parseInt(v, &config.Render.Width) },
		"TRACKEDIT_RENDER_HEIGHT":        func(v string) error { return parseInt(v, &config.Render.Height) },
		"TRACKEDIT_RENDER_CURVE_SAMPLES": func(v string) error { return parseInt(v, &config.Render.CurveSamples) },
		"TRACKEDIT_RENDER_SHOW_LABELS":   func(v string) error { return parseBool(v, &config.Render.ShowLabels) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated list
	if cols := os.Getenv(EnvPrefix + "TRACK_NUMERIC_COLUMNS"); cols != "" {
		config.Track.NumericColumns = config.Track.NumericColumns[:0:0]
		for _, col := range strings.Split(cols, ",") {
			if col = strings.TrimSpace(col); col != "" {
				config.Track.NumericColumns = append(config.Track.NumericColumns, col)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ExpandPath expands a leading ~/ in a configured file path.
func ExpandPath(path string) string { return expandPath(path) }

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
