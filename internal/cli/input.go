package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yildizm/trackedit/internal/config"
	"github.com/yildizm/trackedit/internal/editor"
	"github.com/yildizm/trackedit/internal/logger"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/render"
	"github.com/yildizm/trackedit/internal/track"
)

// resolveInput returns the track named on the command line, or the
// configured input file.
func resolveInput(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.ExpandPath(cfg.Files.Input)
}

// loadTrack reads the primary dataset. Skipped rows are reported once, in
// aggregate.
func loadTrack(path string, cfg *config.Config, log *logger.Logger) (*track.PointSet, track.LoadStats, error) {
	if err := validateFilePath(path); err != nil {
		return nil, track.LoadStats{}, fmt.Errorf("invalid track file: %w", err)
	}

	opts := track.LoadOptions{NumericColumns: cfg.Track.NumericColumns}
	ps, stats, err := track.ReadFile(filepath.Clean(path), opts)
	if err != nil {
		return nil, stats, err
	}

	if stats.Dropped > 0 {
		log.InfoWithFields("rows skipped", []logger.Field{
			logger.Path(path), logger.Count(stats.Dropped), logger.F("rows", stats.Rows),
		})
	}
	if len(stats.MissingNumeric) > 0 {
		log.Warn("no %v column in %s, colour coding by it is disabled", stats.MissingNumeric, path)
	}
	log.DebugWithFields("track loaded", []logger.Field{logger.Path(path), logger.Points(ps.Len())})
	return ps, stats, nil
}

func overlayPaths(cfg *config.Config) overlay.Paths {
	return overlay.Paths{
		Inner:    config.ExpandPath(cfg.Files.InnerLane),
		Outer:    config.ExpandPath(cfg.Files.OuterLane),
		Backdrop: config.ExpandPath(cfg.Files.Background),
	}
}

func editorOptions(cfg *config.Config) editor.Options {
	return editor.Options{
		Epsilon:         cfg.Editor.Epsilon,
		Smoothing:       cfg.Editor.Smoothing,
		HistoryCapacity: cfg.Editor.HistoryCapacity,
		WindowRadius:    cfg.Editor.WindowRadius,
		SampleCount:     cfg.Editor.SampleCount,
	}
}

func renderOptions(cfg *config.Config) render.Options {
	opts := render.DefaultOptions()
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.Margin = cfg.Render.Margin
	opts.CurveSamples = cfg.Render.CurveSamples
	opts.PointRadius = cfg.Render.PointRadius
	opts.ShowLabels = cfg.Render.ShowLabels
	opts.ColorBy = cfg.Track.ColorBy
	return opts
}

// validateFilePath rejects empty paths and directories. Missing or
// unreadable files are left to track.ReadFile, which reports them as a
// *track.FileAccessError.
func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

// writeOutput writes output to path, or to w when path is empty
func writeOutput(w io.Writer, output []byte, path string) error {
	if path == "" {
		_, err := w.Write(output)
		return err
	}
	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path is chosen by the operator
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
