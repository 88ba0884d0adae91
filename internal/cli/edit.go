package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yildizm/trackedit/internal/config"
	"github.com/yildizm/trackedit/internal/editor"
	"github.com/yildizm/trackedit/internal/emoji"
	"github.com/yildizm/trackedit/internal/overlay"
	"github.com/yildizm/trackedit/internal/ui"
)

var (
	editOutput  string
	editNoWatch bool
	editLogFile string
)

func newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a track in the terminal",
		Long: `Open a track in the terminal editor.

Drag a point with the mouse to move it, or drag across empty space to select
the points inside the rectangle; dragging a selected point moves the whole
selection. Press ? inside the editor for every key binding.

If no file is given, the configured input file is opened.

Examples:
  trackedit edit track.csv
  trackedit edit --out smoothed.csv track.csv
  trackedit edit -v --log-file trackedit.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().StringVar(&editOutput, "out", "", "file written on save (default: files.output from config)")
	cmd.Flags().BoolVar(&editNoWatch, "no-watch", false, "do not reload overlay files when they change")
	cmd.Flags().StringVar(&editLogFile, "log-file", "", "write log output to this file while the editor is open")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("edit")

	input := resolveInput(args, cfg)
	ps, _, err := loadTrack(input, cfg, log)
	if err != nil {
		return err
	}

	output := editOutput
	if output == "" {
		output = config.ExpandPath(cfg.Files.Output)
	}

	paths := overlayPaths(cfg)
	overlays := overlay.Load(paths, log.WithComponent("overlay"))

	var watcher *overlay.Watcher
	if cfg.Editor.WatchOverlays && !editNoWatch {
		watcher, err = overlay.NewWatcher(paths, cfg.Editor.WatchDebounce, log.WithComponent("watch"))
		if err != nil {
			log.Warn("overlay watching disabled: %v", err)
		} else {
			watcher.Start()
			defer func() { _ = watcher.Close() }()
		}
	}

	ed := editor.New(ps, editorOptions(cfg), log.WithComponent("editor"))
	if cfg.Output.Theme != "" && !ui.SetThemeByName(cfg.Output.Theme) {
		log.Warn("unknown theme %q (available: %v), using default", cfg.Output.Theme, ui.GetAvailableThemes())
	}

	err = ui.Run(ui.Options{
		Editor:        ed,
		Overlays:      overlays,
		Watcher:       watcher,
		Source:        input,
		OutputPath:    output,
		SmoothingStep: cfg.Editor.SmoothingStep,
		Render:        renderOptions(cfg),
		Log:           log,
		LogFile:       editLogFile,
	})
	if err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	if ed.Dirty() {
		fmt.Fprintf(os.Stderr, "%s Unsaved changes to %s were discarded\n", emoji.GetEmoji("warning"), input)
	}
	return nil
}
