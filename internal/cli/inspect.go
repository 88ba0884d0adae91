package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/trackedit/internal/formatter"
	"github.com/yildizm/trackedit/internal/overlay"
)

var inspectOutputFile string

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarise a track and its overlays",
		Long: `Print the size, bounds, perimeter and numeric column ranges of a track,
together with the state of the configured overlay files.

The output format follows --output (text, json, markdown or csv).

Examples:
  trackedit inspect track.csv
  trackedit inspect -o json track.csv
  trackedit inspect -o markdown --output-file report.md track.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().StringVar(&inspectOutputFile, "output-file", "", "save output to file instead of stdout")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("inspect")

	f, err := formatter.New(getOutputFormat(), colorEnabled())
	if err != nil {
		return err
	}

	input := resolveInput(args, cfg)
	ps, stats, err := loadTrack(input, cfg, log)
	if err != nil {
		return err
	}

	overlays := overlay.Load(overlayPaths(cfg), log.WithComponent("overlay"))
	inspection := &formatter.Inspection{
		Source:    input,
		Summary:   ps.Summarize(),
		Stats:     stats,
		Overlays:  describeOverlays(overlays),
		Smoothing: cfg.Editor.Smoothing,
	}

	output, err := f.Format(inspection)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), output, inspectOutputFile)
}

func describeOverlays(s *overlay.Set) []formatter.OverlayInfo {
	layers := s.Layers()
	infos := make([]formatter.OverlayInfo, 0, len(layers))
	for _, l := range layers {
		info := formatter.OverlayInfo{
			Kind:   string(l.Kind),
			Path:   l.Path,
			Points: len(l.Points),
		}
		if l.Err != nil {
			info.Error = l.Err.Error()
		}
		infos = append(infos, info)
	}
	return infos
}
