package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/trackedit/internal/config"
	"github.com/yildizm/trackedit/internal/editor"
	"github.com/yildizm/trackedit/internal/emoji"
	"github.com/yildizm/trackedit/internal/logger"
)

var (
	resampleOut       string
	resampleSmoothing float64
	resampleAnchor    int
	resampleCount     int
	resampleYes       bool
)

func newResampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resample",
		Short: "Resample a track without opening the editor",
		Long: `Apply one of the editor's resampling operations to a track file and
write the result.

  all     re-smooth the whole loop, keeping the number of points
  range   re-smooth the points around one point, in place
  sample  replace the track with an even sampling of its closed curve`,
	}

	cmd.PersistentFlags().StringVar(&resampleOut, "out", "", "output file (default: files.output from config)")
	cmd.PersistentFlags().Float64Var(&resampleSmoothing, "smoothing", -1, "smoothing factor, 0..10 (default: editor.smoothing from config)")

	cmd.AddCommand(newResampleAllCommand())
	cmd.AddCommand(newResampleRangeCommand())
	cmd.AddCommand(newResampleSampleCommand())

	return cmd
}

func newResampleAllCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all [file]",
		Short: "Re-smooth the whole track",
		Long: `Fit a closed smoothing spline through every point and replace the track
with the same number of points sampled evenly along it. Every new point takes
the attributes of the nearest original point.

Every point is replaced, so the command asks first unless --yes is given.`,
		Example: `  trackedit resample all --smoothing 2 track.csv
  trackedit resample all --yes --out smooth.csv track.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(cmd, args, func(ed *editor.Editor) (editor.Report, error) {
				confirmed := resampleYes
				if !confirmed {
					prompt := fmt.Sprintf("Resample all %d points? Every point is replaced. [y/N] ", ed.Points().Len())
					confirmed = confirm(cmd, prompt)
				}
				return ed.ResampleAll(confirmed)
			})
		},
	}

	cmd.Flags().BoolVarP(&resampleYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newResampleRangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range [file]",
		Short: "Re-smooth the points around one point",
		Long: `Fit an open smoothing spline through the window of points centred on the
anchor point and move those points onto it. The window reaches
editor.window_radius points to either side, wrapping around the loop.`,
		Example: `  trackedit resample range --anchor 42 track.csv`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(cmd, args, func(ed *editor.Editor) (editor.Report, error) {
				if err := ed.SetAnchor(resampleAnchor); err != nil {
					return editor.Report{}, err
				}
				return ed.ResampleRange()
			})
		},
	}

	cmd.Flags().IntVar(&resampleAnchor, "anchor", 0, "index of the point the window is centred on")
	_ = cmd.MarkFlagRequired("anchor")
	return cmd
}

func newResampleSampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [file]",
		Short: "Replace the track with an even sampling of its curve",
		Long: `Fit a closed spline through every point and replace the track with
--count points spaced evenly along it. Every new point takes the attributes
of the nearest original point.`,
		Example: `  trackedit resample sample --count 200 track.csv`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(cmd, args, func(ed *editor.Editor) (editor.Report, error) {
				return ed.SampleCurve(resampleCount)
			})
		},
	}

	cmd.Flags().IntVar(&resampleCount, "count", 0, "number of points (default: editor.sample_count from config)")
	return cmd
}

// runResample loads the track, applies op and saves the result. A declined
// confirmation is reported and is not an error.
func runResample(cmd *cobra.Command, args []string, op func(*editor.Editor) (editor.Report, error)) error {
	cfg := GetGlobalConfig()
	log := newLogger("resample")

	input := resolveInput(args, cfg)
	ps, _, err := loadTrack(input, cfg, log)
	if err != nil {
		return err
	}

	ed := editor.New(ps, editorOptions(cfg), log.WithComponent("editor"))
	if cmd.Flag("smoothing").Changed {
		ed.SetSmoothing(resampleSmoothing)
	}
	log.DebugWithFields("resampling", []logger.Field{logger.Points(ps.Len()), logger.Smoothing(ed.Smoothing())})

	out := cmd.OutOrStdout()
	rep, err := op(ed)
	if err != nil {
		if editor.IsInformational(err) {
			fmt.Fprintf(out, "%s %v\n", emoji.GetEmoji("info"), err)
			return nil
		}
		return err
	}

	output := resampleOut
	if output == "" {
		output = config.ExpandPath(cfg.Files.Output)
	}
	saved, err := ed.SaveFile(output)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("resample"), rep.Message)
	fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("save"), saved.Message)
	return nil
}

// confirm asks prompt on the command's output and reads a yes/no answer from
// its input. Anything but y or yes, including end of input, is a no.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
