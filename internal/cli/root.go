package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/trackedit/internal/config"
	"github.com/yildizm/trackedit/internal/emoji"
	"github.com/yildizm/trackedit/internal/logger"
	"github.com/yildizm/trackedit/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trackedit",
		Short: "Spline editor for 2D track points",
		Long: `trackedit edits an ordered loop of 2D track points: drag points and
groups of points, re-smooth part or all of the loop with a smoothing spline,
resample it to a fixed count, and undo or redo every step.

Tracks are CSV files with x and y columns; every other column is carried
through untouched. Lane boundaries and a backdrop can be drawn behind the
track for reference.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyDisplayFlags(cmd, nil)

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			globalConfig = cfg
			applyDisplayFlags(cmd, cfg)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")

	// Add subcommands
	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newResampleCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// applyDisplayFlags resolves the emoji and verbosity settings. Flags given
// on the command line win over cfg.
func applyDisplayFlags(cmd *cobra.Command, cfg *config.Config) {
	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
		noEmoji = true
	}
	if cfg != nil {
		if !cmd.Flag("no-emoji").Changed && cfg.Output.NoEmoji {
			noEmoji = true
		}
		if !cmd.Flag("verbose").Changed && cfg.Output.Verbose {
			verbose = true
		}
	}
	// Set emoji state for all components
	emoji.SetEmojiDisabled(noEmoji)
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trackedit %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose
}

// GetGlobalConfig returns the configuration loaded for the running command,
// or the defaults before one has run.
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// getOutputFormat returns the --output flag, falling back to the configured
// default format.
func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return GetGlobalConfig().Output.DefaultFormat
}

// colorEnabled decides whether text output is styled.
func colorEnabled() bool {
	if noColor {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	}
	return !ui.IsColorDisabled()
}

// newLogger returns a component logger gated on --verbose.
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
