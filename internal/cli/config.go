package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/trackedit/internal/config"
	"github.com/yildizm/trackedit/internal/emoji"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage trackedit configuration",
		Long: `Manage trackedit configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
		// Config subcommands load the configuration themselves so that an
		// invalid file can be reported instead of aborting the command.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyDisplayFlags(cmd, nil)
			return nil
		},
	}

	// Add subcommands
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new trackedit configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  trackedit config init

  # Create minimal config
  trackedit config init --minimal

  # Create config at specific path
  trackedit config init --file ~/.config/trackedit/config.yaml

  # Overwrite existing config
  trackedit config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine output path
			if outputPath == "" {
				outputPath = ".trackedit.yaml"
			}
			outputPath = config.ExpandPath(outputPath)

			// Check if file exists and not forcing
			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			// Create directory if needed
			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
			if minimal {
				fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", emoji.GetEmoji("info"))
			} else {
				fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", emoji.GetEmoji("info"))
			}

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "file", "f", "", "path of the new config file (default: .trackedit.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the configuration resulting from the defaults, config files, and
environment variable overrides.`,
		Example: `  # Show config in YAML format
  trackedit config show

  # Show config in JSON format
  trackedit config show --format json

  # Show config from specific file
  trackedit config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a trackedit configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- Smoothing and pick radius ranges
- Valid values for enums
- Proper data types`,
		Example: `  # Validate current config
  trackedit config validate

  # Validate specific config file
  trackedit config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))

			// Show some basic info about the config
			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("statistics"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Input: %s\n", cfg.Files.Input)
			fmt.Fprintf(out, "   Output: %s\n", cfg.Files.Output)
			fmt.Fprintf(out, "   Smoothing: %g\n", cfg.Editor.Smoothing)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			fmt.Fprintf(out, "   Overlays: %d configured\n", countOverlays(cfg))

			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths trackedit searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  trackedit config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration file search paths (in priority order):")
			fmt.Fprintln(out)

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := fmt.Sprintf(" %s (not found)", emoji.GetEmoji("cancel"))
				if fileExists(path) {
					exists = fmt.Sprintf(" %s (exists)", emoji.GetEmoji("success"))
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			// Show current config file being used
			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "Current config file: %s\n", currentConfig)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Environment variables with %s prefix will override file settings\n",
				emoji.GetEmoji("info"), config.EnvPrefix)
		},
	}

	return pathCmd
}

func countOverlays(cfg *config.Config) int {
	n := 0
	for _, p := range []string{cfg.Files.InnerLane, cfg.Files.OuterLane, cfg.Files.Background} {
		if p != "" {
			n++
		}
	}
	return n
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
