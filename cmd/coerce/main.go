package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reoring/coerce/i18n"
)

var rootCmd = &cobra.Command{
	Use:   "coerce",
	Short: "Coerce loosely formatted text into schema-shaped values",
	Long: `coerce reads model output (or any loosely formatted text) and coerces it
against a JSON Schema, reporting every fix-up it had to make.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cmd.Flags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		if err := setupColor(mode); err != nil {
			return err
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		setupLogger(verbose)
		lang, err := cmd.Flags().GetString("lang")
		if err != nil {
			return fmt.Errorf("failed to get lang flag: %w", err)
		}
		if lang != "" {
			i18n.SetLanguage(lang)
		}
		return nil
	},
}

func main() {
	rootCmd.Version = Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug information to stderr")
	rootCmd.PersistentFlags().String("lang", "", "diagnostic message language (en|ja)")
	rootCmd.PersistentFlags().String("config", "", "path to a coerce.toml config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupColor(mode string) error {
	switch strings.ToLower(mode) {
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
