package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ngtcb",
	Short: "Template type-check metadata tool",
	Long: `ngtcb resolves the type-checking configuration of a project and assembles the
metadata driving type check block generation for its component templates.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().Bool("verbose", false, "log assembly progress to stderr")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newLogger returns the logger used by commands: debug level when --verbose is set, warnings
// only otherwise.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
