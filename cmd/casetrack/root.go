package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/internal/config"
	"github.com/casetrack/casetrack/internal/index"
	"github.com/casetrack/casetrack/internal/jira"
	"github.com/casetrack/casetrack/internal/store"
	"github.com/casetrack/casetrack/internal/tracker"
)

var rootCmd = &cobra.Command{
	Use:   "casetrack",
	Short: "casetrack - A customer support ticket tracker",
	Long:  "casetrack keeps per-customer ticket records as JSON documents with a rebuildable global index for case lookups.",
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newCommentCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCaseCmd())
	rootCmd.AddCommand(newCasesCmd())
	rootCmd.AddCommand(newRebuildCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newServeCmd())
}

// newLogger builds the CLI logger. Logs go to stderr so stdout stays clean
// for command output and the MCP stdio transport.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openTracker() (*tracker.Tracker, error) {
	logger := newLogger()
	st, err := store.Open(config.GetDataDir(), logger)
	if err != nil {
		return nil, err
	}
	ix := index.Open(st, logger)
	return tracker.New(st, ix, jira.NewStubProvider(), logger), nil
}
