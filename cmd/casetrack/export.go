package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		format      string
		includeInfo bool
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "export <customer>",
		Short: "Export a customer's record as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			result, err := tr.Export(context.Background(), args[0], format, includeInfo, !noSave)
			if err != nil {
				return err
			}

			if result.Path != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "saved to", result.Path)
			}
			fmt.Fprint(cmd.OutOrStdout(), result.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatMarkdown, "Export format")
	cmd.Flags().BoolVar(&includeInfo, "include-info", false, "Include external ticket info from the issue tracker")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the document without writing a file")

	return cmd
}
