package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <customer> <notes>",
		Short: "Replace a customer's notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			rec, err := tr.UpdateNotes(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "notes updated for %s\n", rec.Customer)
			return nil
		},
	}

	return cmd
}
