package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <customer> <ticket-key> <comment>",
		Short: "Append a timestamped comment to a ticket",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			rec, err := tr.AddComment(context.Background(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %d comments total\n",
				args[1], rec.Customer, rec.TotalComments)
			return nil
		},
	}

	return cmd
}
