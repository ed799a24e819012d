package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <customer> <ticket-key>...",
		Short: "Remove tickets from a customer's record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			rec, err := tr.RemoveTickets(context.Background(), args[0], args[1:])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tickets remaining\n",
				rec.Customer, rec.TotalTickets)
			return nil
		},
	}

	return cmd
}
