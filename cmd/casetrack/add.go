package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "add <customer> <ticket-key>...",
		Short: "Add tickets to a customer's record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customer := args[0]
			keys := args[1:]

			tr, err := openTracker()
			if err != nil {
				return err
			}

			rec, err := tr.AddTickets(context.Background(), customer, keys, notes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tickets, %d comments\n",
				rec.Customer, rec.TotalTickets, rec.TotalComments)
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Replace the customer's notes")

	return cmd
}
