package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the global index from customer records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := tr.RebuildIndex(ctx); err != nil {
				return err
			}

			stats := tr.Stats(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d customers, %d tickets, %d cases\n",
				stats.TotalCustomers, stats.TotalTickets, stats.TotalCases)
			return nil
		},
	}

	return cmd
}
