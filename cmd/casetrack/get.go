package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <customer>",
		Short: "Show a customer's ticket record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			rec := tr.GetCustomerTickets(context.Background(), args[0])

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(rec)
		},
	}

	return cmd
}
