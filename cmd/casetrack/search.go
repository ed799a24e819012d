package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search indexed tickets by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			hits := tr.SearchTickets(context.Background(), args[0])
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}

			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", h.Customer, h.Key, h.CaseID, h.Title)
			}
			return nil
		},
	}

	return cmd
}
