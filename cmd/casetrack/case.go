package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case <case-id>",
		Short: "Show indexed info for a case ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			entry, err := tr.CaseInfo(context.Background(), args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(entry)
		},
	}

	return cmd
}

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List all indexed case IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			for _, id := range tr.AllCaseIDs(context.Background()) {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	return cmd
}
