package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for casetrack over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			server := mcp.NewServer(tr, newLogger())
			return server.Run(context.Background())
		},
	}

	return cmd
}
