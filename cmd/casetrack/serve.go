package main

import (
	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/internal/config"
	"github.com/casetrack/casetrack/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := openTracker()
			if err != nil {
				return err
			}

			srv := httpapi.NewServer(tr, config.GetAPIKey(), config.RequireAuth(), newLogger())
			return srv.ListenAndServe(port)
		},
	}

	cmd.Flags().StringVar(&port, "port", config.GetPort(), "Port to listen on")

	return cmd
}
