package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tempohub",
		Short: "TempoHub event discovery service",
		Long: `TempoHub serves the event catalog, AI-assisted event creation,
accounts and the community feed to the TempoHub web client.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCategoriesCmd())
	return root
}
