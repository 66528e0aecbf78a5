package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempohub/tempohub-service/internal/catalog"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the event categories offered by the catalog filter",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, category := range catalog.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
		},
	}
}
