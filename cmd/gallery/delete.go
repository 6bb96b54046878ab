package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Remove images from a collection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		page, err := collectionPage(cmd, "collection")
		if err != nil {
			return err
		}
		if err := selectIDs(cmd.Context(), page, ids); err != nil {
			return err
		}
		if err := page.DeleteSelected(cmd.Context()).Wait(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d image(s) left in %s\n", len(page.IDs()), page.Collection())
		return nil
	},
}

func init() {
	collectionFlag(deleteCmd, "collection")
}
