package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy ID...",
	Short: "Copy images from one collection into another",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		from, err := collectionPage(cmd, "from")
		if err != nil {
			return err
		}
		to, err := collectionPage(cmd, "to")
		if err != nil {
			return err
		}
		if from == to {
			return fmt.Errorf("source and target collection are both %s", from.Collection())
		}
		if err := selectIDs(cmd.Context(), from, ids); err != nil {
			return err
		}
		n := from.CopySelection()
		if err := to.Load(cmd.Context()).Wait(); err != nil {
			return err
		}
		if err := to.Paste(cmd.Context()).Wait(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d image(s) to %s\n", n, to.Collection())
		return nil
	},
}

func init() {
	copyCmd.Flags().String("from", "first", "source collection")
	copyCmd.Flags().String("to", "second", "target collection")
}
