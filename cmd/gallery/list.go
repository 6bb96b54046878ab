package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the images of a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := collectionPage(cmd, "collection")
		if err != nil {
			return err
		}
		if err := page.Load(cmd.Context()).Wait(); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tTHUMB")
		for _, rec := range page.Images() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", rec.ImageID, rec.TitleText(), sess.client.ThumbURL(rec.Path))
		}
		return tw.Flush()
	},
}

func init() {
	collectionFlag(listCmd, "collection")
}
