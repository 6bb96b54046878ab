package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var captionCmd = &cobra.Command{
	Use:   "caption ID [TITLE...]",
	Short: "Set the title of an image; no title clears it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[:1])
		if err != nil {
			return err
		}
		page, err := collectionPage(cmd, "collection")
		if err != nil {
			return err
		}
		if err := page.Load(cmd.Context()).Wait(); err != nil {
			return err
		}
		if !page.Contains(ids[0]) {
			return fmt.Errorf("image %d is not in collection %s", ids[0], page.Collection())
		}
		title := strings.Join(args[1:], " ")
		if err := page.EditTitle(cmd.Context(), ids[0], title).Wait(); err != nil {
			return err
		}
		for _, rec := range page.Images() {
			if rec.ImageID == ids[0] {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%q\n", rec.ImageID, rec.TitleText())
			}
		}
		return nil
	},
}

func init() {
	collectionFlag(captionCmd, "collection")
}
