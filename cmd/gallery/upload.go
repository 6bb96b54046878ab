package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gallery/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Convert images to WebP and upload them into a collection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := collectionPage(cmd, "collection")
		if err != nil {
			return err
		}
		before := make(map[uint32]struct{})
		if err := page.Load(cmd.Context()).Wait(); err != nil {
			return err
		}
		for _, id := range page.IDs() {
			before[id] = struct{}{}
		}
		if err := page.Upload(cmd.Context(), upload.FileSources(args...)).Wait(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, rec := range page.Images() {
			if _, ok := before[rec.ImageID]; ok {
				continue
			}
			fmt.Fprintf(out, "%d\t%s\n", rec.ImageID, sess.client.ImageURL(rec.Path))
		}
		return nil
	},
}

func init() {
	collectionFlag(uploadCmd, "collection")
}
