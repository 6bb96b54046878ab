package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE.zip",
	Short: "Download the main images of a collection as a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := collectionPage(cmd, "collection")
		if err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := sess.client.DownloadArchive(cmd.Context(), page.Collection(), sess.cfg.ForeignID, f); err != nil {
			f.Close()
			_ = os.Remove(args[0])
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

func init() {
	collectionFlag(exportCmd, "collection")
}
