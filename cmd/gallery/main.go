package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gallery/internal/client"
	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/gallery"
)

// session is the state shared by every subcommand.
type session struct {
	cfg    config.Config
	log    zerolog.Logger
	client *client.Client
	app    *gallery.App
}

var sess session

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Upload images and manage the gallery collections",
	Long: strings.TrimSpace(`
Command line front end of the gallery server. Images are converted to WebP
locally, uploaded in one batch and grouped into the "first" and "second"
collections.
`),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if v, _ := cmd.Flags().GetString("server"); v != "" {
			cfg.Server = v
		}
		if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
			cfg.Timeout = v
		}
		if v, _ := cmd.Flags().GetString("log-level"); v != "" {
			cfg.LogLevel = v
		}

		lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(lvl).
			With().
			Timestamp().
			Logger()

		api := client.New(client.Options{BaseURL: cfg.Server, Timeout: cfg.Timeout, Logger: &log})
		sess = session{
			cfg:    cfg,
			log:    log,
			client: api,
			app:    gallery.NewApp(gallery.Options{API: api, ForeignID: cfg.ForeignID, Logger: &log}),
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "gallery server base URL (default $GALLERY_SERVER or "+config.DefaultServer+")")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per request timeout")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(uploadCmd, listCmd, copyCmd, deleteCmd, captionCmd, exportCmd)
}

func collectionFlag(cmd *cobra.Command, name string) {
	cmd.Flags().StringP(name, string(name[0]), string(domain.CollectionFirst), "collection (first or second)")
}

func collectionPage(cmd *cobra.Command, flag string) (*gallery.Page, error) {
	v, _ := cmd.Flags().GetString(flag)
	coll, err := domain.ParseCollection(v)
	if err != nil {
		return nil, err
	}
	return sess.app.Page(coll), nil
}

func parseIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid image id %q", a)
		}
		ids = append(ids, uint32(v))
	}
	return ids, nil
}

// selectIDs loads page and selects ids, which must all be on it.
func selectIDs(ctx context.Context, page *gallery.Page, ids []uint32) error {
	if err := page.Load(ctx).Wait(); err != nil {
		return err
	}
	page.ClearSelection()
	for _, id := range ids {
		if !page.Toggle(id) {
			return fmt.Errorf("image %d is not in collection %s", id, page.Collection())
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
