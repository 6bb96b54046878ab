package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gallery/internal/adapter/repo"
	"gallery/internal/domain"
	"gallery/internal/http/handlers"
	httpapi "gallery/internal/http/httpapi"
	"gallery/internal/infra"
	"gallery/internal/metrics"
	"gallery/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx := context.Background()
	store, err := storage.Open(ctx, storage.Config{
		Backend: cfg.StorageBackend,
		Path:    cfg.StoragePath,
		URL:     cfg.StorageURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	collections := make(map[domain.Collection]domain.CollectionRepository)
	for _, c := range domain.Collections() {
		collections[c] = repo.NewCollectionRepository()
	}
	images := repo.NewImageRepository(&repo.Sequence{})

	app := handlers.NewApp(cfg, logger, images, collections, store, metrics.New("gallery"))
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("storage", cfg.StorageBackend).
			Str("web_root", cfg.WebRoot).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
