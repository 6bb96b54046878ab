package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"gallery/internal/domain"
	"gallery/internal/infra"
	"gallery/internal/metrics"
	"gallery/internal/storage"
)

type App struct {
	Config      *infra.Config
	Logger      zerolog.Logger
	Images      domain.ImageRepository
	Collections map[domain.Collection]domain.CollectionRepository
	Store       storage.Store
	Metrics     *metrics.Metrics
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, images domain.ImageRepository, collections map[domain.Collection]domain.CollectionRepository, store storage.Store, m *metrics.Metrics) *App {
	return &App{
		Config:      cfg,
		Logger:      logger,
		Images:      images,
		Collections: collections,
		Store:       store,
		Metrics:     m,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// raw writes a prebuilt body.
func (a *App) raw(w http.ResponseWriter, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// fail maps err onto the error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		tooLarge *http.MaxBytesError
		bad      badRequest
	)
	switch {
	case errors.As(err, &tooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.As(err, &bad):
		a.error(w, http.StatusBadRequest, "bad_request", bad.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrUnknownCollection):
		a.error(w, http.StatusNotFound, "unknown_collection", err.Error())
	case errors.Is(err, domain.ErrInvalidPath):
		a.error(w, http.StatusBadRequest, "invalid_path", err.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		a.error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		a.error(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// badRequest marks client input errors.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func (a *App) defaultUser() string {
	if a.Config != nil && a.Config.DefaultUser != "" {
		return a.Config.DefaultUser
	}
	return domain.DefaultUser
}

func (a *App) collection(name string) (domain.Collection, domain.CollectionRepository, error) {
	coll, err := domain.ParseCollection(name)
	if err != nil {
		return "", nil, err
	}
	repo, ok := a.Collections[coll]
	if !ok {
		return "", nil, domain.ErrUnknownCollection
	}
	return coll, repo, nil
}
