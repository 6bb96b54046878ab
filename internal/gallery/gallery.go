// Package gallery holds the client-side state of the two collections and
// drives every server interaction through a single cancelable task runner.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gallery/internal/domain"
	"gallery/internal/loader"
	"gallery/internal/upload"
)

// API is the subset of the HTTP client the gallery needs.
type API interface {
	upload.Poster
	ListCollection(ctx context.Context, coll domain.Collection, foreignID uint32) ([]domain.ImageRecord, error)
	AddToCollection(ctx context.Context, coll domain.Collection, records []domain.ImageRecord) ([]uint32, error)
	RemoveFromCollection(ctx context.Context, coll domain.Collection, ids []uint32) ([]uint32, error)
	UpdateImage(ctx context.Context, rec domain.ImageRecord) (domain.ImageRecord, error)
}

type Options struct {
	API       API
	Batch     *upload.Batch
	ForeignID uint32
	Logger    *zerolog.Logger
	// OnError receives failures of the latest task; cancellations are dropped.
	OnError func(error)
}

// App owns the record store, the shared clipboard and one page per collection.
type App struct {
	api       API
	batch     *upload.Batch
	store     *Store
	clipboard *Clipboard
	runner    *loader.Runner
	pages     map[domain.Collection]*Page
	log       zerolog.Logger
}

func NewApp(opts Options) *App {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "gallery").Logger()
	}
	batch := opts.Batch
	if batch == nil {
		batch = upload.NewBatch(upload.Options{Poster: opts.API, Logger: opts.Logger})
	}
	foreignID := opts.ForeignID
	if foreignID == 0 {
		foreignID = domain.DefaultForeignID
	}
	a := &App{
		api:       opts.API,
		batch:     batch,
		store:     NewStore(),
		clipboard: &Clipboard{},
		runner:    loader.NewRunner(loader.Options{Logger: opts.Logger, OnError: opts.OnError}),
		pages:     make(map[domain.Collection]*Page),
		log:       log,
	}
	for _, c := range domain.Collections() {
		a.pages[c] = newPage(a, c, foreignID)
	}
	return a
}

// Page returns the state of coll, or nil for an unknown collection.
func (a *App) Page(coll domain.Collection) *Page { return a.pages[coll] }

func (a *App) Store() *Store { return a.store }

func (a *App) Clipboard() *Clipboard { return a.clipboard }

// Busy reports whether a task is in flight.
func (a *App) Busy() bool { return a.runner.Busy() }

// Subscribe observes the busy state.
func (a *App) Subscribe() (<-chan bool, func()) { return a.runner.Subscribe() }

// Cancel aborts the task in flight.
func (a *App) Cancel() { a.runner.Cancel() }

// ErrNothingSelected is returned by operations that need a selection.
var ErrNothingSelected = errors.New("gallery: nothing selected")

func (a *App) run(ctx context.Context, op string, fn loader.Func) *loader.Task {
	return a.runner.Run(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}
