// Package upload prepares user files for the gallery server: every file is
// decoded and re-encoded on the client, named with a fresh asset id and sent
// in a single multipart request per batch.
package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gallery/internal/domain"
)

// ErrNoFiles is returned when a batch is started with nothing selected.
var ErrNoFiles = errors.New("upload: no files selected")

// Poster sends a packed request and returns the records the server created.
// Implementations report transport failures as *client.TransferError.
type Poster interface {
	PostImages(ctx context.Context, req *UploadRequest) ([]domain.ImageRecord, error)
}

// Options configures a Batch.
type Options struct {
	Poster Poster
	Unit   Unit
	Logger *zerolog.Logger
}

// Batch uploads a set of files all-or-nothing.
type Batch struct {
	poster Poster
	unit   Unit
	log    zerolog.Logger
}

// NewBatch builds a batch orchestrator.
func NewBatch(opts Options) *Batch {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "upload").Logger()
	}
	return &Batch{poster: opts.Poster, unit: opts.Unit, log: log}
}

// UploadAll encodes srcs one at a time in order and posts them in one
// request. Any decode or read failure aborts the batch before the network is
// touched; cancellation of ctx is honored between files.
func (b *Batch) UploadAll(ctx context.Context, srcs []Source) ([]domain.ImageRecord, error) {
	if len(srcs) == 0 {
		return nil, ErrNoFiles
	}
	if b.poster == nil {
		return nil, errors.New("upload: poster not configured")
	}

	started := time.Now()
	items := make([]Prepared, 0, len(srcs))
	for i, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := b.unit.Prepare(ctx, src)
		if err != nil {
			b.log.Warn().Err(err).Int("index", i).Str("file", src.Name()).Msg("prepare failed")
			return nil, fmt.Errorf("upload: file %d: %w", i+1, err)
		}
		b.log.Debug().
			Str("file", src.Name()).
			Str("path", p.Path()).
			Int("width", p.Asset.MainWidth).
			Int("height", p.Asset.MainHeight).
			Int("main_bytes", len(p.Asset.Main)).
			Int("thumb_bytes", len(p.Asset.Thumb)).
			Msg("prepared")
		items = append(items, p)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := NewUploadRequest(items)
	if err != nil {
		return nil, err
	}
	records, err := b.poster.PostImages(ctx, req)
	if err != nil {
		return nil, err
	}
	b.log.Info().
		Int("files", len(items)).
		Int("bytes", req.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("batch uploaded")
	return records, nil
}
