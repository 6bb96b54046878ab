package repo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"gallery/internal/domain"
)

// Sequence hands out image ids starting at 1. It is the only source of ids on
// the server.
type Sequence struct {
	last atomic.Uint32
}

// Next returns the next id.
func (s *Sequence) Next() uint32 {
	return s.last.Add(1)
}

// Current returns the last id handed out, 0 if none.
func (s *Sequence) Current() uint32 {
	return s.last.Load()
}

// ImageRepositoryMemory implements domain.ImageRepository in process memory.
type ImageRepositoryMemory struct {
	mu     sync.RWMutex
	seq    *Sequence
	images map[uint32]domain.ImageRecord
}

// NewImageRepository creates an empty repository that owns seq. A nil seq
// gets a fresh one.
func NewImageRepository(seq *Sequence) *ImageRepositoryMemory {
	if seq == nil {
		seq = &Sequence{}
	}
	return &ImageRepositoryMemory{seq: seq, images: make(map[uint32]domain.ImageRecord)}
}

// Create registers path under a new id. The record starts ungrouped and
// without a title.
func (r *ImageRepositoryMemory) Create(ctx context.Context, path, user string) (domain.ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImageRecord{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.ImageRecord{}, errors.New("repo: image path is required")
	}
	if user == "" {
		user = domain.DefaultUser
	}
	rec := domain.ImageRecord{
		ImageID: r.seq.Next(),
		Path:    path,
		User:    user,
	}
	r.mu.Lock()
	r.images[rec.ImageID] = rec
	r.mu.Unlock()
	return rec, nil
}

// Get fetches a record by id.
func (r *ImageRepositoryMemory) Get(ctx context.Context, imageID uint32) (domain.ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImageRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.images[imageID]
	if !ok {
		return domain.ImageRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// UpdateTitle replaces the caption of imageID.
func (r *ImageRepositoryMemory) UpdateTitle(ctx context.Context, imageID uint32, title *string) (domain.ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImageRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.images[imageID]
	if !ok {
		return domain.ImageRecord{}, domain.ErrNotFound
	}
	if title != nil {
		t := *title
		title = &t
	}
	rec.Title = title
	r.images[imageID] = rec
	return rec, nil
}

// List returns every record ordered by id.
func (r *ImageRepositoryMemory) List(ctx context.Context) ([]domain.ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.ImageRecord, 0, len(r.images))
	for _, rec := range r.images {
		out = append(out, rec)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ImageID < out[j].ImageID })
	return out, nil
}
