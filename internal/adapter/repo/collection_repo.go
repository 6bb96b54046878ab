package repo

import (
	"context"
	"sync"

	"gallery/internal/domain"
)

// CollectionRepositoryMemory implements domain.CollectionRepository for one
// collection. Entries keep insertion order and each image id appears at most
// once.
type CollectionRepositoryMemory struct {
	mu      sync.RWMutex
	entries []domain.ImageRecord
	index   map[uint32]struct{}
}

// NewCollectionRepository creates an empty collection.
func NewCollectionRepository() *CollectionRepositoryMemory {
	return &CollectionRepositoryMemory{index: make(map[uint32]struct{})}
}

// Add stores records under foreignID and returns the ids that were new.
func (r *CollectionRepositoryMemory) Add(ctx context.Context, foreignID uint32, records []domain.ImageRecord) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	added := make([]uint32, 0, len(records))
	for _, rec := range records {
		if _, dup := r.index[rec.ImageID]; dup {
			continue
		}
		rec.ForeignID = foreignID
		r.entries = append(r.entries, rec)
		r.index[rec.ImageID] = struct{}{}
		added = append(added, rec.ImageID)
	}
	return added, nil
}

// ListByForeignID returns the entries owned by foreignID in insertion order.
func (r *CollectionRepositoryMemory) ListByForeignID(ctx context.Context, foreignID uint32) ([]domain.ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ImageRecord, 0, len(r.entries))
	for _, rec := range r.entries {
		if rec.ForeignID == foreignID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Remove deletes imageIDs and returns the ones that were present.
func (r *CollectionRepositoryMemory) Remove(ctx context.Context, imageIDs []uint32) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	drop := make(map[uint32]struct{}, len(imageIDs))
	for _, id := range imageIDs {
		drop[id] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := make([]uint32, 0, len(imageIDs))
	kept := r.entries[:0]
	for _, rec := range r.entries {
		if _, ok := drop[rec.ImageID]; ok {
			removed = append(removed, rec.ImageID)
			delete(r.index, rec.ImageID)
			continue
		}
		kept = append(kept, rec)
	}
	clear(r.entries[len(kept):])
	r.entries = kept
	return removed, nil
}

// Len reports the number of entries.
func (r *CollectionRepositoryMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
