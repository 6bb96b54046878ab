package gallery

import (
	"sort"
	"sync"

	"gallery/internal/domain"
)

// Store is the client's single source of truth for image records, keyed by
// image id. Pages and the clipboard only hold ids.
type Store struct {
	mu      sync.RWMutex
	records map[uint32]domain.ImageRecord
}

func NewStore() *Store {
	return &Store{records: make(map[uint32]domain.ImageRecord)}
}

// Put inserts or replaces records.
func (s *Store) Put(recs ...domain.ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		s.records[r.ImageID] = r
	}
}

func (s *Store) Get(id uint32) (domain.ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// Lookup returns the records for ids in order, skipping unknown ids.
func (s *Store) Lookup(ids []uint32) []domain.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ImageRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.records[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// IDs lists every known id in ascending order.
func (s *Store) IDs() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint32, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clipboard carries copied ids between pages.
type Clipboard struct {
	mu  sync.Mutex
	ids []uint32
}

// Set replaces the clipboard content.
func (c *Clipboard) Set(ids []uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids[:0:0], ids...)
}

func (c *Clipboard) IDs() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint32(nil), c.ids...)
}

func (c *Clipboard) Clear() { c.Set(nil) }

func (c *Clipboard) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids) == 0
}
