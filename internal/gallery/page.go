package gallery

import (
	"context"
	"fmt"
	"sync"

	"gallery/internal/domain"
	"gallery/internal/loader"
	"gallery/internal/upload"
)

// Page is one collection as seen by the client: the ordered ids the server
// returned on the last load and the user's current selection.
type Page struct {
	app       *App
	coll      domain.Collection
	foreignID uint32

	mu       sync.Mutex
	order    []uint32
	selected map[uint32]struct{}
	loaded   bool
}

func newPage(app *App, coll domain.Collection, foreignID uint32) *Page {
	return &Page{
		app:       app,
		coll:      coll,
		foreignID: foreignID,
		selected:  make(map[uint32]struct{}),
	}
}

func (p *Page) Collection() domain.Collection { return p.coll }

// Loaded reports whether a load has completed since the last invalidation.
func (p *Page) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// IDs returns the page's image ids in server order.
func (p *Page) IDs() []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint32(nil), p.order...)
}

// Images resolves the page's ids against the store.
func (p *Page) Images() []domain.ImageRecord {
	return p.app.store.Lookup(p.IDs())
}

// Contains reports whether id is on the page.
func (p *Page) Contains(id uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range p.order {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle flips the selection of id and reports whether it is now selected.
// Ids that are not on the page cannot be selected.
func (p *Page) Toggle(id uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.selected[id]; ok {
		delete(p.selected, id)
		return false
	}
	for _, v := range p.order {
		if v == id {
			p.selected[id] = struct{}{}
			return true
		}
	}
	return false
}

// Selected returns the selected ids in page order.
func (p *Page) Selected() []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedLocked()
}

func (p *Page) selectedLocked() []uint32 {
	out := make([]uint32, 0, len(p.selected))
	for _, id := range p.order {
		if _, ok := p.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (p *Page) ClearSelection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.selected)
}

// CopySelection moves the selection onto the shared clipboard and returns the
// number of ids copied. An empty selection leaves the clipboard untouched.
func (p *Page) CopySelection() int {
	p.mu.Lock()
	ids := p.selectedLocked()
	clear(p.selected)
	p.mu.Unlock()
	if len(ids) == 0 {
		return 0
	}
	p.app.clipboard.Set(ids)
	return len(ids)
}

// Load fetches the collection from the server.
func (p *Page) Load(ctx context.Context) *loader.Task {
	return p.app.run(ctx, "load "+string(p.coll), p.reload)
}

// Upload sends files as one batch, adds the new records to this collection
// and reloads.
func (p *Page) Upload(ctx context.Context, srcs []upload.Source) *loader.Task {
	return p.app.run(ctx, "upload", func(ctx context.Context) error {
		records, err := p.app.batch.UploadAll(ctx, srcs)
		if err != nil {
			return err
		}
		p.app.store.Put(records...)
		if _, err := p.app.api.AddToCollection(ctx, p.coll, records); err != nil {
			return err
		}
		p.invalidate()
		return p.reload(ctx)
	})
}

// Paste adds the clipboard entries that are not on the page yet.
func (p *Page) Paste(ctx context.Context) *loader.Task {
	return p.app.run(ctx, "paste", func(ctx context.Context) error {
		var ids []uint32
		for _, id := range p.app.clipboard.IDs() {
			if !p.Contains(id) {
				ids = append(ids, id)
			}
		}
		records := p.app.store.Lookup(ids)
		if len(records) == 0 {
			return nil
		}
		if _, err := p.app.api.AddToCollection(ctx, p.coll, records); err != nil {
			return err
		}
		p.invalidate()
		return p.reload(ctx)
	})
}

// DeleteSelected removes the selected ids from the collection. The selection
// is cleared as soon as the task starts.
func (p *Page) DeleteSelected(ctx context.Context) *loader.Task {
	p.mu.Lock()
	ids := p.selectedLocked()
	clear(p.selected)
	p.mu.Unlock()

	return p.app.run(ctx, "delete", func(ctx context.Context) error {
		if len(ids) == 0 {
			return ErrNothingSelected
		}
		if _, err := p.app.api.RemoveFromCollection(ctx, p.coll, ids); err != nil {
			return err
		}
		p.invalidate()
		return p.reload(ctx)
	})
}

// EditTitle sets the caption of id. A blank title clears it.
func (p *Page) EditTitle(ctx context.Context, id uint32, title string) *loader.Task {
	return p.app.run(ctx, "edit title", func(ctx context.Context) error {
		rec, ok := p.app.store.Get(id)
		if !ok {
			return fmt.Errorf("image %d: %w", id, domain.ErrNotFound)
		}
		updated, err := p.app.api.UpdateImage(ctx, rec.WithTitle(title))
		if err != nil {
			return err
		}
		p.app.store.Put(updated)
		return p.reload(ctx)
	})
}

func (p *Page) invalidate() {
	p.mu.Lock()
	p.loaded = false
	p.mu.Unlock()
}

func (p *Page) reload(ctx context.Context) error {
	records, err := p.app.api.ListCollection(ctx, p.coll, p.foreignID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.app.store.Put(records...)

	order := make([]uint32, 0, len(records))
	present := make(map[uint32]struct{}, len(records))
	for _, r := range records {
		order = append(order, r.ImageID)
		present[r.ImageID] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = order
	for id := range p.selected {
		if _, ok := present[id]; !ok {
			delete(p.selected, id)
		}
	}
	p.loaded = true
	p.app.log.Debug().Str("collection", string(p.coll)).Int("images", len(order)).Msg("page loaded")
	return nil
}
