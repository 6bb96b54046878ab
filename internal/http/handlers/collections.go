package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gallery/internal/domain"
)

// ListCollection returns the entries of a collection for one foreign id, with
// titles taken from the image table where the image exists.
func (a *App) ListCollection(w http.ResponseWriter, r *http.Request) {
	_, repo, err := a.collection(chi.URLParam(r, "collection"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	foreignID, err := strconv.ParseUint(chi.URLParam(r, "foreignId"), 10, 32)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "foreign id must be an unsigned integer")
		return
	}
	entries, err := repo.ListByForeignID(r.Context(), uint32(foreignID))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	for i := range entries {
		img, err := a.Images.Get(r.Context(), entries[i].ImageID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			a.fail(w, r, err)
			return
		}
		entries[i].Title = img.Title
	}
	a.json(w, http.StatusOK, entries)
}

// AddToCollection inserts the posted records with the default foreign id.
// Known image ids are stored as the image table holds them; unknown ones are
// first registered under a fresh id. Returns the ids actually added.
func (a *App) AddToCollection(w http.ResponseWriter, r *http.Request) {
	coll, repo, err := a.collection(chi.URLParam(r, "collection"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var records []domain.ImageRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		a.fail(w, r, decodeError(err))
		return
	}

	ctx := r.Context()
	for i, rec := range records {
		if rec.ImageID != 0 {
			img, err := a.Images.Get(ctx, rec.ImageID)
			if err == nil {
				records[i] = img
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				a.fail(w, r, err)
				return
			}
		}
		if strings.TrimSpace(rec.Path) == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "path is required for unknown images")
			return
		}
		user := rec.User
		if user == "" {
			user = a.defaultUser()
		}
		created, err := a.Images.Create(ctx, rec.Path, user)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.Metrics.ObserveImageCreated()
		if rec.Title != nil {
			if created, err = a.Images.UpdateTitle(ctx, created.ImageID, rec.WithTitle(*rec.Title).Title); err != nil {
				a.fail(w, r, err)
				return
			}
		}
		records[i] = created
	}

	added, err := repo.Add(ctx, domain.DefaultForeignID, records)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Metrics.SetCollectionSize(string(coll), repo.Len())
	a.json(w, http.StatusOK, added)
}

// RemoveFromCollection deletes the posted ids and returns those that were present.
func (a *App) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	coll, repo, err := a.collection(chi.URLParam(r, "collection"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var ids []uint32
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		a.fail(w, r, decodeError(err))
		return
	}
	removed, err := repo.Remove(r.Context(), ids)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Metrics.SetCollectionSize(string(coll), repo.Len())
	a.json(w, http.StatusOK, removed)
}

func decodeError(err error) error {
	return badRequest{err: fmt.Errorf("invalid payload: %w", err)}
}
