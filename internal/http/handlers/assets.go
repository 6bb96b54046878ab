package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gallery/internal/assetid"
	"gallery/internal/storage"
)

const immutableCache = "public, max-age=31536000, immutable"

// ServeAsset serves a stored main image or thumbnail from the prefix
// ("images" or "thumbs") by its shard path.
func (a *App) ServeAsset(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := chi.URLParam(r, "*")
		if !assetid.ValidShardPath(p) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		obj, err := a.Store.Read(r.Context(), prefix+"/"+p)
		if errors.Is(err, storage.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		if err != nil {
			a.Metrics.ObserveStorageError("read")
			a.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Cache-Control", immutableCache)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, p, obj.ModTime, bytes.NewReader(obj.Data))
	}
}
