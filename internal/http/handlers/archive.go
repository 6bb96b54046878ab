package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gallery/pkg/zip"
)

// ArchiveCollection downloads the main images of a collection as a zip file
// with one "<image_id>.webp" entry per record.
func (a *App) ArchiveCollection(w http.ResponseWriter, r *http.Request) {
	coll, repo, err := a.collection(chi.URLParam(r, "collection"))
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

	assets := make([]zip.Asset, 0, len(entries))
	for _, e := range entries {
		obj, err := a.Store.Read(r.Context(), "images/"+e.Path)
		if err != nil {
			a.Metrics.ObserveStorageError("read")
			a.fail(w, r, fmt.Errorf("image %d: %w", e.ImageID, err))
			return
		}
		assets = append(assets, zip.Asset{
			Filename: strconv.FormatUint(uint64(e.ImageID), 10) + ".webp",
			Data:     obj.Data,
			Modified: obj.ModTime,
		})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%d.zip"`, coll, foreignID))
	w.WriteHeader(http.StatusOK)
	if err := zip.ArchiveAssets(w, assets); err != nil {
		a.Logger.Error().Err(err).Str("collection", string(coll)).Msg("write archive")
	}
}
