package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"gallery/internal/assetid"
	"gallery/internal/domain"
	"gallery/internal/imageproc"
	"gallery/internal/upload"
)

type uploadedPart struct {
	field    string
	filename string
	data     []byte
}

// PostImage accepts the multipart batch produced by the upload client. Every
// part is validated before anything is stored; each thumbs part creates one
// image record.
func (a *App) PostImage(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "expected multipart/form-data")
		return
	}

	var parts []uploadedPart
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.fail(w, r, badRequest{err: fmt.Errorf("read multipart: %w", err)})
			return
		}
		field := p.FormName()
		if field != upload.FieldImages && field != upload.FieldThumbs {
			_, _ = io.Copy(io.Discard, p)
			p.Close()
			continue
		}
		filename := rawFileName(p)
		data, err := io.ReadAll(p)
		p.Close()
		if err != nil {
			a.fail(w, r, badRequest{err: fmt.Errorf("read part %s: %w", field, err)})
			return
		}
		if !assetid.ValidShardPath(filename) {
			a.Metrics.ObserveRejected("path")
			a.fail(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidPath, filename))
			return
		}
		if !isWebP(data) {
			a.Metrics.ObserveRejected("media")
			a.fail(w, r, fmt.Errorf("%w: %s part %q is not %s", domain.ErrUnsupportedMedia, field, filename, imageproc.ContentType))
			return
		}
		parts = append(parts, uploadedPart{field: field, filename: filename, data: data})
	}
	if len(parts) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no images or thumbs parts")
		return
	}

	records := make([]domain.ImageRecord, 0, len(parts)/2)
	for _, p := range parts {
		key := p.field + "/" + p.filename
		if _, err := a.Store.Write(r.Context(), key, p.data); err != nil {
			a.Metrics.ObserveStorageError("write")
			a.fail(w, r, err)
			return
		}
		a.Metrics.ObserveUpload(p.field, len(p.data))
		a.Logger.Info().
			Str("field", p.field).
			Str("path", p.filename).
			Int("bytes", len(p.data)).
			Msg("stored upload part")
		if p.field != upload.FieldThumbs {
			continue
		}
		rec, err := a.Images.Create(r.Context(), p.filename, a.defaultUser())
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.Metrics.ObserveImageCreated()
		records = append(records, rec)
	}
	a.json(w, http.StatusOK, records)
}

// UpdateImage stores the title of the posted record. Only image_id and title
// are read.
func (a *App) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var rec domain.ImageRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		a.fail(w, r, decodeError(err))
		return
	}
	title := rec.WithTitle(rec.TitleText()).Title
	updated, err := a.Images.UpdateTitle(r.Context(), rec.ImageID, title)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, updated)
}

// rawFileName returns the filename parameter as sent. Part.FileName strips
// directories, which would drop the shard prefix.
func rawFileName(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP")) &&
		http.DetectContentType(data) == imageproc.ContentType
}
