package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"gallery/internal/imageproc"
)

const (
	// FieldImages carries main renditions.
	FieldImages = "images"
	// FieldThumbs carries thumbnails.
	FieldThumbs = "thumbs"
)

// ErrConsumed is returned by Body after the request has been read once.
var ErrConsumed = errors.New("upload: request body already consumed")

// UploadRequest is the multipart payload for one batch. Every prepared asset
// contributes an images part followed by a thumbs part, both named by the
// asset's shard path.
type UploadRequest struct {
	contentType string
	body        []byte
	paths       []string
	consumed    bool
}

// NewUploadRequest packs items in order.
func NewUploadRequest(items []Prepared) (*UploadRequest, error) {
	if len(items) == 0 {
		return nil, ErrNoFiles
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	paths := make([]string, 0, len(items))
	for _, it := range items {
		p := it.Path()
		if err := writePart(mw, FieldImages, p, it.Asset.Main); err != nil {
			return nil, err
		}
		if err := writePart(mw, FieldThumbs, p, it.Asset.Thumb); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload: close multipart: %w", err)
	}
	return &UploadRequest{
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
		paths:       paths,
	}, nil
}

func writePart(mw *multipart.Writer, field, filename string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", imageproc.ContentType)
	w, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("upload: create %s part: %w", field, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("upload: write %s part: %w", field, err)
	}
	return nil
}

// ContentType includes the multipart boundary.
func (r *UploadRequest) ContentType() string { return r.contentType }

// Len is the body size in bytes.
func (r *UploadRequest) Len() int { return len(r.body) }

// Paths lists the shard paths in upload order.
func (r *UploadRequest) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Body hands out the payload. It succeeds once.
func (r *UploadRequest) Body() (io.Reader, error) {
	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true
	return bytes.NewReader(r.body), nil
}
