// Package storage keeps the published image bytes. Keys are slash separated
// relative paths such as "images/01J/G0/M004KYHATX7J2W7MB28X4.webp".
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when a key has no object.
var ErrNotFound = errors.New("storage: object not found")

// Object is a stored file loaded into memory.
type Object struct {
	Key         string
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Store is implemented by FileStore and BlobStore.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendFS   = "fs"
	BackendBlob = "blob"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Path is the root directory of the fs backend.
	Path string
	// URL is a gocloud bucket URL for the blob backend, e.g. file:///srv/gallery,
	// mem://, s3://bucket?region=eu-west-1 or gs://bucket.
	URL string
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFS:
		return NewFileStore(cfg.Path)
	case BackendBlob:
		return NewBlobStore(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// contentTypeFor prefers the key's extension and falls back to sniffing.
func contentTypeFor(key string, data []byte) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return http.DetectContentType(data)
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
