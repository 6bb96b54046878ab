package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists objects onto the local filesystem.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Write stores data at key through a temp file and rename, so readers never
// observe a partial file. It returns the canonical key.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := s.fullPath(cleanKey)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	tempPath := fullPath + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("storage: rename %s: %w", cleanKey, err)
	}
	return cleanKey, nil
}

// Read loads the object at key.
func (s *FileStore) Read(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	fullPath := s.fullPath(cleanKey)
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: stat %s: %w", cleanKey, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", cleanKey, err)
	}
	return &Object{
		Key:         cleanKey,
		Data:        data,
		ContentType: contentTypeFor(cleanKey, data),
		ModTime:     info.ModTime(),
	}, nil
}

// Exists reports whether a regular file is stored at key.
func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(s.fullPath(cleanKey))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// Delete removes key. Missing keys yield ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(s.fullPath(cleanKey)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("storage: delete %s: %w", cleanKey, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) fullPath(cleanKey string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
}

var _ Store = (*FileStore)(nil)
