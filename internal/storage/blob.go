package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// BlobStore keeps objects in any bucket gocloud.dev can open.
type BlobStore struct {
	bucket *blob.Bucket
	url    string
}

// NewBlobStore opens the bucket at bucketURL.
func NewBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucketURL = strings.TrimSpace(bucketURL)
	if bucketURL == "" {
		return nil, errors.New("storage: bucket url is required")
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("storage: open bucket %s: %w", bucketURL, err)
	}
	return &BlobStore{bucket: bucket, url: bucketURL}, nil
}

// NewBlobStoreFromBucket wraps an already opened bucket.
func NewBlobStoreFromBucket(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// URL returns the bucket url the store was opened with.
func (s *BlobStore) URL() string { return s.url }

// Write uploads data at key with an explicit content type.
func (s *BlobStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	opts := &blob.WriterOptions{
		ContentType:  contentTypeFor(cleanKey, data),
		CacheControl: "public, max-age=31536000, immutable",
	}
	if err := s.bucket.WriteAll(ctx, cleanKey, data, opts); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", cleanKey, err)
	}
	return cleanKey, nil
}

// Read downloads the object at key.
func (s *BlobStore) Read(ctx context.Context, key string) (*Object, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	r, err := s.bucket.NewReader(ctx, cleanKey, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: open %s: %w", cleanKey, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", cleanKey, err)
	}
	ct := r.ContentType()
	if ct == "" {
		ct = contentTypeFor(cleanKey, data)
	}
	return &Object{
		Key:         cleanKey,
		Data:        data,
		ContentType: ct,
		ModTime:     r.ModTime(),
	}, nil
}

// Exists reports whether key is present.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	return s.bucket.Exists(ctx, cleanKey)
}

// Delete removes key. Missing keys yield ErrNotFound.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, cleanKey); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("storage: delete %s: %w", cleanKey, err)
	}
	return nil
}

// Close releases the bucket connection.
func (s *BlobStore) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}

var _ Store = (*BlobStore)(nil)
