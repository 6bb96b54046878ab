// Package client is the typed HTTP client for the gallery API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gallery/internal/domain"
	"gallery/internal/upload"
)

const maxErrorBody = 64 << 10

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

func New(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "client").Logger()
	}
	return &Client{httpClient: hc, baseURL: base, log: log}
}

// BaseURL is the server root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ImageURL locates the main rendition stored under path.
func (c *Client) ImageURL(path string) string {
	return c.baseURL + "/images/" + strings.TrimLeft(path, "/")
}

// ThumbURL locates the thumbnail stored under path.
func (c *Client) ThumbURL(path string) string {
	return c.baseURL + "/thumbs/" + strings.TrimLeft(path, "/")
}

// PostImages sends a packed upload. The request body is consumed.
func (c *Client) PostImages(ctx context.Context, req *upload.UploadRequest) ([]domain.ImageRecord, error) {
	if req == nil {
		return nil, errors.New("client: nil upload request")
	}
	body, err := req.Body()
	if err != nil {
		return nil, err
	}
	var out []domain.ImageRecord
	if err := c.do(ctx, http.MethodPost, "/api/image", req.ContentType(), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCollection returns the records of coll owned by foreignID.
func (c *Client) ListCollection(ctx context.Context, coll domain.Collection, foreignID uint32) ([]domain.ImageRecord, error) {
	path := "/api/" + url.PathEscape(string(coll)) + "/" + strconv.FormatUint(uint64(foreignID), 10)
	var out []domain.ImageRecord
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCollection appends records to coll and returns the ids the server
// actually added.
func (c *Client) AddToCollection(ctx context.Context, coll domain.Collection, records []domain.ImageRecord) ([]uint32, error) {
	body, err := jsonBody(records)
	if err != nil {
		return nil, err
	}
	var out []uint32
	if err := c.do(ctx, http.MethodPost, "/api/"+url.PathEscape(string(coll)), "application/json", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromCollection deletes ids from coll and returns the ids removed.
func (c *Client) RemoveFromCollection(ctx context.Context, coll domain.Collection, ids []uint32) ([]uint32, error) {
	body, err := jsonBody(ids)
	if err != nil {
		return nil, err
	}
	var out []uint32
	if err := c.do(ctx, http.MethodDelete, "/api/"+url.PathEscape(string(coll)), "application/json", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateImage stores rec.Title for rec.ImageID.
func (c *Client) UpdateImage(ctx context.Context, rec domain.ImageRecord) (domain.ImageRecord, error) {
	body, err := jsonBody(rec)
	if err != nil {
		return domain.ImageRecord{}, err
	}
	var out domain.ImageRecord
	if err := c.do(ctx, http.MethodPut, "/api/image", "application/json", body, &out); err != nil {
		return domain.ImageRecord{}, err
	}
	return out, nil
}

// DownloadArchive streams the zip archive of coll's main images into w.
func (c *Client) DownloadArchive(ctx context.Context, coll domain.Collection, foreignID uint32, w io.Writer) error {
	if w == nil {
		return errors.New("client: nil archive writer")
	}
	path := "/api/" + url.PathEscape(string(coll)) + "/" + strconv.FormatUint(uint64(foreignID), 10) + "/archive"
	return c.do(ctx, http.MethodGet, path, "", nil, w)
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("client: encode body: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransferError{Message: GenericTransferMessage, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransferError{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		if _, err := io.Copy(w, resp.Body); err != nil {
			return &TransferError{Status: resp.StatusCode, Message: GenericTransferMessage, Err: err}
		}
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransferError{Status: resp.StatusCode, Message: GenericTransferMessage, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
