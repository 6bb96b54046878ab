package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gallery/internal/domain"
	"gallery/internal/upload"
)

func TestListCollection(t *testing.T) {
	title := "sunset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/second/1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.ImageRecord{{ImageID: 4, ForeignID: 1, Path: "p", Title: &title, User: "user"}})
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/"})
	recs, err := c.ListCollection(context.Background(), domain.CollectionSecond, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].ImageID != 4 || recs[0].TitleText() != "sunset" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestTransferErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"envelope", http.StatusBadRequest, `{"error":"invalid_path","message":"bad filename"}`, "bad filename"},
		{"code only", http.StatusNotFound, `{"error":"not_found"}`, "not_found"},
		{"json string", http.StatusInternalServerError, `"disk full"`, "disk full"},
		{"plain text", http.StatusBadGateway, `upstream exploded`, GenericTransferMessage},
		{"empty", http.StatusServiceUnavailable, ``, GenericTransferMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := New(Options{BaseURL: srv.URL}).AddToCollection(context.Background(), domain.CollectionFirst, nil)
			var te *TransferError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransferError, got %v", err)
			}
			if te.Status != tc.status || te.Message != tc.want {
				t.Fatalf("got status %d message %q, want %d %q", te.Status, te.Message, tc.status, tc.want)
			}
		})
	}
}

func TestNetworkFailureIsTransferError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := New(Options{BaseURL: base}).RemoveFromCollection(context.Background(), domain.CollectionFirst, []uint32{1})
	var te *TransferError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransferError, got %v", err)
	}
	if te.Status != 0 || te.Message != GenericTransferMessage || te.Err == nil {
		t.Fatalf("unexpected error fields: %+v", te)
	}
}

func TestCanceledContextUnwraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{BaseURL: srv.URL}).ListCollection(ctx, domain.CollectionFirst, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestPostImagesConsumesRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := len(r.MultipartForm.File[upload.FieldThumbs]); got != 1 {
			t.Errorf("thumbs parts = %d", got)
		}
		_ = json.NewEncoder(w).Encode([]domain.ImageRecord{{ImageID: 9, Path: r.MultipartForm.File[upload.FieldThumbs][0].Filename, User: "user"}})
	}))
	defer srv.Close()

	p := upload.Prepared{ID: "01JG0M004KYHATX7J2W7MB28X4"}
	p.Asset.Main = []byte("RIFF....WEBPVP8 main")
	p.Asset.Thumb = []byte("RIFF....WEBPVP8 thumb")
	req, err := upload.NewUploadRequest([]upload.Prepared{p})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	c := New(Options{BaseURL: srv.URL})
	recs, err := c.PostImages(context.Background(), req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if len(recs) != 1 || recs[0].Path != "01J/G0/M004KYHATX7J2W7MB28X4.webp" {
		t.Fatalf("records = %+v", recs)
	}
	if _, err := c.PostImages(context.Background(), req); !errors.Is(err, upload.ErrConsumed) {
		t.Fatalf("second post = %v, want ErrConsumed", err)
	}
}

func TestAssetURLs(t *testing.T) {
	c := New(Options{BaseURL: "http://gallery.test/"})
	if got := c.ImageURL("01J/G0/X.webp"); got != "http://gallery.test/images/01J/G0/X.webp" {
		t.Fatalf("ImageURL = %q", got)
	}
	if got := c.ThumbURL("/01J/G0/X.webp"); got != "http://gallery.test/thumbs/01J/G0/X.webp" {
		t.Fatalf("ThumbURL = %q", got)
	}
}

func TestDownloadArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/first/1/archive" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = io.WriteString(w, "PK-archive")
	}))
	defer srv.Close()

	var buf strings.Builder
	if err := New(Options{BaseURL: srv.URL}).DownloadArchive(context.Background(), domain.CollectionFirst, 1, &buf); err != nil {
		t.Fatalf("download: %v", err)
	}
	if buf.String() != "PK-archive" {
		t.Fatalf("body = %q", buf.String())
	}
}
