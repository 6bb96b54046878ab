package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/{collection}/{foreignId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/api/first/1", "/api/second/1"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `test_http_requests_total{method="GET",route="/api/{collection}/{foreignId}",status="418"} 2`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("metrics output missing %q", want)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New("test")
	m.ObserveUpload("thumbs", 512)
	m.ObserveImageCreated()
	m.SetCollectionSize("first", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`test_uploaded_bytes_total{field="thumbs"} 512`,
		`test_images_created_total 1`,
		`test_collection_entries{collection="first"} 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpload("images", 1)
	m.ObserveRejected("x")
	m.ObserveStorageError("write")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if h := m.Middleware(next); h == nil {
		t.Fatalf("nil middleware")
	}
}
