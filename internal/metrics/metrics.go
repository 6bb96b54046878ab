// Package metrics provides Prometheus metrics for the gallery server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered by the server. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	UploadedFiles *prometheus.CounterVec
	UploadedBytes *prometheus.CounterVec
	RejectedParts *prometheus.CounterVec
	ImagesCreated prometheus.Counter

	CollectionSize *prometheus.GaugeVec
	StorageErrors  *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "gallery"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"method", "route"},
		),
		UploadedFiles: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploaded_files_total",
				Help:      "Stored upload parts by field",
			},
			[]string{"field"},
		),
		UploadedBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploaded_bytes_total",
				Help:      "Stored upload bytes by field",
			},
			[]string{"field"},
		),
		RejectedParts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_parts_total",
				Help:      "Upload parts refused by validation",
			},
			[]string{"reason"},
		),
		ImagesCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_created_total",
				Help:      "Image records created",
			},
		),
		CollectionSize: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "collection_entries",
				Help:      "Entries currently held per collection",
			},
			[]string{"collection"},
		),
		StorageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_errors_total",
				Help:      "Storage failures by operation",
			},
			[]string{"op"},
		),
	}
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency keyed by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveUpload(field string, size int) {
	if m == nil {
		return
	}
	m.UploadedFiles.WithLabelValues(field).Inc()
	m.UploadedBytes.WithLabelValues(field).Add(float64(size))
}

func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedParts.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveImageCreated() {
	if m == nil {
		return
	}
	m.ImagesCreated.Inc()
}

func (m *Metrics) SetCollectionSize(collection string, n int) {
	if m == nil {
		return
	}
	m.CollectionSize.WithLabelValues(collection).Set(float64(n))
}

func (m *Metrics) ObserveStorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(op).Inc()
}
