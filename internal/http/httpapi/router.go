package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"gallery/internal/http/handlers"
	mw "gallery/internal/middleware"
)

// compressible lists the response types worth compressing. WebP payloads are
// already compressed and never pass through the encoder.
var compressible = []string{
	"application/json",
	"text/html",
	"text/plain",
	"text/css",
	"application/javascript",
}

func NewRouter(app *handlers.App) http.Handler {
	cfg := app.Config
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		mw.Logger(app.Logger),
		app.Metrics.Middleware,
		mw.CORS(cfg.CORSAllowedOrigins),
	)

	r.Get("/healthz", app.Health)
	if app.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(
			newCompressor().Handler,
			middleware.SetHeader("Cache-Control", "no-store"),
			mw.RateLimit(cfg.RateLimitPerMin, time.Minute),
			mw.BodyLimit(cfg.BodyLimitBytes),
		)
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		r.Get("/greet", app.Greet)
		r.Get("/stats", app.StatsSummary)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Post("/image", app.PostImage)
		r.Put("/image", app.UpdateImage)

		r.Get("/{collection}/{foreignId}", app.ListCollection)
		r.Get("/{collection}/{foreignId}/archive", app.ArchiveCollection)
		r.Post("/{collection}", app.AddToCollection)
		r.Delete("/{collection}", app.RemoveFromCollection)
	})

	r.Get("/images/*", app.ServeAsset("images"))
	r.Get("/thumbs/*", app.ServeAsset("thumbs"))

	web := app.Web(cfg.WebRoot)
	r.Get("/*", web)
	r.NotFound(web)

	return r
}

func newCompressor() *middleware.Compressor {
	c := middleware.NewCompressor(5, compressible...)
	c.SetEncoder("gzip", func(w io.Writer, level int) io.Writer {
		gw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil
		}
		return gw
	})
	c.SetEncoder("zstd", func(w io.Writer, level int) io.Writer {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil
		}
		return zw
	})
	return c
}
