package adminapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/notifyd/internal/logger"
	"github.com/marmos91/notifyd/pkg/registry"
)

// NewRouter builds the admin surface's chi router: liveness, Prometheus
// scrape, and the read-only registry introspection endpoints.
//
// Routes:
//   - GET /healthz        - liveness probe
//   - GET /metrics        - Prometheus scrape endpoint
//   - GET /debug/names    - read-only name table dump
//   - GET /debug/stats    - registry-wide counters
func NewRouter(reg *registry.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	h := NewHandler(reg)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/debug", func(r chi.Router) {
		r.Get("/names", h.DebugNames)
		r.Get("/stats", h.Stats)
	})

	return r
}

// requestLogger logs each admin request at Debug.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("admin request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
