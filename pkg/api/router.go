package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/internal/telemetry"
	"github.com/marmos91/sysauth/pkg/api/handlers"
	apimw "github.com/marmos91/sysauth/pkg/api/middleware"
	"github.com/marmos91/sysauth/pkg/identity"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware (reuses an incoming X-Request-ID)
//   - Trace context extraction and a server span per request
//   - Request metrics when reg is non-nil
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - POST /identity/record/uid/{hostname}/{uid} - Lookup by uid
//   - POST /identity/record/name/{hostname}/{name} - Lookup by name
//   - GET /health - Liveness probe
//   - GET /metrics - Prometheus metrics (only when reg is non-nil)
func NewRouter(store identity.Store, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(apimw.Tracing)
	if reg != nil {
		r.Use(apimw.Metrics(reg))
	}
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(store)
	recordHandler := handlers.NewRecordHandler(store)

	r.Get("/health", healthHandler.Liveness)

	r.Route("/identity/record", func(r chi.Router) {
		r.Post("/uid/{hostname}/{uid}", recordHandler.ByUID)
		r.Post("/name/{hostname}/{name}", recordHandler.ByName)
	})

	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return r
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			logger.KeyRequestID, requestID,
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("API request completed",
			logger.KeyRequestID, requestID,
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			"trace_id", telemetry.TraceID(r.Context()),
			logger.DurationMs(start),
		)
	})
}
