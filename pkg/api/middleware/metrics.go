// Package middleware provides HTTP middleware for the sysauth identity service.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a middleware that counts requests and observes their duration
// on reg, labeled by chi route pattern so that path parameters do not
// explode label cardinality.
//
// It must be installed with r.Use on the top-level router; the route pattern
// is only known after the request has been routed.
func Metrics(reg prometheus.Registerer) func(http.Handler) http.Handler {
	requests := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysauth_api_requests_total",
			Help: "Total number of identity service requests by route and status",
		},
		[]string{"route", "status"},
	)
	duration := promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysauth_api_request_duration_milliseconds",
			Help:    "Duration of identity service requests in milliseconds",
			Buckets: []float64{0.5, 1, 5, 10, 50, 100, 500},
		},
		[]string{"route"},
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			duration.WithLabelValues(route).Observe(time.Since(start).Seconds() * 1000)
		})
	}
}
