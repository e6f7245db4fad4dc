package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/sysauth/pkg/metrics"
)

// lookupMetrics is the Prometheus implementation of metrics.LookupMetrics.
type lookupMetrics struct {
	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	overrideDials  *prometheus.CounterVec
}

// NewLookupMetrics creates lookup metrics on the process-wide registry.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewLookupMetrics() metrics.LookupMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return NewLookupMetricsWith(metrics.GetRegistry())
}

// NewLookupMetricsWith creates lookup metrics registered on reg.
func NewLookupMetricsWith(reg prometheus.Registerer) metrics.LookupMetrics {
	return &lookupMetrics{
		lookupsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysauth_lookups_total",
				Help: "Total number of identity lookups by method, outcome and failure reason",
			},
			[]string{"method", "outcome", "reason"},
		),
		lookupDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sysauth_lookup_duration_milliseconds",
				Help: "Duration of identity lookups in milliseconds",
				Buckets: []float64{
					1,    // 1ms - config errors
					5,    // 5ms - local service
					10,   // 10ms
					50,   // 50ms - same region
					100,  // 100ms
					500,  // 500ms
					1000, // 1s
					5000, // 5s - default timeout
				},
			},
			[]string{"method"},
		),
		overrideDials: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysauth_override_dials_total",
				Help: "Total number of connection attempts to override addresses by result",
			},
			[]string{"netloc", "result"},
		),
	}
}

func (m *lookupMetrics) ObserveLookup(method, outcome, reason string, duration time.Duration) {
	if m == nil {
		return
	}

	if reason == "" {
		reason = "none"
	}
	m.lookupsTotal.WithLabelValues(method, outcome, reason).Inc()
	m.lookupDuration.WithLabelValues(method).Observe(duration.Seconds() * 1000)
}

func (m *lookupMetrics) RecordOverrideDial(netloc string, success bool) {
	if m == nil {
		return
	}

	result := "success"
	if !success {
		result = "error"
	}
	m.overrideDials.WithLabelValues(netloc, result).Inc()
}
