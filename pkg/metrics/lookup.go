// Package metrics defines the observability interfaces of sysauth and the
// process-wide Prometheus registry they report to.
package metrics

import "time"

// LookupMetrics observes identity lookups.
//
// Implementations must be safe for concurrent use. The interface is optional:
// pass nil to disable metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	client := nss.New(path, nss.WithMetrics(prometheus.NewLookupMetrics()))
//
//	// Without metrics
//	client := nss.New(path)
type LookupMetrics interface {
	// ObserveLookup records a completed lookup.
	//
	// Parameters:
	//   - method: "uid", "name" or "all"
	//   - outcome: the outcome name (e.g. "found", "not_found")
	//   - reason: the failure kind, empty when the lookup did not fail
	//   - duration: time from entry to outcome
	ObserveLookup(method, outcome, reason string, duration time.Duration)

	// RecordOverrideDial records a connection attempt to an override address.
	//
	// Parameters:
	//   - netloc: the "host:port" being dialed
	//   - success: whether the attempt connected
	RecordOverrideDial(netloc string, success bool)
}

// ObserveLookup records a lookup on m if it is non-nil.
func ObserveLookup(m LookupMetrics, method, outcome, reason string, duration time.Duration) {
	if m != nil {
		m.ObserveLookup(method, outcome, reason, duration)
	}
}

// RecordOverrideDial records an override dial on m if it is non-nil.
func RecordOverrideDial(m LookupMetrics, netloc string, success bool) {
	if m != nil {
		m.RecordOverrideDial(netloc, success)
	}
}
