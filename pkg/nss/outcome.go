// Package nss resolves passwd entries against the remote identity service and
// reports every lookup as one of four outcomes a name-service switch
// understands.
package nss

import "github.com/marmos91/sysauth/pkg/identity"

// Outcome is the result of a lookup as seen by the host.
type Outcome int

const (
	// OutcomeFound means the record exists and is returned.
	OutcomeFound Outcome = iota

	// OutcomeNotFound is a definite non-match.
	OutcomeNotFound

	// OutcomeTemporaryFailure means the caller may retry shortly.
	OutcomeTemporaryFailure

	// OutcomeUnavailable means the service cannot be used; do not retry
	// during this session.
	OutcomeUnavailable
)

// NSS status codes as defined by glibc's enum nss_status.
const (
	StatusTryAgain = -2
	StatusUnavail  = -1
	StatusNotFound = 0
	StatusSuccess  = 1
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTemporaryFailure:
		return "temporary_failure"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Status returns the NSS status code for o. Unknown values report
// StatusUnavail.
func (o Outcome) Status() int {
	switch o {
	case OutcomeFound:
		return StatusSuccess
	case OutcomeNotFound:
		return StatusNotFound
	case OutcomeTemporaryFailure:
		return StatusTryAgain
	default:
		return StatusUnavail
	}
}

// Result is what a lookup returns. Record is set only when Outcome is
// OutcomeFound.
type Result struct {
	Outcome Outcome
	Record  *identity.Passwd
}

// Found reports whether the lookup produced a record.
func (r Result) Found() bool {
	return r.Outcome == OutcomeFound && r.Record != nil
}

func found(p *identity.Passwd) Result {
	return Result{Outcome: OutcomeFound, Record: p}
}
