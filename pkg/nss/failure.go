package nss

import (
	"errors"

	"github.com/marmos91/sysauth/pkg/apiclient"
	"github.com/marmos91/sysauth/pkg/config"
)

// Failure names why a lookup did not produce a record.
type Failure int

const (
	FailureHostnameUnavailable Failure = iota + 1
	FailureConfigUnreadable
	FailureConfigMalformed
	FailureEncodeRequest
	FailureTransport
	FailureNonSuccessStatus
	FailureBodyUnreadable
	FailureResponseMalformed
	FailureBusinessNotFound
	FailureProtocolViolation
	// FailureInternal covers a recovered panic or an unclassified error.
	FailureInternal
)

var failureNames = map[Failure]string{
	FailureHostnameUnavailable: "hostname_unavailable",
	FailureConfigUnreadable:    "config_unreadable",
	FailureConfigMalformed:     "config_malformed",
	FailureEncodeRequest:       "encode_request",
	FailureTransport:           "transport",
	FailureNonSuccessStatus:    "non_success_status",
	FailureBodyUnreadable:      "body_unreadable",
	FailureResponseMalformed:   "response_malformed",
	FailureBusinessNotFound:    "not_found",
	FailureProtocolViolation:   "protocol_violation",
	FailureInternal:            "internal",
}

// failureOutcomes is the only place failures become outcomes.
var failureOutcomes = map[Failure]Outcome{
	FailureHostnameUnavailable: OutcomeUnavailable,
	FailureConfigUnreadable:    OutcomeUnavailable,
	FailureConfigMalformed:     OutcomeUnavailable,
	FailureEncodeRequest:       OutcomeUnavailable,
	FailureTransport:           OutcomeTemporaryFailure,
	FailureNonSuccessStatus:    OutcomeTemporaryFailure,
	FailureBodyUnreadable:      OutcomeTemporaryFailure,
	FailureResponseMalformed:   OutcomeUnavailable,
	FailureBusinessNotFound:    OutcomeNotFound,
	FailureProtocolViolation:   OutcomeUnavailable,
	FailureInternal:            OutcomeUnavailable,
}

// String returns the failure name used in logs and metrics.
func (f Failure) String() string {
	if name, ok := failureNames[f]; ok {
		return name
	}
	return "unknown"
}

// Outcome maps f to the outcome reported to the host. Unknown failures are
// OutcomeUnavailable.
func (f Failure) Outcome() Outcome {
	if o, ok := failureOutcomes[f]; ok {
		return o
	}
	return OutcomeUnavailable
}

// classify derives the failure kind from an error returned by config or
// apiclient.
func classify(err error) Failure {
	switch {
	case errors.Is(err, config.ErrConfigUnreadable):
		return FailureConfigUnreadable
	case errors.Is(err, config.ErrConfigMalformed):
		return FailureConfigMalformed
	case errors.Is(err, apiclient.ErrEncodeRequest):
		return FailureEncodeRequest
	case errors.Is(err, apiclient.ErrTransport):
		return FailureTransport
	case errors.Is(err, apiclient.ErrUnexpectedStatus):
		return FailureNonSuccessStatus
	case errors.Is(err, apiclient.ErrBodyUnreadable):
		return FailureBodyUnreadable
	case errors.Is(err, apiclient.ErrMalformedResponse):
		return FailureResponseMalformed
	default:
		return FailureInternal
	}
}
