package apiclient

import (
	"errors"
	"fmt"
)

// Failures of a lookup round trip. Every error returned by Client.Lookup
// wraps exactly one of them.
var (
	// ErrEncodeRequest means the request could not be built or its body
	// could not be serialized.
	ErrEncodeRequest = errors.New("request encoding failed")

	// ErrTransport covers connection refused, DNS, TLS and timeout errors.
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedStatus means the service answered with a status other
	// than 200. The concrete error is a *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyUnreadable means the response body could not be read in full,
	// exceeded MaxBodySize or was not valid UTF-8.
	ErrBodyUnreadable = errors.New("response body unreadable")

	// ErrMalformedResponse means the body is not a valid response envelope.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError carries the status of a non-200 response.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: %s", ErrUnexpectedStatus, e.Status)
	}
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// IsServerError returns true for 5xx statuses.
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500
}
