package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently so lookup diagnostics can be grepped and aggregated.
const (
	// ========================================================================
	// Lookup
	// ========================================================================
	KeyRequestID = "request_id" // X-Request-ID of the outbound call
	KeyMethod    = "method"     // Lookup method: uid, name
	KeyQuery     = "query"      // The uid or name being resolved
	KeyHostname  = "hostname"   // Local hostname sent to the service
	KeyOutcome   = "outcome"    // Lookup outcome: found, not_found, try_again, unavailable
	KeyReason    = "reason"     // Failure kind that produced the outcome
	KeyUID       = "uid"        // User ID
	KeyGID       = "gid"        // Group ID
	KeyUsername  = "username"   // User name

	// ========================================================================
	// Transport
	// ========================================================================
	KeyURL        = "url"         // Request URL
	KeyStatus     = "status"      // HTTP status code
	KeyNetloc     = "netloc"      // host:port being dialed
	KeyAddress    = "address"     // Resolved socket address
	KeyAddresses  = "addresses"   // Number of override addresses
	KeyResultCode = "result_code" // Business result code from the envelope

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyPath       = "path"        // Config or record file path
	KeyEntry      = "entry"       // Configuration entry being processed
)

// Err returns a slog.Attr for an error; nil errors render as an empty string
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// UID returns a slog.Attr for user ID
func UID(uid uint32) slog.Attr {
	return slog.Any(KeyUID, uid)
}

// Username returns a slog.Attr for username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Netloc returns a slog.Attr for the host:port being dialed
func Netloc(netloc string) slog.Attr {
	return slog.String(KeyNetloc, netloc)
}

// Outcome returns a slog.Attr for a lookup outcome
func Outcome(outcome string) slog.Attr {
	return slog.String(KeyOutcome, outcome)
}

// Reason returns a slog.Attr for the failure kind
func Reason(reason string) slog.Attr {
	return slog.String(KeyReason, reason)
}

// URL returns a slog.Attr for a request URL
func URL(u string) slog.Attr {
	return slog.String(KeyURL, u)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Path returns a slog.Attr for a file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// DurationMs returns a slog.Attr for the elapsed time since start
func DurationMs(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMs, Duration(start))
}
