package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for identity lookups.
const (
	AttrHostname     = "sysauth.hostname"
	AttrLookupMethod = "sysauth.lookup.method"
	AttrLookupKey    = "sysauth.lookup.key"
	AttrResultCode   = "sysauth.result_code"
	AttrUID          = "user.uid"
	AttrUsername     = "user.name"
)

// SpanLookup is the span covering one record lookup in the service.
const SpanLookup = "identity.lookup"

// Hostname returns an attribute for the requesting host.
func Hostname(name string) attribute.KeyValue {
	return attribute.String(AttrHostname, name)
}

// LookupMethod returns an attribute for the lookup method ("uid" or "name").
func LookupMethod(method string) attribute.KeyValue {
	return attribute.String(AttrLookupMethod, method)
}

// LookupKey returns an attribute for the looked-up uid or name.
func LookupKey(key string) attribute.KeyValue {
	return attribute.String(AttrLookupKey, key)
}

// ResultCode returns an attribute for the envelope result code.
func ResultCode(code int32) attribute.KeyValue {
	return attribute.Int(AttrResultCode, int(code))
}

// UID returns an attribute for a user ID.
func UID(uid uint32) attribute.KeyValue {
	return attribute.Int64(AttrUID, int64(uid))
}

// Username returns an attribute for a login name.
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// StartLookupSpan starts a span for a record lookup.
func StartLookupSpan(ctx context.Context, method, hostname, key string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanLookup,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			LookupMethod(method),
			Hostname(hostname),
			LookupKey(key),
		),
	)
}
