package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/sysauth/internal/telemetry"
)

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	telemetry.Install(tp, "test")
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		telemetry.Reset()
	})

	r := chi.NewRouter()
	r.Use(Tracing)
	r.Post("/identity/record/uid/{hostname}/{uid}", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, trace.SpanFromContext(r.Context()).SpanContext().IsValid())
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	const parentTrace = "4bf92f3577b34da6a3ce929d0e0e4736"

	req := httptest.NewRequest(http.MethodPost, "/identity/record/uid/web01/1000", nil)
	req.Header.Set("traceparent", "00-"+parentTrace+"-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "POST /identity/record/uid/{hostname}/{uid}", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, parentTrace, spans[0].SpanContext().TraceID().String(), "incoming trace is continued")
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	assert.Equal(t, "GET /broken", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
