// Package apiclient speaks the identity service wire protocol.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/marmos91/sysauth/internal/logger"
)

// MaxBodySize bounds the response body the client is willing to read.
const MaxBodySize = 10 << 20

// RequestIDHeader carries the per-lookup correlation id.
const RequestIDHeader = "X-Request-ID"

// Client sends lookup requests to one identity service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A trailing "/" on baseURL is ignored.
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the full record URL for q.
func (c *Client) URL(hostname string, q Query) string {
	return c.baseURL + RecordPath(hostname, q)
}

// NewRequest builds the POST request for q. The X-Request-ID header comes
// from the logger.LogContext in ctx, or a fresh UUID.
func (c *Client) NewRequest(ctx context.Context, hostname string, q Query) (*http.Request, error) {
	data, err := json.Marshal(q.body(hostname))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request body: %w", ErrEncodeRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(hostname, q), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrEncodeRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID(ctx))
	// No-op unless a propagator was installed.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// Lookup performs one round trip for q and returns the decoded envelope.
//
// The envelope is returned as sent: interpreting its result code is up to
// the caller. A returned error wraps one of the package's sentinel errors.
func (c *Client) Lookup(ctx context.Context, hostname string, q Query) (*Envelope, error) {
	req, err := c.NewRequest(ctx, hostname, q)
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "Sending lookup request", logger.URL(req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the server is not reset mid-write.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeEnvelope(body)
}

func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBodyUnreadable, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrBodyUnreadable, MaxBodySize)
	}
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrBodyUnreadable)
	}
	return body, nil
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if env.ResultCode == nil {
		return nil, fmt.Errorf("%w: resultCode missing", ErrMalformedResponse)
	}
	return &env, nil
}

func requestID(ctx context.Context) string {
	if lc := logger.FromContext(ctx); lc != nil && lc.RequestID != "" {
		return lc.RequestID
	}
	return uuid.NewString()
}
