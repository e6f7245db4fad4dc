package nss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/pkg/apiclient"
	"github.com/marmos91/sysauth/pkg/config"
	"github.com/marmos91/sysauth/pkg/identity"
	"github.com/marmos91/sysauth/pkg/metrics"
	"github.com/marmos91/sysauth/pkg/override"
)

// errEmptyHostname is reported when the OS returns an empty hostname.
var errEmptyHostname = errors.New("hostname is empty")

// Client performs lookups against the identity service described by the
// configuration file at its path.
//
// A Client holds no state between calls: every lookup re-reads the
// configuration, re-resolves the local hostname and builds its own
// transport. It is safe for concurrent use.
type Client struct {
	configPath string
	hostname   func() (string, error)
	metrics    metrics.LookupMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithHostnameFunc replaces os.Hostname as the source of the local hostname.
func WithHostnameFunc(fn func() (string, error)) Option {
	return func(c *Client) {
		c.hostname = fn
	}
}

// WithMetrics reports lookups to m. A nil m disables metrics.
func WithMetrics(m metrics.LookupMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client reading its configuration from configPath.
func New(configPath string, opts ...Option) *Client {
	c := &Client{
		configPath: configPath,
		hostname:   os.Hostname,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfigPath returns the configuration file the client reads.
func (c *Client) ConfigPath() string {
	return c.configPath
}

// LookupByUID resolves the passwd entry for uid.
func (c *Client) LookupByUID(ctx context.Context, uid uint32) Result {
	return c.lookup(ctx, apiclient.ByUID(uid))
}

// LookupByName resolves the passwd entry for the login name.
func (c *Client) LookupByName(ctx context.Context, name string) Result {
	return c.lookup(ctx, apiclient.ByName(name))
}

// ListAll enumerates passwd entries. Enumeration is not supported by the
// identity service, so it always reports OutcomeNotFound.
func (c *Client) ListAll(ctx context.Context) Result {
	start := time.Now()
	logger.DebugCtx(ctx, "Enumeration requested; not supported")
	metrics.ObserveLookup(c.metrics, "all", OutcomeNotFound.String(), "", time.Since(start))
	return Result{Outcome: OutcomeNotFound}
}

// lookup is the single flow behind every query kind. It never panics and
// never returns without an outcome.
func (c *Client) lookup(ctx context.Context, q apiclient.Query) (result Result) {
	if ctx == nil {
		ctx = context.Background()
	}

	lc := logger.NewLogContext(q.Method(), q.Key()).WithRequestID(uuid.NewString())
	ctx = logger.WithContext(ctx, lc)

	var reason Failure
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, "Lookup panicked",
				logger.Reason(FailureInternal.String()),
				"panic", fmt.Sprint(r),
			)
			reason = FailureInternal
			result = Result{Outcome: FailureInternal.Outcome()}
		}

		reasonLabel := ""
		if reason != 0 {
			reasonLabel = reason.String()
		}
		metrics.ObserveLookup(c.metrics, q.Method(), result.Outcome.String(), reasonLabel, time.Since(lc.StartTime))
	}()

	record, reason, err := c.resolve(ctx, q)
	if reason == 0 {
		logger.DebugCtx(ctx, "Lookup succeeded",
			logger.Username(record.Name),
			logger.UID(record.UID),
			logger.DurationMs(lc.StartTime),
		)
		return found(record)
	}

	return c.fail(ctx, reason, err)
}

// resolve runs the lookup steps in order. A zero Failure means success.
func (c *Client) resolve(ctx context.Context, q apiclient.Query) (*identity.Passwd, Failure, error) {
	hostname, err := c.hostname()
	if err == nil && hostname == "" {
		err = errEmptyHostname
	}
	if err != nil {
		return nil, FailureHostnameUnavailable, err
	}
	if lc := logger.FromContext(ctx); lc != nil {
		lc.Hostname = hostname
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, classify(err), err
	}

	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, FailureConfigMalformed, err
	}

	transport := c.newTransport(cfg)
	defer transport.CloseIdleConnections()

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	env, err := apiclient.New(baseURL, httpClient).Lookup(ctx, hostname, q)
	if err != nil {
		return nil, classify(err), err
	}

	if code := env.Code(); code != 0 {
		return nil, FailureBusinessNotFound, fmt.Errorf("result code %d: %s", code, env.Message())
	}
	if env.PasswordEntry == nil {
		return nil, FailureProtocolViolation, errors.New("success result code without passwordEntry")
	}

	return env.PasswordEntry.ToPasswd(), 0, nil
}

// newTransport builds a single-use transport that dials through the
// configured address overrides.
func (c *Client) newTransport(cfg *config.Config) *http.Transport {
	dialer := override.NewDialer(
		cfg.CreateOverrideTable(),
		override.Uniform(cfg.Timeout),
		override.WithDialObserver(func(netloc string, addr netip.AddrPort, err error) {
			metrics.RecordOverrideDial(c.metrics, netloc, err == nil)
			if err != nil {
				logger.Warn("Override address unreachable",
					logger.Netloc(netloc),
					logger.KeyAddress, addr.String(),
					logger.Err(err),
				)
			}
		}),
	)

	return &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		DisableKeepAlives:     true,
		ForceAttemptHTTP2:     true,
	}
}

// fail logs the failure and returns its outcome.
func (c *Client) fail(ctx context.Context, reason Failure, err error) Result {
	outcome := reason.Outcome()

	if reason == FailureBusinessNotFound {
		logger.InfoCtx(ctx, "Identity not found",
			logger.Outcome(outcome.String()),
			logger.Reason(reason.String()),
			logger.Err(err),
		)
		return Result{Outcome: outcome}
	}

	logger.ErrorCtx(ctx, "Lookup failed",
		logger.Outcome(outcome.String()),
		logger.Reason(reason.String()),
		logger.Err(err),
	)
	return Result{Outcome: outcome}
}
