// Package api implements a reference identity service that answers the
// sysauth wire protocol from an identity.Store.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/pkg/identity"
)

// Server provides the identity service over HTTP.
//
// Endpoints:
//   - POST /identity/record/uid/{hostname}/{uid}
//   - POST /identity/record/name/{hostname}/{name}
//   - GET /health: Liveness probe
//   - GET /metrics: Prometheus metrics, when a registry is given
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	config       APIConfig
	ready        chan struct{}
	addr         net.Addr
	shutdownOnce sync.Once
}

// NewServer creates a new identity service HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving requests.
//
// Parameters:
//   - config: Server configuration (listen address, timeouts)
//   - store: Records to serve
//   - reg: Registry for request metrics and /metrics (may be nil)
//
// Returns a configured but not yet started Server.
func NewServer(config APIConfig, store identity.Store, reg *prometheus.Registry) *Server {
	config.applyDefaults()

	server := &http.Server{
		Addr:         config.Listen,
		Handler:      NewRouter(store, reg),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		config: config,
		ready:  make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and returns.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("API server failed to listen on %s: %w", s.config.Listen, err)
	}
	s.addr = ln.Addr()
	close(s.ready)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "address", s.addr.String())

		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the server.
//
// Stop is safe to call multiple times and safe to call concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", logger.Err(err))
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server listens on. It is nil until Ready is
// closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}
