package nss

import (
	"context"
	"sync"

	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/pkg/config"
)

var loggingOnce sync.Once

// Hooks is the boundary a native name-service module calls into. Each
// method answers one passwd database request and never panics.
//
// The first call initializes process-wide logging from the configuration's
// logging section. Later configuration changes do not affect logging until
// the host process restarts.
type Hooks struct {
	client *Client
}

// NewHooks creates hooks reading config.DefaultPath.
func NewHooks(opts ...Option) *Hooks {
	return NewHooksWithConfig(config.DefaultPath, opts...)
}

// NewHooksWithConfig creates hooks reading configPath.
func NewHooksWithConfig(configPath string, opts ...Option) *Hooks {
	return &Hooks{client: New(configPath, opts...)}
}

// GetEntryByUID answers getpwuid.
func (h *Hooks) GetEntryByUID(uid uint32) Result {
	h.initLogging()
	return h.client.LookupByUID(context.Background(), uid)
}

// GetEntryByName answers getpwnam.
func (h *Hooks) GetEntryByName(name string) Result {
	h.initLogging()
	return h.client.LookupByName(context.Background(), name)
}

// GetAllEntries answers getpwent. Enumeration is unsupported.
func (h *Hooks) GetAllEntries() Result {
	h.initLogging()
	return h.client.ListAll(context.Background())
}

// initLogging configures the logger once per process. A configuration that
// cannot be loaded leaves the defaults in place; the lookup itself reports
// the problem.
func (h *Hooks) initLogging() {
	loggingOnce.Do(func() {
		cfg := logger.Config{}
		if loaded, err := config.Load(h.client.ConfigPath()); err == nil {
			cfg = logger.Config{
				Level:  loaded.Logging.Level,
				Format: loaded.Logging.Format,
				Output: loaded.Logging.Output,
			}
		}

		if err := logger.InitOnce(cfg); err != nil {
			logger.Warn("Logging initialization failed; using defaults", logger.Err(err))
		}
	})
}
