package config

import (
	"strings"
	"time"
)

// DefaultTimeout bounds connect, read, write and the whole lookup request.
const DefaultTimeout = 5 * time.Second

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values are replaced with defaults
//   - Explicit values are preserved
//   - BaseURLs has no default: an empty list is a configuration error
func ApplyDefaults(cfg *Config) {
	applyTimeoutDefaults(cfg)
	applyLoggingDefaults(&cfg.Logging)
}

func applyTimeoutDefaults(cfg *Config) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
// Defaults keep the hooks quiet inside host processes: warnings and errors
// only, on stderr.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// GetDefaultConfig returns a sample configuration with all defaults applied.
// It is what `sysauth config init` writes.
func GetDefaultConfig() *Config {
	cfg := &Config{
		BaseURLs: []string{"https://sysauth.example.com"},
		NSSSocketAddresses: []AddressOverride{
			{From: "sysauth.example.com:443", To: "127.0.0.1:8443"},
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
