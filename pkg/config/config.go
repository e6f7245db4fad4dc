// Package config loads the sysauth client configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/sysauth/pkg/override"
)

// DefaultPath is where the lookup hooks read their configuration from.
const DefaultPath = "/opt/sysauth-client/etc/sysauth-client.yaml"

var (
	// ErrConfigUnreadable is returned when the configuration file is missing
	// or cannot be read.
	ErrConfigUnreadable = errors.New("configuration unreadable")

	// ErrConfigMalformed is returned when the file was read but does not
	// describe a usable configuration.
	ErrConfigMalformed = errors.New("configuration malformed")
)

// Config represents the sysauth client configuration.
//
// Only BaseURLs and NSSSocketAddresses are part of the deployed file format;
// the remaining sections are optional and default to the values the lookup
// hooks have always used.
//
// The file is re-read on every lookup. Environment variables are deliberately
// not consulted: the hooks run inside arbitrary processes whose environment
// must not be able to redirect identity lookups.
type Config struct {
	// BaseURLs lists the identity service endpoints. Only the first entry is
	// used today; the rest are reserved for failover.
	BaseURLs []string `mapstructure:"baseUrls" validate:"required,min=1,dive,required,url" yaml:"baseUrls"`

	// NSSSocketAddresses maps "host:port" strings to fixed socket addresses,
	// consulted before DNS when dialing the identity service.
	NSSSocketAddresses []AddressOverride `mapstructure:"nssSocketAddresses" yaml:"nssSocketAddresses"`

	// Timeout bounds connect, read, write and the whole request.
	// Default: 5s
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0" yaml:"timeout,omitempty"`

	// Logging controls diagnostic output of the lookup hooks.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
}

// AddressOverride redirects one "host:port" to a socket address.
type AddressOverride struct {
	// From is compared verbatim with the "host:port" being dialed.
	From string `mapstructure:"from" yaml:"from"`

	// To is an "IP:port" socket address. It is not validated at load time:
	// a bad value only disables its own entry.
	To string `mapstructure:"to" yaml:"to"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR" yaml:"level,omitempty"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json" yaml:"format,omitempty"`

	// Output specifies where logs are written: stdout, stderr or a file path
	Output string `mapstructure:"output" yaml:"output,omitempty"`
}

// BaseURL returns the endpoint lookups are sent to.
func (c *Config) BaseURL() (string, error) {
	if c == nil || len(c.BaseURLs) == 0 {
		return "", fmt.Errorf("%w: baseUrls is empty", ErrConfigMalformed)
	}
	return c.BaseURLs[0], nil
}

// CreateOverrideTable converts the configured address overrides into an
// override.Table.
func (c *Config) CreateOverrideTable() *override.Table {
	entries := make([]override.Entry, 0, len(c.NSSSocketAddresses))
	for _, a := range c.NSSSocketAddresses {
		entries = append(entries, override.Entry{From: a.From, To: a.To})
	}
	return override.NewTable(entries)
}

// Load reads, decodes, defaults and validates the configuration at path.
//
// Errors wrap ErrConfigUnreadable when the file cannot be opened or read and
// ErrConfigMalformed when it cannot be decoded or fails validation.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no configuration path given", ErrConfigUnreadable)
	}

	// Read the bytes ourselves so a missing or unreadable file is told apart
	// from a parse error.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrConfigMalformed, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrConfigMalformed, path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigMalformed, err)
	}

	return &cfg, nil
}

// SaveConfig writes the configuration to path as YAML, creating parent
// directories as needed.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The lookup hooks run as every user on the host, so the file must stay
	// world-readable. It carries no secrets.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// configDecodeHooks returns the combined decode hook for custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook converts strings like "5s" or "1500ms" and plain
// integers (seconds) to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(strings.TrimSpace(v))
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}
