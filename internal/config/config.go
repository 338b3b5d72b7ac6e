// Package config provides configuration loading and validation for
// DelveDNS.
//
// Configuration lives in a YAML file; every field has a sensible
// default, so an empty or missing file yields a working resolver
// listening on the standard port.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           53,
			MaxConcurrency: 512,
			QueryTimeout:   "10s",
		},
		Resolver: ResolverConfig{
			MaxDepth:        10,
			UpstreamTimeout: "3s",
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			StructuredFormat: "json",
		},
		Journal: JournalConfig{
			Path:      "delvedns-journal.db",
			Retention: "168h",
		},
		RateLimit: RateLimitConfig{
			CleanupSeconds: 60,
			MaxIPEntries:   65536,
			GlobalQPS:      100000,
			GlobalBurst:    100000,
			IPQPS:          3000,
			IPBurst:        6000,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

// ResolveConfigPath picks the effective config file path: the explicit
// flag value wins, then the DELVEDNS_CONFIG environment variable, then
// none (defaults).
func ResolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("DELVEDNS_CONFIG")
}

// Load reads configuration from a YAML file, applying defaults for
// absent fields. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.MaxConcurrency <= 0 {
		cfg.Server.MaxConcurrency = 512
	}
	if _, err := parseDurationField("server.query_timeout", cfg.Server.QueryTimeout, "10s"); err != nil {
		return err
	}

	// Normalize resolver settings
	if cfg.Resolver.RootServer != "" {
		addr, err := netip.ParseAddr(cfg.Resolver.RootServer)
		if err != nil {
			return fmt.Errorf("resolver.root_server: %w", err)
		}
		if !addr.Is4() {
			return errors.New("resolver.root_server must be an IPv4 address")
		}
	}
	if cfg.Resolver.MaxDepth < 0 {
		return errors.New("resolver.max_depth must not be negative")
	}
	if _, err := parseDurationField("resolver.upstream_timeout", cfg.Resolver.UpstreamTimeout, "3s"); err != nil {
		return err
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	// Normalize journal
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return errors.New("journal.path is required when the journal is enabled")
	}
	if _, err := parseDurationField("journal.retention", cfg.Journal.Retention, "168h"); err != nil {
		return err
	}

	// Normalize management API
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}

	return nil
}

// QueryTimeout returns the parsed per-query budget.
func (cfg *Config) QueryTimeout() time.Duration {
	d, _ := parseDurationField("", cfg.Server.QueryTimeout, "10s")
	return d
}

// UpstreamTimeout returns the parsed per-exchange budget.
func (cfg *Config) UpstreamTimeout() time.Duration {
	d, _ := parseDurationField("", cfg.Resolver.UpstreamTimeout, "3s")
	return d
}

// JournalRetention returns the parsed journal retention window.
func (cfg *Config) JournalRetention() time.Duration {
	d, _ := parseDurationField("", cfg.Journal.Retention, "168h")
	return d
}

// parseDurationField parses a duration string, substituting the default
// when the string is empty.
func parseDurationField(field, raw, def string) (time.Duration, error) {
	if raw == "" {
		raw = def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}
