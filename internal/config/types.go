package config

// ServerConfig contains DNS server settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConcurrency int    `yaml:"max_concurrency"`
	// QueryTimeout bounds one client query end to end, including all
	// delegation hops (e.g. "10s").
	QueryTimeout string `yaml:"query_timeout"`
}

// ResolverConfig contains recursive resolution settings.
type ResolverConfig struct {
	// RootServer is the IPv4 address resolution starts from. Empty
	// selects a built-in root server.
	RootServer string `yaml:"root_server"`
	// MaxDepth caps delegation steps per query (0 = default).
	MaxDepth int `yaml:"max_depth"`
	// UpstreamTimeout bounds a single upstream exchange (e.g. "3s").
	UpstreamTimeout string `yaml:"upstream_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level"`
	Structured       bool              `yaml:"structured"`
	StructuredFormat string            `yaml:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields,omitempty"`
}

// JournalConfig controls the SQLite query journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Retention is how long entries are kept (e.g. "168h").
	Retention string `yaml:"retention"`
}

// RateLimitConfig controls rate limiting settings.
type RateLimitConfig struct {
	// CleanupSeconds is how often stale entries are cleaned up (default: 60)
	CleanupSeconds float64 `yaml:"cleanup_seconds"`
	// MaxIPEntries is the maximum number of tracked IPs (default: 65536)
	MaxIPEntries int `yaml:"max_ip_entries"`
	// GlobalQPS is the server-wide queries per second limit (0 = disabled)
	GlobalQPS float64 `yaml:"global_qps"`
	// GlobalBurst is the global burst size
	GlobalBurst int `yaml:"global_burst"`
	// IPQPS is the per-IP QPS limit (0 = disabled)
	IPQPS float64 `yaml:"ip_qps"`
	// IPBurst is the per-IP burst size
	IPBurst int `yaml:"ip_burst"`
}

// APIConfig contains management API settings.
//
// Note: APIKey is intentionally treated as a secret and should not be
// returned by API endpoints.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Logging   LoggingConfig   `yaml:"logging"`
	Journal   JournalConfig   `yaml:"journal"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	API       APIConfig       `yaml:"api"`
}
