package ratelimit

import "time"

// EndpointConfig is the limit for one route. A Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path   string        `mapstructure:"path"`
	Method string        `mapstructure:"method"`
	Limit  int           `mapstructure:"limit"`  // requests per Window; 0 means unlimited
	Window time.Duration `mapstructure:"window"` // refill period for Limit tokens
	Burst  int           `mapstructure:"burst"`  // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool             `mapstructure:"enabled"`
	DefaultLimit    int              `mapstructure:"default_limit"`
	DefaultWindow   time.Duration    `mapstructure:"default_window"`
	CleanupInterval time.Duration    `mapstructure:"cleanup_interval"`
	Allowlist       []string         `mapstructure:"allowlist"`
	Denylist        []string         `mapstructure:"denylist"`
	Endpoints       []EndpointConfig `mapstructure:"endpoints"`
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Endpoints:       DefaultEndpoints(),
	}
}

// DefaultEndpoints limits generation, which costs up to one model call per
// prompt variant, far below reads.
func DefaultEndpoints() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/career-paths", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
	}
}
