// Package config loads service configuration from an optional file and
// CAREERPATH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonathan/career-pathfinder/internal/guard"
	"github.com/jonathan/career-pathfinder/internal/llm"
	"github.com/jonathan/career-pathfinder/internal/quality"
	"github.com/jonathan/career-pathfinder/internal/server/ratelimit"
	"github.com/jonathan/career-pathfinder/internal/telemetry"
)

// Telemetry sink names
const (
	SinkLog      = "log"
	SinkRedis    = "redis"
	SinkPostgres = "postgres"
)

// Config is the service configuration.
type Config struct {
	Server    ServerConfig          `mapstructure:"server"`
	Database  DatabaseConfig        `mapstructure:"database"`
	Redis     telemetry.RedisConfig `mapstructure:"redis"`
	LLM       LLMConfig             `mapstructure:"llm"`
	Logging   LoggingConfig         `mapstructure:"logging"`
	Telemetry TelemetryConfig       `mapstructure:"telemetry"`
	Pipeline  PipelineConfig        `mapstructure:"pipeline"`
	RateLimit ratelimit.Config      `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"` // bound on one generation
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

// DatabaseConfig configures PostgreSQL. An empty URL disables persistence.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

// LLMConfig selects and tunes the model provider.
type LLMConfig struct {
	Provider        string            `mapstructure:"provider"`
	APIKey          string            `mapstructure:"api_key"`
	Tier            string            `mapstructure:"tier"`
	Models          map[string]string `mapstructure:"models"` // tier -> model override
	Temperature     float32           `mapstructure:"temperature"`
	MaxOutputTokens int               `mapstructure:"max_output_tokens"`
	BaseURL         string            `mapstructure:"base_url"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig configures the event emitter.
type TelemetryConfig struct {
	BufferSize int      `mapstructure:"buffer_size"`
	Sinks      []string `mapstructure:"sinks"`
}

// PipelineConfig holds the tunables of the guard mapper and quality gate.
type PipelineConfig struct {
	Guard   guard.Rules   `mapstructure:"guard"`
	Quality quality.Rules `mapstructure:"quality"`
}

// ClientConfig builds the model client configuration, starting from the
// provider defaults.
func (c LLMConfig) ClientConfig() (*llm.Config, error) {
	cfg, err := llm.DefaultConfigFor(llm.Provider(c.Provider))
	if err != nil {
		return nil, err
	}
	for tier, model := range c.Models {
		cfg = cfg.WithModel(llm.ModelTier(tier), model)
	}
	cfg.Temperature = c.Temperature
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.MaxOutputTokens
	}
	cfg.BaseURL = c.BaseURL
	return cfg, nil
}

// HasSink reports whether the named telemetry sink is enabled.
func (c TelemetryConfig) HasSink(name string) bool {
	return slices.Contains(c.Sinks, name)
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
	validSinks   = []string{SinkLog, SinkRedis, SinkPostgres}
	validTiers   = []string{string(llm.TierLite), string(llm.TierStandard), string(llm.TierAdvanced)}
)

// Validate checks that the configuration has valid values.
// It does not require an API key; commands that call the model check that.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Server.Address == "" {
		add("server.address is required")
	}
	if c.Server.RequestTimeout <= 0 {
		add("server.request_timeout must be positive")
	}

	if _, err := llm.DefaultConfigFor(llm.Provider(c.LLM.Provider)); err != nil {
		add("llm.provider: %w", err)
	}
	if !slices.Contains(validTiers, c.LLM.Tier) {
		add("llm.tier must be one of %v, got %q", validTiers, c.LLM.Tier)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		add("llm.temperature must be between 0 and 2")
	}

	if !slices.Contains(validLevels, c.Logging.Level) {
		add("logging.level must be one of %v, got %q", validLevels, c.Logging.Level)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		add("logging.format must be one of %v, got %q", validFormats, c.Logging.Format)
	}

	if c.Telemetry.BufferSize <= 0 {
		add("telemetry.buffer_size must be positive")
	}
	for _, s := range c.Telemetry.Sinks {
		if !slices.Contains(validSinks, s) {
			add("telemetry.sinks: unknown sink %q", s)
		}
	}
	if c.Telemetry.HasSink(SinkRedis) && c.Redis.Address == "" {
		add("redis.address is required by the redis telemetry sink")
	}
	if c.Telemetry.HasSink(SinkPostgres) && c.Database.URL == "" {
		add("database.url is required by the postgres telemetry sink")
	}

	g := c.Pipeline.Guard
	if g.TargetSimilarity <= 0 || g.TargetSimilarity > 1 {
		add("pipeline.guard.target_similarity must be in (0, 1]")
	}
	if g.SalaryMultiplier < 1 {
		add("pipeline.guard.salary_multiplier must be at least 1")
	}
	q := c.Pipeline.Quality
	if q.MinStages < 1 {
		add("pipeline.quality.min_stages must be at least 1")
	}
	if q.MinDescriptionLength < 0 || q.MinKeywords < 0 {
		add("pipeline.quality thresholds must be non-negative")
	}

	if c.RateLimit.Enabled && c.RateLimit.DefaultWindow <= 0 {
		add("rate_limit.default_window must be positive")
	}

	return errors.Join(errs...)
}
