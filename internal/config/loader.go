package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/career-pathfinder/internal/guard"
	"github.com/jonathan/career-pathfinder/internal/quality"
	"github.com/jonathan/career-pathfinder/internal/server/ratelimit"
	"github.com/jonathan/career-pathfinder/internal/telemetry"
)

// EnvPrefix prefixes every environment override, e.g. CAREERPATH_SERVER_ADDRESS.
const EnvPrefix = "CAREERPATH"

// Load reads configuration from path, or from careerpath.{yaml,json} in the
// working directory or ./configs when path is empty, then applies environment
// overrides and defaults and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Provider-native variable names keep working.
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("careerpath")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			CORSOrigin:   "*",
		},
		Redis: telemetry.RedisConfig{
			Stream: telemetry.DefaultStream,
			MaxLen: telemetry.DefaultStreamMaxLen,
		},
		LLM: LLMConfig{
			Temperature:     0.2,
			MaxOutputTokens: 4096,
		},
		RateLimit: ratelimit.Config{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}

// setDefaults registers every scalar key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.request_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", false)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", telemetry.DefaultStream)
	v.SetDefault("redis.max_len", telemetry.DefaultStreamMaxLen)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.tier", "standard")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_output_tokens", 4096)
	v.SetDefault("llm.base_url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telemetry.buffer_size", telemetry.DefaultBufferSize)
	v.SetDefault("telemetry.sinks", []string{SinkLog})

	v.SetDefault("pipeline.guard.salary_multiplier", guard.DefaultRules().SalaryMultiplier)
	v.SetDefault("pipeline.guard.target_similarity", guard.DefaultRules().TargetSimilarity)
	v.SetDefault("pipeline.quality.min_stages", quality.DefaultRules().MinStages)
	v.SetDefault("pipeline.quality.min_description_length", quality.DefaultRules().MinDescriptionLength)
	v.SetDefault("pipeline.quality.min_keywords", quality.DefaultRules().MinKeywords)

	rl := ratelimit.DefaultConfig()
	v.SetDefault("rate_limit.enabled", rl.Enabled)
	v.SetDefault("rate_limit.default_limit", rl.DefaultLimit)
	v.SetDefault("rate_limit.default_window", rl.DefaultWindow)
	v.SetDefault("rate_limit.cleanup_interval", rl.CleanupInterval)
}

// applyDefaults fills what viper defaults cannot express: list and map
// tunables that are only replaced when set.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 90 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Tier == "" {
		cfg.LLM.Tier = "standard"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Telemetry.BufferSize == 0 {
		cfg.Telemetry.BufferSize = telemetry.DefaultBufferSize
	}
	if cfg.Telemetry.Sinks == nil {
		cfg.Telemetry.Sinks = []string{SinkLog}
	}

	cfg.Pipeline.Guard = cfg.Pipeline.Guard.WithDefaults()
	cfg.Pipeline.Quality = cfg.Pipeline.Quality.WithDefaults()

	rl := ratelimit.DefaultConfig()
	if cfg.RateLimit.DefaultLimit == 0 {
		cfg.RateLimit.DefaultLimit = rl.DefaultLimit
	}
	if cfg.RateLimit.DefaultWindow == 0 {
		cfg.RateLimit.DefaultWindow = rl.DefaultWindow
	}
	if cfg.RateLimit.CleanupInterval == 0 {
		cfg.RateLimit.CleanupInterval = rl.CleanupInterval
	}
	if cfg.RateLimit.Endpoints == nil {
		cfg.RateLimit.Endpoints = ratelimit.DefaultEndpoints()
	}
}
