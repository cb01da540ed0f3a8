package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-pathfinder/internal/guard"
	"github.com/jonathan/career-pathfinder/internal/llm"
	"github.com/jonathan/career-pathfinder/internal/quality"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "standard", cfg.LLM.Tier)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, []string{SinkLog}, cfg.Telemetry.Sinks)
	assert.Equal(t, guard.DefaultRules(), cfg.Pipeline.Guard)
	assert.Equal(t, quality.DefaultRules(), cfg.Pipeline.Quality)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.NotEmpty(t, cfg.RateLimit.Endpoints)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, "careerpath.yaml", `
server:
  address: ":9090"
  request_timeout: 45s
llm:
  provider: anthropic
  models:
    standard: claude-sonnet-4-5
logging:
  level: debug
  format: console
pipeline:
  guard:
    target_similarity: 0.75
    action_verbs: [submit, upload]
  quality:
    min_stages: 5
    vocabulary: [clinical, patient]
telemetry:
  sinks: [log, redis]
redis:
  address: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 0.75, cfg.Pipeline.Guard.TargetSimilarity, 1e-9)
	assert.Equal(t, []string{"submit", "upload"}, cfg.Pipeline.Guard.ActionVerbs)
	assert.Equal(t, guard.DefaultRules().TrustedCertDomains, cfg.Pipeline.Guard.TrustedCertDomains)
	assert.Equal(t, 5, cfg.Pipeline.Quality.MinStages)
	assert.Equal(t, 2, cfg.Pipeline.Quality.MinKeywords)
	assert.Equal(t, []string{"clinical", "patient"}, cfg.Pipeline.Quality.Vocabulary)
	assert.True(t, cfg.Telemetry.HasSink(SinkRedis))

	client, err := cfg.LLM.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, client.Provider)
	assert.Equal(t, "claude-sonnet-4-5", client.GetModel(llm.TierStandard))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAREERPATH_SERVER_ADDRESS", ":7070")
	t.Setenv("CAREERPATH_LOGGING_FORMAT", "console")
	t.Setenv("CAREERPATH_PIPELINE_QUALITY_MIN_KEYWORDS", "3")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/careerpath")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Pipeline.Quality.MinKeywords)
	assert.Equal(t, "gm-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/careerpath", cfg.Database.URL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/careerpath.yaml")
	assert.ErrorContains(t, err, "failed to read config file")

	path := writeConfig(t, "bad.yaml", "logging:\n  level: loud\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "logging.level")

	path = writeConfig(t, "sinks.yaml", "telemetry:\n  sinks: [postgres]\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "database.url is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "openai" }, wantErr: "llm.provider"},
		{name: "unknown tier", mutate: func(c *Config) { c.LLM.Tier = "turbo" }, wantErr: "llm.tier"},
		{name: "temperature", mutate: func(c *Config) { c.LLM.Temperature = 3 }, wantErr: "llm.temperature"},
		{name: "unknown sink", mutate: func(c *Config) { c.Telemetry.Sinks = []string{"kafka"} }, wantErr: "unknown sink"},
		{name: "redis sink without address", mutate: func(c *Config) { c.Telemetry.Sinks = []string{SinkRedis} }, wantErr: "redis.address"},
		{name: "similarity out of range", mutate: func(c *Config) { c.Pipeline.Guard.TargetSimilarity = 1.5 }, wantErr: "target_similarity"},
		{name: "min stages", mutate: func(c *Config) { c.Pipeline.Quality.MinStages = 0 }, wantErr: "min_stages"},
		{name: "no address", mutate: func(c *Config) { c.Server.Address = "" }, wantErr: "server.address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
