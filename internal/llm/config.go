// Package llm provides centralized model configuration and client abstractions
// for the providers the career path generator can call.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap, fast calls
	TierLite ModelTier = "lite"
	// TierStandard is for structured output at moderate cost; career paths use it by default
	TierStandard ModelTier = "standard"
	// TierAdvanced is for the most capable model
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is Google Gemini through github.com/google/generative-ai-go
	ProviderGemini Provider = "gemini"
	// ProviderGenAI is Google Gemini through the unified google.golang.org/genai SDK
	ProviderGenAI Provider = "genai"
	// ProviderAnthropic is Anthropic Claude
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int

	// BaseURL overrides the provider endpoint (genai and anthropic only).
	BaseURL string
}

const (
	defaultTemperature     = 0.2
	defaultMaxOutputTokens = 4096
)

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultConfigFor returns the default configuration of a provider.
func DefaultConfigFor(p Provider) (*Config, error) {
	switch p {
	case ProviderGemini, "":
		return DefaultGeminiConfig(), nil
	case ProviderGenAI:
		cfg := DefaultGeminiConfig()
		cfg.Provider = ProviderGenAI
		return cfg, nil
	case ProviderAnthropic:
		return DefaultAnthropicConfig(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", p)
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-3-7-sonnet-latest",
			TierAdvanced: "claude-3-7-sonnet-latest",
		},
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

func (c *Config) maxTokens() int {
	if c.MaxOutputTokens <= 0 {
		return defaultMaxOutputTokens
	}
	return c.MaxOutputTokens
}
