package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier.
	// The returned text has fences and surrounding prose removed but is not parsed.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the provider model name used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ModelError wraps a failed provider call.
type ModelError struct {
	Provider Provider
	Model    string
	Message  string
	Cause    error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s/%s): %v", e.Message, e.Provider, e.Model, e.Cause)
	}
	return fmt.Sprintf("%s (%s/%s)", e.Message, e.Provider, e.Model)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for provider %s", config.Provider)
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGenAI:
		return NewGenAIClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

func modelFor(config *Config, tier ModelTier) (string, error) {
	modelName := config.GetModel(tier)
	if modelName == "" {
		return "", &ModelError{Provider: config.Provider, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}
	return modelName, nil
}
