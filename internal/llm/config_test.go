package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestDefaultConfigFor(t *testing.T) {
	tests := []struct {
		provider Provider
		want     Provider
		standard string
	}{
		{provider: "", want: ProviderGemini, standard: "gemini-2.5-flash"},
		{provider: ProviderGemini, want: ProviderGemini, standard: "gemini-2.5-flash"},
		{provider: ProviderGenAI, want: ProviderGenAI, standard: "gemini-2.5-flash"},
		{provider: ProviderAnthropic, want: ProviderAnthropic, standard: "claude-3-7-sonnet-latest"},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			cfg, err := DefaultConfigFor(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Provider)
			assert.Equal(t, tt.standard, cfg.GetModel(TierStandard))
		})
	}

	_, err := DefaultConfigFor("openai")
	assert.Error(t, err)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier falls back to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original is unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.Temperature, newConfig.Temperature)
}

func TestMaxTokens(t *testing.T) {
	assert.Equal(t, defaultMaxOutputTokens, (&Config{}).maxTokens())
	assert.Equal(t, 512, (&Config{MaxOutputTokens: 512}).maxTokens())
}
