package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(ctx, &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestNewClient_Anthropic(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultAnthropicConfig(), "key")
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &AnthropicClient{}, client)
	assert.Equal(t, "claude-3-7-sonnet-latest", client.GetModel(TierStandard))
}

func anthropicServer(t *testing.T, status int, reply string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		if gotPrompt != nil && len(req.Messages) > 0 && len(req.Messages[0].Content) > 0 {
			*gotPrompt = req.Messages[0].Content[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		msg := map[string]any{
			"id":            "msg_01",
			"type":          "message",
			"role":          "assistant",
			"model":         req.Model,
			"content":       []map[string]any{{"type": "text", "text": reply}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		}
		_ = json.NewEncoder(w).Encode(msg)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicClient_GenerateJSON(t *testing.T) {
	var prompt string
	srv := anthropicServer(t, http.StatusOK, "Here you go:\n```json\n{\"paths\": []}\n```", &prompt)

	cfg := DefaultAnthropicConfig()
	cfg.BaseURL = srv.URL + "/"
	client, err := NewAnthropicClient(cfg, "key", option.WithMaxRetries(0))
	require.NoError(t, err)

	out, err := client.GenerateJSON(context.Background(), "Build a ladder", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"paths": []}`, out)
	assert.True(t, strings.HasPrefix(prompt, "Build a ladder"))
	assert.Contains(t, prompt, "JSON document only")
}

func TestAnthropicClient_APIError(t *testing.T) {
	srv := anthropicServer(t, http.StatusInternalServerError, "", nil)

	cfg := DefaultAnthropicConfig()
	cfg.BaseURL = srv.URL + "/"
	client, err := NewAnthropicClient(cfg, "key", option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "hi", TierLite)

	var merr *ModelError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, ProviderAnthropic, merr.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", merr.Model)
}

func TestGenAIClient_GenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"paths\": [{\"nodes\": []}]}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	cfg, err := DefaultConfigFor(ProviderGenAI)
	require.NoError(t, err)
	cfg.BaseURL = srv.URL + "/"

	client, err := NewClient(context.Background(), cfg, "key")
	require.NoError(t, err)
	defer client.Close()

	out, err := client.GenerateJSON(context.Background(), "prompt", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"paths": [{"nodes": []}]}`, out)
}

func TestModelFor_NoModel(t *testing.T) {
	_, err := modelFor(&Config{Provider: ProviderGemini}, TierStandard)

	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Error(), "no model configured")
}
