package service

import (
	"braingain_backend/internal/config"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIChatClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIChatClient(config.AIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
}

func TestOpenAIChatClientRequestsJSONObject(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
		assert.Len(t, body["messages"], 2)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": ` {"questions": []} `},
					"finish_reason": "stop",
				},
			},
		})
	})

	content, err := client.CompleteJSON(context.Background(), ChatRequest{
		System:      "system",
		Prompt:      "prompt",
		Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"questions": []}`, content)
}

func TestOpenAIChatClientMapsRateLimit(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	})

	_, err := client.CompleteJSON(context.Background(), ChatRequest{Prompt: "prompt"})
	var rateLimit *RateLimitError
	assert.True(t, errors.As(err, &rateLimit), "got %v", err)
}

func TestOpenAIChatClientMapsServerError(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "internal", "type": "server_error"},
		})
	})

	_, err := client.CompleteJSON(context.Background(), ChatRequest{Prompt: "prompt"})
	var unavailable *ProviderUnavailableError
	assert.True(t, errors.As(err, &unavailable), "got %v", err)
}

func TestNewChatClientWithoutKey(t *testing.T) {
	client, err := NewChatClient(context.Background(), config.AIConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, client)

	client, err = NewChatClient(context.Background(), config.AIConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.Nil(t, client)
}
