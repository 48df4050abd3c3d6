package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yachai_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(serverURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:     serverURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   2000,
	})
}

func TestAIService_Chat(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hola"}},
			},
		})
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	out, err := svc.Chat(context.Background(), "di hola", ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hola", out)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "di hola", got.Messages[0].Content)
	// 未指定时采用配置默认值
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 2000, got.MaxTokens)
	assert.Nil(t, got.ResponseFormat)
}

func TestAIService_ChatOptionsOverride(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{}"}},
			},
		})
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	_, err := svc.Chat(context.Background(), "p", ChatOptions{Temperature: 0.8, MaxTokens: 200, JSONObject: true})
	require.NoError(t, err)

	assert.Equal(t, 0.8, got.Temperature)
	assert.Equal(t, 200, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestAIService_ChatHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	_, err := svc.Chat(context.Background(), "p", ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAIService_ChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "model not found"}}`))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	_, err := svc.Chat(context.Background(), "p", ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestAIService_ChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	_, err := svc.Chat(context.Background(), "p", ChatOptions{})
	require.Error(t, err)
}
