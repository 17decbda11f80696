package llmservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"word-qa/internal/config"
	"word-qa/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAnthropicClient(&config.AnthropicConfig{BaseURL: server.URL, Version: "2023-06-01"}, "test-key", 5*time.Second)
	require.NoError(t, err)
	return client
}

func writeMessage(w http.ResponseWriter, model, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":   model,
		"content": []map[string]string{{"type": "text", "text": text}},
	})
}

func TestAnthropicClient_Send(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("content-type"))

		var req Request
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "model-a", req.Model)
		assert.Equal(t, 1500, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "hello", req.Messages[0].Content)
		}

		writeMessage(w, req.Model, "  an answer  ")
	})

	resp, err := client.Send(context.Background(), userRequest("model-a", "hello", 1500))
	require.NoError(t, err)
	assert.Equal(t, "model-a", resp.Model)
	assert.Equal(t, "  an answer  ", resp.Text)
}

func TestAnthropicClient_Overloaded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(StatusOverloaded)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error"}}`))
	})

	_, err := client.Send(context.Background(), userRequest("model-a", "hello", 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverloaded)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, StatusOverloaded, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "overloaded_error")
}

func TestAnthropicClient_OtherStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Send(context.Background(), userRequest("model-a", "hello", 10))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOverloaded)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"model-a","content":[]}`))
	})

	_, err := client.Send(context.Background(), userRequest("model-a", "hello", 10))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [`))
	})

	_, err := client.Send(context.Background(), userRequest("model-a", "hello", 10))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestNewAnthropicClient_MissingKey(t *testing.T) {
	_, err := NewAnthropicClient(&config.AnthropicConfig{APIKeyEnv: "ANTHROPIC_API_KEY"}, "", time.Second)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestInvoker_FallsBackOverHTTP(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		mu.Lock()
		seen = append(seen, req.Model)
		mu.Unlock()
		if req.Model == "primary" {
			w.WriteHeader(StatusOverloaded)
			return
		}
		writeMessage(w, req.Model, "fallback answer")
	})

	invoker := NewInvoker(client, InvokerConfig{Policy: FallbackPolicy{Candidates: []models.Candidate{
		{ID: "primary", DisplayName: "Primary"},
		{ID: "secondary", DisplayName: "Secondary"},
	}}})

	result := invoker.Invoke(context.Background(), "question?", "corpus", 1, 1, 100)
	assert.True(t, result.Success)
	assert.Equal(t, "secondary", result.ModelUsed)
	assert.Equal(t, "fallback answer", result.Text)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"primary", "secondary"}, seen)
}
