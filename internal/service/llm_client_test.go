package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hurdl/internal/model"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) *LLMClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := testAIConfig()
	cfg.BaseURL = srv.URL
	return NewLLMClient(cfg, zap.NewNop())
}

func TestLLMClient_Complete(t *testing.T) {
	var body chatCompletionBody
	client := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Take a break.  "}}]}`))
	})

	got, err := client.Complete(context.Background(), CompletionRequest{
		Model:       "gpt-4o",
		Messages:    []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   150,
	})

	require.NoError(t, err)
	assert.Equal(t, "Take a break.", got)
	assert.Equal(t, "gpt-4o", body.Model)
	assert.Equal(t, 150, body.MaxTokens)
	assert.Equal(t, []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}}, body.Messages)
}

func TestLLMClient_APIError(t *testing.T) {
	client := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestLLMClient_NoChoices(t *testing.T) {
	client := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	assert.Error(t, err)
}

func TestLLMClient_Disabled(t *testing.T) {
	cfg := testAIConfig()
	cfg.APIKey = ""
	client := NewLLMClient(cfg, zap.NewNop())

	_, err := client.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, ErrAIDisabled)
}
