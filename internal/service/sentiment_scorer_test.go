package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hurdl/internal/config"
)

func TestLLMScorer_ParsesPolarity(t *testing.T) {
	llm := &fakeLLM{reply: " -0.4\n"}
	s := NewLLMScorer(testAIConfig(), llm)

	p, err := s.Polarity(context.Background(), "meh week")
	require.NoError(t, err)
	assert.Equal(t, -0.4, p)
	req := llm.last()
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, "meh week", req.Messages[1].Content)
}

func TestLLMScorer_RejectsBadOutput(t *testing.T) {
	for _, reply := range []string{"positive", "1.5", "-2"} {
		_, err := NewLLMScorer(testAIConfig(), &fakeLLM{reply: reply}).Polarity(context.Background(), "x")
		assert.Error(t, err, reply)
	}
	_, err := NewLLMScorer(testAIConfig(), &fakeLLM{err: errors.New("down")}).Polarity(context.Background(), "x")
	assert.Error(t, err)
}

func TestNewScorer_Selection(t *testing.T) {
	cfg := testAIConfig()
	llm := &fakeLLM{reply: "0.5"}

	// Lexicon by default; the model is never called.
	_, err := NewScorer(cfg, llm, zap.NewNop()).Polarity(context.Background(), "great team")
	require.NoError(t, err)
	assert.Empty(t, llm.requests)

	cfg.Scorer = config.ScorerLLM
	p, err := NewScorer(cfg, llm, zap.NewNop()).Polarity(context.Background(), "great team")
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)
	assert.Len(t, llm.requests, 1)

	cfg.APIKey = ""
	_, err = NewScorer(cfg, llm, zap.NewNop()).Polarity(context.Background(), "great team")
	require.NoError(t, err)
	assert.Len(t, llm.requests, 1)
}
