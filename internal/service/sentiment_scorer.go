package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hurdl/internal/analytics"
	"hurdl/internal/config"
	"hurdl/internal/model"
	"hurdl/internal/sentiment"
)

const scorerPrompt = `You rate the sentiment of an employee's anonymous workplace feedback.
Reply with a single number between -1 (very negative) and 1 (very positive), and nothing else.`

// LLMScorer rates polarity with the chat completions API
type LLMScorer struct {
	config *config.AIConfig
	llm    ChatCompleter
}

// NewLLMScorer creates a model-backed polarity scorer
func NewLLMScorer(cfg *config.AIConfig, llm ChatCompleter) *LLMScorer {
	return &LLMScorer{
		config: cfg,
		llm:    llm,
	}
}

// Polarity asks the model for a score in [-1, 1]
func (s *LLMScorer) Polarity(ctx context.Context, text string) (float64, error) {
	out, err := s.llm.Complete(ctx, CompletionRequest{
		Model: s.config.Models.Sentiment,
		Messages: []model.ChatMessage{
			{Role: model.RoleSystem, Content: scorerPrompt},
			{Role: model.RoleUser, Content: text},
		},
		Temperature: 0,
		MaxTokens:   8,
	})
	if err != nil {
		return 0, err
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable polarity %q: %w", out, err)
	}
	if p < -1 || p > 1 {
		return 0, fmt.Errorf("polarity %v out of range", p)
	}
	return p, nil
}

// loggingScorer logs and passes through scorer failures
type loggingScorer struct {
	scorer analytics.Scorer
	logger *zap.Logger
}

func (s loggingScorer) Polarity(ctx context.Context, text string) (float64, error) {
	p, err := s.scorer.Polarity(ctx, text)
	if err != nil {
		s.logger.Warn("sentiment scoring failed, answer skipped", zap.Int("text_len", len(text)), zap.Error(err))
	}
	return p, err
}

// NewScorer picks the polarity scorer named in cfg. The llm scorer falls back
// to the lexicon when no API key is configured.
func NewScorer(cfg *config.AIConfig, llm ChatCompleter, logger *zap.Logger) analytics.Scorer {
	var scorer analytics.Scorer = sentiment.NewLexicon()
	if cfg.Scorer == config.ScorerLLM {
		if cfg.IsEnabled() {
			scorer = NewLLMScorer(cfg, llm)
		} else {
			logger.Warn("llm sentiment scorer selected without api key, using lexicon")
		}
	}
	return loggingScorer{scorer: scorer, logger: logger}
}
