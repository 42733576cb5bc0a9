package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hurdl/internal/config"
	"hurdl/internal/model"
)

// ErrAIDisabled is returned when no API key is configured
var ErrAIDisabled = errors.New("ai api not configured")

// ChatCompleter produces the next assistant message for a conversation
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one chat completion call
type CompletionRequest struct {
	Model       string
	Messages    []model.ChatMessage
	Temperature float64
	MaxTokens   int
}

type chatCompletionBody struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type chatCompletionResult struct {
	Choices []struct {
		Message model.ChatMessage `json:"message"`
	} `json:"choices"`
}

type chatCompletionError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// LLMClient calls an OpenAI compatible chat completions API
type LLMClient struct {
	config     *config.AIConfig
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewLLMClient creates a chat completions client
func NewLLMClient(cfg *config.AIConfig, logger *zap.Logger) *LLMClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutMS)*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &LLMClient{
		config:     cfg,
		httpClient: client,
		logger:     logger,
	}
}

// Complete sends the conversation and returns the first choice's content
func (c *LLMClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.config.IsEnabled() {
		return "", ErrAIDisabled
	}

	var result chatCompletionResult
	var apiErr chatCompletionError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(chatCompletionBody{
			Model:       req.Model,
			Messages:    req.Messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.config.ChatEndpoint())
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("chat completion returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", req.Model),
			zap.String("error", apiErr.Error.Message),
		)
		return "", fmt.Errorf("chat completion: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion: empty message")
	}
	return content, nil
}
