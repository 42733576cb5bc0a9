package config

import (
	"os"
	"strings"
)

// Sentiment scorers
const (
	ScorerLexicon = "lexicon"
	ScorerLLM     = "llm"
)

// AIModels defines which models to use for different tasks
type AIModels struct {
	// Assistant is the chat model behind the post check-in conversation
	Assistant string `json:"assistant"`

	// Sentiment rates free text answers when the llm scorer is selected
	Sentiment string `json:"sentiment"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey      string   `json:"-"` // Never serialize
	BaseURL     string   `json:"baseUrl"`
	Models      AIModels `json:"models"`
	Scorer      string   `json:"scorer"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"maxTokens"`
	TimeoutMS   int      `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	key := os.Getenv("ASSISTANT_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	return &AIConfig{
		APIKey:  key,
		BaseURL: strings.TrimRight(getEnvOrDefault("ASSISTANT_BASE_URL", "https://api.openai.com/v1"), "/"),
		Models: AIModels{
			Assistant: getEnvOrDefault("ASSISTANT_MODEL", "gpt-4o"),
			Sentiment: getEnvOrDefault("SENTIMENT_MODEL", "gpt-4o-mini"),
		},
		Scorer:      strings.ToLower(getEnvOrDefault("SENTIMENT_SCORER", ScorerLexicon)),
		Temperature: getFloatOrDefault("ASSISTANT_TEMPERATURE", 0.7),
		MaxTokens:   getIntOrDefault("ASSISTANT_MAX_TOKENS", 150),
		TimeoutMS:   getIntOrDefault("ASSISTANT_TIMEOUT_MS", 10000),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ChatEndpoint returns the chat completions endpoint
func (c *AIConfig) ChatEndpoint() string {
	return c.BaseURL + "/chat/completions"
}
