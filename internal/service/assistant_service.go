package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hurdl/internal/analytics"
	"hurdl/internal/config"
	"hurdl/internal/model"
)

// Fallback messages used when the chat API is unavailable
const (
	FallbackGreeting = "Thanks for completing the survey! I'm Hurdl, your wellbeing assistant. How are you feeling about work this week?"
	FallbackReply    = "I'm having trouble connecting right now. Please try again later."
)

const greetingRequest = "I've just completed the wellbeing survey. What now?"

const replyGuidelines = `
Guidelines for responses:
1. Be empathetic, warm, and supportive.
2. Keep responses concise (2-3 sentences) and conversational.
3. Provide practical, actionable advice when appropriate.
4. Ask follow-up questions to better understand their situation.
5. Do not diagnose medical conditions or provide clinical advice.
6. Respect privacy and confidentiality.
7. Use a supportive, friendly tone throughout.

Topics to focus on:
- Stress management and resilience
- Work-life balance strategies
- Team dynamics and psychological safety
- Communication techniques
- Self-care and wellbeing practices
`

const greetingInstructions = `
Generate a brief initial greeting message from 'Hurdl' (the assistant) to start a conversation about workplace wellbeing.
The message should:
1. Thank them for completing the survey
2. Introduce yourself as Hurdl, a wellbeing assistant
3. Ask an open-ended question to start the conversation about how they're feeling at work
4. Keep it short, 2-3 sentences maximum
5. Be warm, friendly and empathetic
`

var replyTone = map[string]string{
	analytics.BandStruggling: "The user appears to be struggling significantly. Provide empathetic support, validate their feelings, and suggest specific wellbeing strategies. ",
	analytics.BandModerate:   "The user appears to be facing moderate challenges. Offer balanced advice focusing on small improvements and self-care. ",
	analytics.BandDoingWell:  "The user appears to be doing relatively well. Focus on maintaining wellbeing and preventative strategies. ",
}

var greetingTone = map[string]string{
	analytics.BandStruggling: "Their responses indicate they're struggling with workplace wellbeing. ",
	analytics.BandModerate:   "Their responses indicate moderate workplace wellbeing challenges. ",
	analytics.BandDoingWell:  "Their responses indicate they're doing relatively well with workplace wellbeing. ",
}

// AssistantService runs the post check-in wellbeing conversation. Only the
// respondent's q_1..q_3 ratings and free text answers reach the model.
type AssistantService struct {
	config *config.AIConfig
	llm    ChatCompleter
	logger *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(cfg *config.AIConfig, llm ChatCompleter, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		config: cfg,
		llm:    llm,
		logger: logger,
	}
}

// InitialMessage greets the respondent after a submitted check-in
func (s *AssistantService) InitialMessage(ctx context.Context, answers *model.Response) string {
	system := "You are an empathetic wellbeing assistant for a workplace mental health platform. "
	if answers != nil {
		system += "The user has just completed a wellbeing survey. "
		var sum float64
		var n int
		for _, k := range []string{model.Q1, model.Q2, model.Q3} {
			if v, ok := answers.Scale(k); ok && v > 0 {
				sum += float64(v)
				n++
			}
		}
		if n > 0 {
			system += greetingTone[analytics.Band(sum/float64(n))]
		}
	}
	system += greetingInstructions

	msg, err := s.llm.Complete(ctx, s.request([]model.ChatMessage{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: greetingRequest},
	}))
	if err != nil {
		s.logger.Warn("assistant greeting failed, using fallback", zap.Error(err))
		return FallbackGreeting
	}
	return msg
}

// Reply answers userInput in the context of the respondent's answers and the
// conversation so far
func (s *AssistantService) Reply(ctx context.Context, userInput string, answers *model.Response, history []model.ChatMessage) string {
	messages := []model.ChatMessage{{Role: model.RoleSystem, Content: ReplySystemPrompt(answers)}}
	for _, m := range history {
		if m.Role == model.RoleUser || m.Role == model.RoleAssistant {
			messages = append(messages, m)
		}
	}
	messages = append(messages, model.ChatMessage{Role: model.RoleUser, Content: userInput})

	msg, err := s.llm.Complete(ctx, s.request(messages))
	if err != nil {
		s.logger.Warn("assistant reply failed, using fallback", zap.Error(err))
		return FallbackReply
	}
	return msg
}

// ReplySystemPrompt builds the system message for a reply. Tone guidance is
// only added when all three wellbeing ratings are present.
func ReplySystemPrompt(answers *model.Response) string {
	var b strings.Builder
	b.WriteString("You are an empathetic wellbeing assistant named Hurdl, dedicated to supporting workplace mental health. ")

	if answers != nil {
		b.WriteString("Based on the user's survey responses, I can see: ")
		labels := []struct{ key, text string }{
			{model.Q1, "Their overall wellbeing is rated %d/5. "},
			{model.Q2, "Their work-life balance is rated %d/5. "},
			{model.Q3, "Their workload manageability is rated %d/5. "},
		}
		var sum, n int
		for _, l := range labels {
			if v, ok := answers.Scale(l.key); ok {
				fmt.Fprintf(&b, l.text, v)
				sum += v
				n++
			}
		}
		if v, ok := answers.Text(model.Q9); ok && strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, "They described their feelings about work: '%s'. ", v)
		}
		if v, ok := answers.Text(model.Q10); ok && strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, "They suggested workplace improvements: '%s'. ", v)
		}
		if n == len(labels) {
			b.WriteString(replyTone[analytics.Band(float64(sum)/float64(n))])
		}
	}

	b.WriteString(replyGuidelines)
	return b.String()
}

func (s *AssistantService) request(messages []model.ChatMessage) CompletionRequest {
	return CompletionRequest{
		Model:       s.config.Models.Assistant,
		Messages:    messages,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}
}
