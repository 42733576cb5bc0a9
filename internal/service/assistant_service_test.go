package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hurdl/internal/model"
)

func answers(q1, q2, q3 int, feel, improve string) *model.Response {
	r := &model.Response{}
	r.SetScale(model.Q1, q1)
	r.SetScale(model.Q2, q2)
	r.SetScale(model.Q3, q3)
	r.SetScale(model.Q4, 1)
	r.SetText(model.Q9, feel)
	r.SetText(model.Q10, improve)
	return r
}

func TestReplySystemPrompt_IncludesRatingsAndTone(t *testing.T) {
	p := ReplySystemPrompt(answers(2, 2, 3, "tired", "fewer meetings"))

	assert.Contains(t, p, "Their overall wellbeing is rated 2/5.")
	assert.Contains(t, p, "Their work-life balance is rated 2/5.")
	assert.Contains(t, p, "Their workload manageability is rated 3/5.")
	assert.Contains(t, p, "They described their feelings about work: 'tired'.")
	assert.Contains(t, p, "They suggested workplace improvements: 'fewer meetings'.")
	assert.Contains(t, p, "struggling significantly")
	assert.Contains(t, p, "Guidelines for responses:")
}

func TestReplySystemPrompt_NoToneWithoutAllRatings(t *testing.T) {
	r := &model.Response{}
	r.SetScale(model.Q1, 5)
	r.SetScale(model.Q2, 5)
	p := ReplySystemPrompt(r)

	assert.NotContains(t, p, "workload manageability")
	assert.NotContains(t, p, "doing relatively well")
}

func TestReplySystemPrompt_OmitsOtherAnswers(t *testing.T) {
	p := ReplySystemPrompt(answers(4, 4, 4, "", ""))
	assert.NotContains(t, p, "1/5")
	assert.NotContains(t, p, "feelings about work")
	assert.Contains(t, p, "doing relatively well")
}

func TestAssistant_ReplySendsHistory(t *testing.T) {
	llm := &fakeLLM{reply: "Try a short walk."}
	svc := NewAssistantService(testAIConfig(), llm, zap.NewNop())
	history := []model.ChatMessage{
		{Role: model.RoleAssistant, Content: "Hi!"},
		{Role: model.RoleSystem, Content: "ignored"},
		{Role: model.RoleUser, Content: "I'm stressed"},
		{Role: model.RoleAssistant, Content: "Sorry to hear"},
	}

	got := svc.Reply(context.Background(), "any tips?", answers(3, 3, 3, "", ""), history)

	assert.Equal(t, "Try a short walk.", got)
	req := llm.last()
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 150, req.MaxTokens)
	require.Len(t, req.Messages, 5)
	assert.Equal(t, model.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Hi!", req.Messages[1].Content)
	assert.Equal(t, model.ChatMessage{Role: model.RoleUser, Content: "any tips?"}, req.Messages[4])
}

func TestAssistant_FallbacksOnError(t *testing.T) {
	svc := NewAssistantService(testAIConfig(), &fakeLLM{err: errors.New("timeout")}, zap.NewNop())

	assert.Equal(t, FallbackGreeting, svc.InitialMessage(context.Background(), answers(3, 3, 3, "", "")))
	assert.Equal(t, FallbackReply, svc.Reply(context.Background(), "hello", nil, nil))
}

func TestAssistant_InitialMessageTone(t *testing.T) {
	llm := &fakeLLM{reply: "Hello there"}
	svc := NewAssistantService(testAIConfig(), llm, zap.NewNop())

	assert.Equal(t, "Hello there", svc.InitialMessage(context.Background(), answers(1, 2, 2, "", "")))
	req := llm.last()
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "struggling with workplace wellbeing")
	assert.Equal(t, greetingRequest, req.Messages[1].Content)
}
