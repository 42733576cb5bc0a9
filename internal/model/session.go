package model

import "time"

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CheckinSession is the per-respondent state of the check-in wizard and chat.
// Step 0 is the intro, 1..N the questions, N+1 the thank-you page.
type CheckinSession struct {
	ID         string        `json:"id"`
	Department string        `json:"department"`
	Location   string        `json:"location"`
	Step       int           `json:"step"`
	Draft      Response      `json:"draft"`               // Answers collected so far
	Submitted  *Response     `json:"submitted,omitempty"` // Last persisted check-in, feeds the assistant
	ShowChat   bool          `json:"showChat"`            // Chat unlocked after submit
	Messages   []ChatMessage `json:"messages,omitempty"`  // Chat history
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Progress is the wizard position shown to the respondent
type Progress struct {
	Step  int     `json:"step"`
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"` // 0-1
}

// CheckinView is the wizard page for the current step
type CheckinView struct {
	Session  *CheckinSession `json:"session"`
	Headers  []Question      `json:"headers,omitempty"`  // Section titles shown above the question
	Question *Question       `json:"question,omitempty"` // nil on intro and thank-you
	Progress Progress        `json:"progress"`
	Action   string          `json:"action"` // "Start Survey", "Next Question", "Submit Survey", "Start New Survey"
}

// CheckinAnswer is the respondent's input for the current question. Value is
// used for scale questions, Text for free text ones.
type CheckinAnswer struct {
	Value *int    `json:"value,omitempty"`
	Text  *string `json:"text,omitempty"`
}

// Wizard button labels
const (
	ActionStart  = "Start Survey"
	ActionNext   = "Next Question"
	ActionSubmit = "Submit Survey"
	ActionAgain  = "Start New Survey"
)
