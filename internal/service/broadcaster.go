package service

import (
	"time"

	"hurdl/internal/model"
)

// Dashboard event types
const (
	EventResponseSubmitted = "response_submitted"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToDashboards(msgType string, payload interface{})
	// Count returns the number of connected dashboards
	Count() int
}

// SubmissionEvent tells connected dashboards that a check-in arrived. It
// carries no answers.
type SubmissionEvent struct {
	SubmittedAt    time.Time          `json:"submittedAt"`
	Department     string             `json:"department"`
	Location       string             `json:"location"`
	TotalResponses int                `json:"totalResponses"`
	Alerts         []model.TrendAlert `json:"alerts"`
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToDashboards(string, interface{}) {}

func (noopBroadcaster) Count() int { return 0 }
