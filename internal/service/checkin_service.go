package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hurdl/internal/cache"
	"hurdl/internal/model"
	"hurdl/internal/repository"
)

// notifyTimeout bounds the dashboard rebuild behind a submission event
const notifyTimeout = 30 * time.Second

var (
	ErrSessionNotFound  = errors.New("check-in session not found")
	ErrInvalidSelection = errors.New("unknown department or location")
	ErrInvalidAnswer    = errors.New("invalid answer")
	ErrChatUnavailable  = errors.New("chat opens after the check-in is submitted")
	ErrEmptyMessage     = errors.New("message is empty")
)

// CheckinService drives the anonymous weekly check-in wizard and the chat
// that follows it
type CheckinService struct {
	questions   *model.QuestionSet
	sessions    cache.SessionCache
	repo        repository.ResponseRepo
	dashboard   *DashboardService
	assistant   *AssistantService
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time

	// one dashboard rebuild at a time for submission events
	notifySlot chan struct{}
}

// NewCheckinService creates a new check-in service
func NewCheckinService(
	questions *model.QuestionSet,
	sessions cache.SessionCache,
	repo repository.ResponseRepo,
	dashboard *DashboardService,
	assistant *AssistantService,
	logger *zap.Logger,
) *CheckinService {
	return &CheckinService{
		questions:   questions,
		sessions:    sessions,
		repo:        repo,
		dashboard:   dashboard,
		assistant:   assistant,
		broadcaster: noopBroadcaster{},
		logger:      logger,
		now:         time.Now,
		notifySlot:  make(chan struct{}, 1),
	}
}

// SetBroadcaster sets the dashboard broadcaster
func (s *CheckinService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Questions returns the check-in question set
func (s *CheckinService) Questions() *model.QuestionSet {
	return s.questions
}

// Start opens a new session on the intro step
func (s *CheckinService) Start(ctx context.Context, department, location string) (*model.CheckinView, error) {
	if !s.questions.HasDepartment(department) || !s.questions.HasLocation(location) {
		return nil, ErrInvalidSelection
	}
	now := s.now().UTC()
	session := &model.CheckinSession{
		ID:         uuid.New().String(),
		Department: department,
		Location:   location,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Current returns the page for the session's current step
func (s *CheckinService) Current(ctx context.Context, id string) (*model.CheckinView, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Advance applies the wizard button for the current step. On a question step
// the answer is recorded first; the last question persists the response.
func (s *CheckinService) Advance(ctx context.Context, id string, answer model.CheckinAnswer) (*model.CheckinView, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	total := len(s.questions.Answerable())
	switch {
	case session.Step == 0:
		session.Step = 1

	case session.Step < total:
		if err := s.record(session, answer); err != nil {
			return nil, err
		}
		session.Step++

	case session.Step == total:
		if err := s.record(session, answer); err != nil {
			return nil, err
		}
		if err := s.submit(ctx, session); err != nil {
			return nil, err
		}
		return s.view(session), nil

	default:
		session.Step = 0
		session.Draft = model.Response{}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// ChatHistory returns the conversation, greeting the respondent on first use
func (s *CheckinService) ChatHistory(ctx context.Context, id string) ([]model.ChatMessage, error) {
	session, err := s.chatSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

// Chat sends a message to the assistant and returns the updated conversation
func (s *CheckinService) Chat(ctx context.Context, id, message string) ([]model.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	session, err := s.chatSession(ctx, id)
	if err != nil {
		return nil, err
	}

	reply := s.assistant.Reply(ctx, message, session.Submitted, session.Messages)
	session.Messages = append(session.Messages,
		model.ChatMessage{Role: model.RoleUser, Content: message},
		model.ChatMessage{Role: model.RoleAssistant, Content: reply},
	)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *CheckinService) chatSession(ctx context.Context, id string) (*model.CheckinSession, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.ShowChat || session.Submitted == nil {
		return nil, ErrChatUnavailable
	}
	if len(session.Messages) == 0 {
		greeting := s.assistant.InitialMessage(ctx, session.Submitted)
		session.Messages = []model.ChatMessage{{Role: model.RoleAssistant, Content: greeting}}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// record stores the answer to the question at the session's step
func (s *CheckinService) record(session *model.CheckinSession, answer model.CheckinAnswer) error {
	q := s.questions.Answerable()[session.Step-1]
	switch q.Type {
	case model.QuestionTypeScale:
		v := model.ScaleDefault
		if answer.Value != nil {
			v = *answer.Value
		}
		if v < model.ScaleMin || v > model.ScaleMax {
			return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidAnswer, q.ID, model.ScaleMin, model.ScaleMax)
		}
		session.Draft.SetScale(q.ID, v)
	case model.QuestionTypeText:
		text := ""
		if answer.Text != nil {
			text = *answer.Text
		}
		session.Draft.SetText(q.ID, text)
	}
	return nil
}

// submit persists the drafted response and opens the chat. The response id
// is fixed in the session before the insert, so retrying after a failed
// session write cannot store the response twice.
func (s *CheckinService) submit(ctx context.Context, session *model.CheckinSession) error {
	if session.Draft.ResponseID == "" {
		session.Draft.ResponseID = uuid.New().String()
		session.Draft.Timestamp = s.now().UTC()
		if err := s.save(ctx, session); err != nil {
			return err
		}
	}
	resp := session.Draft
	resp.Department = session.Department
	resp.Location = session.Location

	err := s.repo.Insert(ctx, &resp)
	switch {
	case errors.Is(err, repository.ErrDuplicateResponse):
		s.logger.Info("check-in already stored, resuming", zap.String("response_id", resp.ResponseID))
	case err != nil:
		return err
	default:
		s.logger.Info("check-in submitted", zap.String("department", resp.Department), zap.String("location", resp.Location))
	}

	session.Submitted = &resp
	session.Draft = model.Response{}
	session.ShowChat = true
	session.Messages = nil
	session.Step = len(s.questions.Answerable()) + 1
	if err := s.save(ctx, session); err != nil {
		return err
	}

	s.dashboard.Invalidate(ctx)
	s.notify(ctx, resp)
	return nil
}

// notify pushes fresh alerts to connected dashboards. The rebuild runs off the
// request and only while someone is watching.
func (s *CheckinService) notify(ctx context.Context, resp model.Response) {
	if s.broadcaster.Count() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		select {
		case s.notifySlot <- struct{}{}:
			defer func() { <-s.notifySlot }()
		case <-ctx.Done():
			s.logger.Warn("dropped submission event", zap.Error(ctx.Err()))
			return
		}

		event := SubmissionEvent{
			SubmittedAt: resp.Timestamp,
			Department:  resp.Department,
			Location:    resp.Location,
			Alerts:      []model.TrendAlert{},
		}
		if d, err := s.dashboard.Build(ctx, model.DashboardQuery{}); err == nil {
			event.TotalResponses = d.TotalResponses
			event.Alerts = d.Trends
		}
		s.broadcaster.BroadcastToDashboards(EventResponseSubmitted, event)
	}()
}

func (s *CheckinService) view(session *model.CheckinSession) *model.CheckinView {
	answerable := s.questions.Answerable()
	total := len(answerable)
	v := &model.CheckinView{
		Session:  session,
		Progress: model.Progress{Step: session.Step, Total: total},
	}
	if session.Step > 0 {
		v.Progress.Ratio = min(float64(session.Step)/float64(total), 1)
	}

	switch {
	case session.Step == 0:
		v.Action = model.ActionStart
	case session.Step <= total:
		v.Headers, v.Question = s.questionAt(session.Step)
		v.Action = model.ActionNext
		if session.Step == total {
			v.Action = model.ActionSubmit
		}
	default:
		v.Action = model.ActionAgain
	}
	return v
}

// questionAt returns the step-th answerable question and the section headers
// directly above it
func (s *CheckinService) questionAt(step int) ([]model.Question, *model.Question) {
	var headers []model.Question
	n := 0
	for _, q := range s.questions.Questions {
		if q.IsHeader() {
			headers = append(headers, q)
			continue
		}
		n++
		if n == step {
			return headers, &q
		}
		headers = nil
	}
	return nil, nil
}

func (s *CheckinService) get(ctx context.Context, id string) (*model.CheckinSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *CheckinService) save(ctx context.Context, session *model.CheckinSession) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Set(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
