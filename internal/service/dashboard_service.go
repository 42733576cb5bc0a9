package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"hurdl/internal/analytics"
	"hurdl/internal/cache"
	"hurdl/internal/model"
	"hurdl/internal/repository"
)

// DefaultRangeDays is the length of the dashboard's default date range
const DefaultRangeDays = 30

// DashboardService computes the HR dashboard from the response store
type DashboardService struct {
	repo   repository.ResponseRepo
	cache  cache.DashboardCache
	scorer analytics.Scorer
	schema analytics.Schema
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service. The engine schema is
// derived from the configured question set.
func NewDashboardService(
	repo repository.ResponseRepo,
	dashboardCache cache.DashboardCache,
	scorer analytics.Scorer,
	questions *model.QuestionSet,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		repo:   repo,
		cache:  dashboardCache,
		scorer: scorer,
		schema: analytics.NewSchema(questions.Keys(), true),
		logger: logger,
		now:    time.Now,
	}
}

// Build returns the dashboard for q, from cache when possible. A store
// failure yields an empty dashboard flagged as degraded, never an error.
func (s *DashboardService) Build(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error) {
	cached, gen, err := s.cache.Get(ctx, q)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	history, degraded := s.load(ctx, model.ResponseFilter{})
	resolved := ResolveRange(q, history)

	current := []*model.Response{}
	if !degraded {
		current, degraded = s.load(ctx, model.ResponseFilter{
			Start:      resolved.Start,
			End:        resolved.End,
			Department: resolved.Department,
			Location:   resolved.Location,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := s.compute(ctx, analytics.NewDataset(s.schema, history), analytics.NewDataset(s.schema, current))
	d.Query = resolved
	d.Degraded = degraded
	d.Options = s.filterOptions(ctx, history, degraded)

	if cacheable && !degraded {
		if err := s.cache.Set(ctx, gen, q, d); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return d, nil
}

// Invalidate drops cached dashboards after new data arrives
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// Responses returns the responses matching an already resolved query
func (s *DashboardService) Responses(ctx context.Context, q model.DashboardQuery) ([]*model.Response, error) {
	return s.repo.Query(ctx, model.ResponseFilter{
		Start:      q.Start,
		End:        q.End,
		Department: q.Department,
		Location:   q.Location,
	})
}

func (s *DashboardService) load(ctx context.Context, filter model.ResponseFilter) ([]*model.Response, bool) {
	responses, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load responses, serving empty dashboard", zap.Error(err))
		return []*model.Response{}, true
	}
	return responses, false
}

func (s *DashboardService) compute(ctx context.Context, history, current analytics.Dataset) *model.Dashboard {
	// Trend detection re-analyzes the current subset; the memo keeps it to one
	// scorer call per answer and the alert in line with the sentiment card.
	scorer := analytics.Memoize(s.scorer)
	wellbeing := analytics.WellbeingIndex(current)
	safety := analytics.PsychologicalSafety(current)
	sentiment := analytics.AnalyzeSentiment(ctx, current, scorer)

	return &model.Dashboard{
		ResponseCount:       current.Len(),
		TotalResponses:      history.Len(),
		Wellbeing:           card(wellbeing),
		PsychologicalSafety: card(safety),
		Sentiment:           sentiment,
		SentimentCard:       card(sentiment.Overall),
		Workload:            analytics.WorkloadScores(current),
		Trends:              analytics.DetectTrends(ctx, history, current, scorer),
		Breakdowns:          analytics.ComputeBreakdowns(current),
		GeneratedAt:         s.now().UTC(),
	}
}

// filterOptions lists the selectable departments and locations, each
// prefixed with "All", and the date bounds of the stored responses
func (s *DashboardService) filterOptions(ctx context.Context, history []*model.Response, degraded bool) model.FilterOptions {
	opts := model.FilterOptions{
		Departments: []string{model.AllValue},
		Locations:   []string{model.AllValue},
	}
	if degraded {
		return opts
	}

	departments, err := s.repo.Distinct(ctx, repository.FieldDepartment)
	if err != nil {
		s.logger.Warn("failed to list departments", zap.Error(err))
		departments = distinct(history, func(r *model.Response) string { return r.Department })
	}
	locations, err := s.repo.Distinct(ctx, repository.FieldLocation)
	if err != nil {
		s.logger.Warn("failed to list locations", zap.Error(err))
		locations = distinct(history, func(r *model.Response) string { return r.Location })
	}
	sort.Strings(departments)
	sort.Strings(locations)
	opts.Departments = append(opts.Departments, departments...)
	opts.Locations = append(opts.Locations, locations...)

	if minTs, maxTs, ok := bounds(history); ok {
		opts.MinDate = &minTs
		opts.MaxDate = &maxTs
	}
	return opts
}

// ResolveRange fills in the default date range: the 30 days up to the day of
// the latest response, whole days, never starting before the first response.
func ResolveRange(q model.DashboardQuery, history []*model.Response) model.DashboardQuery {
	minTs, maxTs, ok := bounds(history)
	if !ok {
		return q
	}
	if q.End == nil {
		end := EndOfDay(maxTs)
		q.End = &end
	}
	if q.Start == nil {
		start := StartOfDay(q.End.AddDate(0, 0, -DefaultRangeDays))
		if first := StartOfDay(minTs); start.Before(first) {
			start = first
		}
		q.Start = &start
	}
	return q
}

// StartOfDay is midnight of t's day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last microsecond of t's day, the finest precision either
// store keeps
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

func card(v float64) model.MetricCard {
	c := model.MetricCard{Value: v}
	if v > 0 {
		c.Band = analytics.Band(v)
	}
	return c
}

func bounds(responses []*model.Response) (time.Time, time.Time, bool) {
	if len(responses) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minTs, maxTs := responses[0].Timestamp, responses[0].Timestamp
	for _, r := range responses[1:] {
		if r.Timestamp.Before(minTs) {
			minTs = r.Timestamp
		}
		if r.Timestamp.After(maxTs) {
			maxTs = r.Timestamp
		}
	}
	return minTs, maxTs, true
}

func distinct(responses []*model.Response, field func(*model.Response) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range responses {
		v := field(r)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
