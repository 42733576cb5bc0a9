package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hurdl/internal/cache"
	"hurdl/internal/config"
	"hurdl/internal/model"
	"hurdl/internal/repository"
)

var errStoreDown = errors.New("store down")

// memRepo is an in-memory ResponseRepo
type memRepo struct {
	mu        sync.Mutex
	responses []*model.Response
	fail      bool
	queries   int
	// afterQuery runs once a query has read its results, outside the lock
	afterQuery func()
}

func (r *memRepo) Insert(ctx context.Context, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errStoreDown
	}
	for _, existing := range r.responses {
		if existing.ResponseID == resp.ResponseID {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateResponse, resp.ResponseID)
		}
	}
	cp := *resp
	r.responses = append(r.responses, &cp)
	return nil
}

func (r *memRepo) Query(ctx context.Context, filter model.ResponseFilter) ([]*model.Response, error) {
	out, err := r.query(filter)
	if r.afterQuery != nil {
		r.afterQuery()
	}
	return out, err
}

func (r *memRepo) query(filter model.ResponseFilter) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.fail {
		return nil, errStoreDown
	}
	out := []*model.Response{}
	for _, resp := range r.responses {
		if filter.Matches(resp) {
			out = append(out, resp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memRepo) stored() []*model.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Response(nil), r.responses...)
}

func (r *memRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errStoreDown
	}
	seen := map[string]bool{}
	out := []string{}
	for _, resp := range r.responses {
		v := resp.Department
		if field == repository.FieldLocation {
			v = resp.Location
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeLLM returns canned completions and records requests
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLLM) last() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// recorder captures dashboard broadcasts
type recorder struct {
	mu        sync.Mutex
	listeners int
	types     []string
	events    []interface{}
}

func (r *recorder) BroadcastToDashboards(msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, msgType)
	r.events = append(r.events, payload)
}

func (r *recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listeners
}

func (r *recorder) received() ([]string, []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...), append([]interface{}(nil), r.events...)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testQuestions(t *testing.T) *model.QuestionSet {
	qs, err := config.LoadQuestions()
	require.NoError(t, err)
	return qs
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		APIKey:      "test-key",
		Models:      config.AIModels{Assistant: "gpt-4o", Sentiment: "gpt-4o-mini"},
		Scorer:      config.ScorerLexicon,
		Temperature: 0.7,
		MaxTokens:   150,
		TimeoutMS:   2000,
	}
}

func newTestDashboard(t *testing.T, repo *memRepo) *DashboardService {
	_, client := newRedis(t)
	svc := NewDashboardService(repo, cache.NewDashboardCache(client, 5*time.Minute),
		NewScorer(testAIConfig(), &fakeLLM{}, zap.NewNop()), testQuestions(t), zap.NewNop())
	svc.now = func() time.Time { return at(20, 0) }
	return svc
}

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func response(dept, loc string, ts time.Time, scale int, text string) *model.Response {
	r := &model.Response{ResponseID: dept + ts.Format(time.RFC3339Nano), Timestamp: ts, Department: dept, Location: loc}
	for _, k := range model.ScaleKeys {
		r.SetScale(k, scale)
	}
	if text != "" {
		r.SetText(model.Q9, text)
	}
	return r
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}
