package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hurdl/internal/model"
)

// DashboardCache holds computed dashboards for a short TTL
type DashboardCache interface {
	// Get returns the cached dashboard for q, or nil, together with the
	// generation it was looked up under
	Get(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, int64, error)
	// Set stores d under gen. Nothing is written once gen has been invalidated.
	Set(ctx context.Context, gen int64, q model.DashboardQuery, d *model.Dashboard) error
	// Invalidate drops every cached dashboard
	Invalidate(ctx context.Context) error
}

type dashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a new dashboard cache
func NewDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	return &dashboardCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func (c *dashboardCache) generationKey() string {
	return "dashboard:gen"
}

// Entries are keyed under a generation so that bumping it orphans every older
// entry until its TTL runs out.
func (c *dashboardCache) entryKey(gen int64, q model.DashboardQuery) string {
	return fmt.Sprintf("dashboard:%d:%s", gen, QueryHash(q))
}

func (c *dashboardCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return gen, nil
}

func (c *dashboardCache) Get(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := c.client.Get(ctx, c.entryKey(gen, q)).Result()
	if err == redis.Nil {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, err
	}
	var d model.Dashboard
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, gen, err
	}
	return &d, gen, nil
}

func (c *dashboardCache) Set(ctx context.Context, gen int64, q model.DashboardQuery, d *model.Dashboard) error {
	current, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if current != gen {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	// A concurrent Invalidate can still land here; the entry then sits under
	// the old generation, which no reader looks up.
	return c.client.Set(ctx, c.entryKey(gen, q), data, c.ttl).Err()
}

func (c *dashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

// QueryHash is a stable digest of a dashboard query
func QueryHash(q model.DashboardQuery) string {
	var start, end string
	if q.Start != nil {
		start = q.Start.UTC().Format(time.RFC3339Nano)
	}
	if q.End != nil {
		end = q.End.UTC().Format(time.RFC3339Nano)
	}
	sum := sha1.Sum([]byte(start + "|" + end + "|" + q.Department + "|" + q.Location))
	return hex.EncodeToString(sum[:])
}
