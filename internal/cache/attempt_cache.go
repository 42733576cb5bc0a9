package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCache counts failed login attempts per username inside a window
type AttemptCache interface {
	// Fail records a failed attempt and returns the count in the current window
	Fail(ctx context.Context, username string, window time.Duration) (int64, error)
	Count(ctx context.Context, username string) (int64, error)
	Reset(ctx context.Context, username string) error
}

type attemptCache struct {
	client *redis.Client
}

// NewAttemptCache creates a new login attempt counter
func NewAttemptCache(client *redis.Client) AttemptCache {
	return &attemptCache{
		client: client,
	}
}

func (c *attemptCache) key(username string) string {
	return fmt.Sprintf("login:%s:failures", username)
}

func (c *attemptCache) Fail(ctx context.Context, username string, window time.Duration) (int64, error) {
	key := c.key(username)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// The window starts at the first failure.
	if n == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *attemptCache) Count(ctx context.Context, username string) (int64, error) {
	n, err := c.client.Get(ctx, c.key(username)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (c *attemptCache) Reset(ctx context.Context, username string) error {
	return c.client.Del(ctx, c.key(username)).Err()
}
