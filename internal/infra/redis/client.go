package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/candidhq/intake/internal/core/config"
)

// Client wraps Redis operations for the intake duplicate guard.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func fingerprintKey(email, position string) string {
	return fmt.Sprintf("intake:seen:%s:%s",
		strings.ToLower(strings.TrimSpace(email)),
		strings.ToLower(strings.TrimSpace(position)))
}

// MarkSubmission records an (email, position) fingerprint. The false
// return means the fingerprint already existed within the TTL, i.e. a
// probable duplicate, and the caller should hit the database to confirm.
func (c *Client) MarkSubmission(ctx context.Context, email, position string, ttl time.Duration) (bool, error) {
	set, err := c.rdb.SetNX(ctx, fingerprintKey(email, position), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark submission: %w", err)
	}
	return set, nil
}

// ClearSubmission drops a fingerprint, letting the candidate resubmit
// after an admin removes their record.
func (c *Client) ClearSubmission(ctx context.Context, email, position string) error {
	if err := c.rdb.Del(ctx, fingerprintKey(email, position)).Err(); err != nil {
		return fmt.Errorf("failed to clear submission: %w", err)
	}
	return nil
}
