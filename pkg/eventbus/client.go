package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPollInterval bounds each BLPOP so blocked receivers notice
// cancellation and Close.
const DefaultPollInterval = time.Second

// Client provides Redis operations for event lanes and run summaries.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb          *redis.Client
	pollInterval time.Duration
}

// NewClient creates a new Redis-backed client.
//
// Every receiver blocked on a RedisBus holds one pooled connection, so
// redisOpts.PoolSize should exceed the number of concurrent workers.
func NewClient(redisOpts *redis.Options) (*Client, error) {
	if redisOpts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		pollInterval: DefaultPollInterval,
	}, nil
}

// SetPollInterval changes how long a single BLPOP may block.
// BLPOP timeouts have whole-second resolution; shorter intervals are raised
// to one second, since a zero timeout would block forever.
func (c *Client) SetPollInterval(d time.Duration) {
	if d < time.Second {
		d = time.Second
	}
	c.pollInterval = d.Truncate(time.Second)
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// NewBus returns a bus whose lanes live under the given run ID.
// Lanes left over from an earlier run with the same ID are cleared.
func (c *Client) NewBus(ctx context.Context, runID string) (*RedisBus, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	b := &RedisBus{
		client: c,
		runID:  runID,
		done:   make(chan struct{}),
	}
	if err := b.clear(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// SaveSummary writes a run summary hash.
func (c *Client) SaveSummary(ctx context.Context, s *RunSummary) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid run summary: %w", err)
	}

	key := SummaryKey(s.RunID)
	if err := c.rdb.HSet(ctx, key, SummaryToHash(s)).Err(); err != nil {
		return fmt.Errorf("failed to write run summary to Redis: %w", err)
	}
	return nil
}

// GetSummary retrieves a run summary by run ID.
// Returns (nil, redis.Nil) if the run doesn't exist.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetSummary(ctx context.Context, runID string) (*RunSummary, error) {
	hash, err := c.rdb.HGetAll(ctx, SummaryKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run summary from Redis: %w", err)
	}

	// HGetAll returns an empty map for missing keys
	if len(hash) == 0 {
		return nil, redis.Nil
	}

	s, err := HashToSummary(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize run summary: %w", err)
	}
	return s, nil
}

// ListSummaries returns every stored run summary, most recent first.
func (c *Client) ListSummaries(ctx context.Context) ([]*RunSummary, error) {
	var summaries []*RunSummary

	iter := c.rdb.Scan(ctx, 0, SummaryKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		hash, err := c.rdb.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", iter.Val(), err)
		}
		if len(hash) == 0 {
			continue
		}
		s, err := HashToSummary(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize %s: %w", iter.Val(), err)
		}
		summaries = append(summaries, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan run summaries: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CompletedAtMs > summaries[j].CompletedAtMs
	})
	return summaries, nil
}

// IsNotFound reports whether err means the requested key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
