package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache keeps recently computed report envelopes in Redis for a short TTL.
// The cache key covers every filter dimension, so distinct filters never
// collide. A nil Cache is a valid no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(f Filter) string {
	start, end := "-", "-"
	if f.StartDate != nil {
		start = f.StartDate.UTC().Format("2006-01-02")
	}
	if f.EndDate != nil {
		end = f.EndDate.UTC().Format("2006-01-02")
	}
	category, eventID := f.Category, f.EventID
	if category == "" {
		category = "-"
	}
	if eventID == "" {
		eventID = "-"
	}
	return fmt.Sprintf("reports:sales:%s:%s:%s:%s:%d", start, end, category, eventID, f.PeriodDays)
}

// Get returns the cached envelope for the filter, or nil on a miss. Cache
// failures are returned so the caller can log them and fall through to a
// fresh computation.
func (c *Cache) Get(ctx context.Context, f Filter) (*Envelope, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	payload, err := c.client.Get(ctx, cacheKey(f)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Set stores the envelope under the filter's key for the configured TTL.
func (c *Cache) Set(ctx context.Context, f Filter, env *Envelope) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(f), payload, c.ttl).Err()
}

// Invalidate drops every cached report. Called by the sales ingestor after
// new rows land so stale envelopes never outlive fresh data by more than
// one TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, "reports:sales:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
