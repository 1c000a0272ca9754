package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alujo/logger"

	"github.com/redis/go-redis/v9"
)

// FeedCache caches discovery feed payloads in redis as JSON. A cache miss
// is never an error; callers fall through to the database.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache builds a feed cache with the given entry TTL.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(name string) string {
	return fmt.Sprintf("feed:%s", name)
}

// Get loads a cached feed into dest. Returns false on miss or any cache
// failure; cache trouble must never fail a request.
func (c *FeedCache) Get(ctx context.Context, name string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, feedKey(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Feed cache read failed", logger.String("feed", name), logger.ErrorField(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("Feed cache entry corrupt", logger.String("feed", name), logger.ErrorField(err))
		return false
	}
	return true
}

// Set stores a feed payload. Failures are logged and swallowed.
func (c *FeedCache) Set(ctx context.Context, name string, val interface{}) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(val)
	if err != nil {
		logger.Warn("Feed cache marshal failed", logger.String("feed", name), logger.ErrorField(err))
		return
	}

	if err := c.client.Set(ctx, feedKey(name), data, c.ttl).Err(); err != nil {
		logger.Warn("Feed cache write failed", logger.String("feed", name), logger.ErrorField(err))
	}
}
