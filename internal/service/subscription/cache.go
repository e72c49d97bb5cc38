package subscription

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keeps detector results in redis for a short TTL. Candidates are
// derived data, so expiry simply falls back to recomputation; a cache
// failure is never surfaced to the caller.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache returns nil when ttl is zero, which disables caching entirely.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(userID string) string {
	return "subscriptions:" + userID
}

func (c *Cache) Get(ctx context.Context, userID string) ([]Candidate, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var candidates []Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		c.logger.Warn("dropping unreadable cached candidates", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return candidates, true
}

func (c *Cache) Set(ctx context.Context, userID string, candidates []Candidate) {
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache candidates", zap.String("user_id", userID), zap.Error(err))
	}
}
