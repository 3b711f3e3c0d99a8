package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a sliding window log in a Redis sorted set per key,
// shared by every server instance.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRateLimitRedisStore creates a Redis backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// Record prunes entries older than window, adds this request and returns how
// many requests the window now holds, this one included.
func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()
	redisKey := s.prefix + key
	cutoff := now.Add(-window).UnixMicro()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score: float64(now.UnixMicro()),
		// unique member so concurrent requests in the same microsecond all count
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record rate limit hit: %w", err)
	}

	return count.Val(), nil
}
