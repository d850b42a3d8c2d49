package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"conspect-web/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitClient is the subset of the go-redis client the limiter needs.
type RedisRateLimitClient interface {
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter is a fixed window counter shared by every instance talking to the same redis db.
type RedisLimiter struct {
	client RedisRateLimitClient
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewRedisLimiter(client RedisRateLimitClient, limit int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

func (r *RedisLimiter) Name() string {
	return metrics.RateLimitStoreRedis
}

func (r *RedisLimiter) key(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}

// Allow counts the request in one MULTI/EXEC: the window key is created with its
// expiry if missing, then incremented, then its remaining TTL is read.
func (r *RedisLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	key := r.key(client)

	var (
		count *redis.IntCmd
		ttl   *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, r.window)
		count = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	if count.Val() > int64(r.limit) {
		retryAfter := ttl.Val()
		if retryAfter < 0 {
			// counter lost its expiry, start a fresh window so the client is not locked out forever
			if err := r.client.PExpire(ctx, key, r.window).Err(); err != nil {
				r.logger.Error("failed to restore rate limit window", "key", key, "error", err)
			}
			retryAfter = r.window
		}
		return Decision{
			Allowed:    false,
			Limit:      r.limit,
			Remaining:  0,
			RetryAfter: retryAfter,
		}, nil
	}

	return Decision{
		Allowed:   true,
		Limit:     r.limit,
		Remaining: r.limit - int(count.Val()),
	}, nil
}
