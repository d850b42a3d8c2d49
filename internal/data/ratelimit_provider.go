package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"conspect-web/internal/config"
)

//go:generate mockgen -source=ratelimit_provider.go -destination=../mocks/ratelimit.go -package=mocks

// RateLimitProvider counts requests per client key inside a rolling window.
type RateLimitProvider interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Name() string
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// NewRateLimitProvider builds the store named in cfg.Store. client is only used for the redis store.
func NewRateLimitProvider(cfg config.RateLimitConfig, client RedisRateLimitClient, logger *slog.Logger) (RateLimitProvider, error) {
	switch cfg.Store {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis client")
		}
		return NewRedisLimiter(client, cfg.Requests, cfg.Window, logger), nil
	case "memory", "":
		return NewMemLimiter(cfg.Requests, cfg.Window), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit store: %s", cfg.Store)
	}
}
