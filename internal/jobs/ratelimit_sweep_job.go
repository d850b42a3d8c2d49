package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper drops expired entries and reports how many clients are still tracked.
type Sweeper interface {
	Sweep() int
}

// RateLimitSweepJob drops idle clients from the in-memory rate limiter.
type RateLimitSweepJob struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger
}

func NewRateLimitSweepJob(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *RateLimitSweepJob {
	return &RateLimitSweepJob{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

func (j *RateLimitSweepJob) Name() string {
	return "ratelimit_sweep"
}

func (j *RateLimitSweepJob) Interval() time.Duration {
	return j.interval
}

func (j *RateLimitSweepJob) Run(ctx context.Context) error {
	return runEvery(ctx, j.interval, func(context.Context) {
		tracked := j.sweeper.Sweep()
		j.logger.Debug("swept idle rate limit entries", "tracked_clients", tracked)
	})
}
