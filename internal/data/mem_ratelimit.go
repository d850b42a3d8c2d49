package data

import (
	"context"
	"sync"
	"time"

	"conspect-web/internal/metrics"
)

// MemLimiter is a sliding window limiter that keeps request timestamps per key in memory.
type MemLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

func NewMemLimiter(limit int, window time.Duration) *MemLimiter {
	return &MemLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

func (m *MemLimiter) Name() string {
	return metrics.RateLimitStoreMemory
}

func (m *MemLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	recent := pruneBefore(m.requests[key], now.Add(-m.window))

	if len(recent) >= m.limit {
		m.requests[key] = recent
		return Decision{
			Allowed:    false,
			Limit:      m.limit,
			Remaining:  0,
			RetryAfter: recent[0].Add(m.window).Sub(now),
		}, nil
	}

	recent = append(recent, now)
	m.requests[key] = recent

	return Decision{
		Allowed:   true,
		Limit:     m.limit,
		Remaining: m.limit - len(recent),
	}, nil
}

// Sweep drops keys whose requests have all left the window and returns how many keys remain.
func (m *MemLimiter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.window)
	for key, times := range m.requests {
		recent := pruneBefore(times, cutoff)
		if len(recent) == 0 {
			delete(m.requests, key)
			continue
		}
		m.requests[key] = recent
	}

	metrics.RateLimitTrackedClients.Set(float64(len(m.requests)))

	return len(m.requests)
}

func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return times
	}
	return append([]time.Time(nil), times[i:]...)
}
