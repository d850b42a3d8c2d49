package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"conspect-web/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingJob struct {
	name  string
	calls atomic.Int32
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return 5 * time.Millisecond }
func (j *countingJob) Run(ctx context.Context) error {
	return runEvery(ctx, j.Interval(), func(context.Context) { j.calls.Add(1) })
}

func TestJobManager_StartAndShutdown(t *testing.T) {
	jm := NewJobManager(discardLogger())
	job := &countingJob{name: "counter"}
	jm.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jm.Start(ctx)
	jm.Start(ctx)

	require.Eventually(t, func() bool { return job.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	jm.Shutdown(shutdownCtx)

	calls := job.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, job.calls.Load())
}

func TestRunEvery_RejectsNonPositiveInterval(t *testing.T) {
	err := runEvery(context.Background(), 0, func(context.Context) {})
	assert.Error(t, err)
}

func TestRunEvery_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	err := runEvery(ctx, time.Hour, func(context.Context) { calls++ })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackendProbeJob_ProbesUntilCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	var probes atomic.Int32
	backend.EXPECT().HealthCheck(gomock.Any()).DoAndReturn(func(context.Context) error {
		if probes.Add(1) == 1 {
			return errors.New("connection refused")
		}
		return nil
	}).MinTimes(2)

	job := NewBackendProbeJob(backend, 5*time.Millisecond, discardLogger())
	assert.Equal(t, "backend_probe", job.Name())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	require.Eventually(t, func() bool { return probes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}

type fakeSweeper struct {
	calls atomic.Int32
}

func (f *fakeSweeper) Sweep() int {
	f.calls.Add(1)
	return 3
}

func TestRateLimitSweepJob(t *testing.T) {
	sweeper := &fakeSweeper{}
	job := NewRateLimitSweepJob(sweeper, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}
