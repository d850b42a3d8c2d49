package jobs

import (
	"context"
	"log/slog"
	"time"

	"conspect-web/internal/metrics"
	"conspect-web/internal/upload"
)

// BackendProbeJob polls the backend health endpoint and publishes the result as the backend_up gauge.
type BackendProbeJob struct {
	backend  upload.Backend
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	healthy *bool
}

func NewBackendProbeJob(backend upload.Backend, interval time.Duration, logger *slog.Logger) *BackendProbeJob {
	return &BackendProbeJob{
		backend:  backend,
		interval: interval,
		timeout:  10 * time.Second,
		logger:   logger,
	}
}

func (j *BackendProbeJob) Name() string {
	return "backend_probe"
}

func (j *BackendProbeJob) Interval() time.Duration {
	return j.interval
}

func (j *BackendProbeJob) Run(ctx context.Context) error {
	return runEvery(ctx, j.interval, j.probe)
}

func (j *BackendProbeJob) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	err := j.backend.HealthCheck(probeCtx)
	healthy := err == nil

	if healthy {
		metrics.BackendUp.Set(1)
	} else {
		metrics.BackendUp.Set(0)
	}

	// only log transitions
	if j.healthy == nil || *j.healthy != healthy {
		if healthy {
			j.logger.Info("backend is reachable")
		} else {
			j.logger.Warn("backend health probe failed", "error", err)
		}
	}
	j.healthy = &healthy
}
