package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_uploads_total",
			Help: "Total number of audio uploads by outcome",
		},
		[]string{"outcome"},
	)

	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    Namespace + "_upload_size_bytes",
			Help:    "Size of accepted audio uploads",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_backend_request_duration_seconds",
			Help:    "Time spent waiting on the summary backend",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"operation", "status"},
	)

	BackendUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_backend_up",
			Help: "1 if the last backend health probe succeeded, 0 otherwise",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"store"},
	)

	RateLimitTrackedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_rate_limit_tracked_clients",
			Help: "Number of clients currently tracked by the in-memory rate limiter",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_logins_total",
			Help: "Total number of completed login callbacks by result",
		},
		[]string{"result"},
	)
)
