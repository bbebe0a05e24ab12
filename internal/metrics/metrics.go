package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request latency by method and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	// ChecksCreated counts successfully persisted checks.
	ChecksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checks_created_total",
		Help: "Number of checks created.",
	})
)
