package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttemptsTotal tracks individual fetch attempts per endpoint and classification
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesame_fetch_attempts_total",
			Help: "Total number of fetch attempts",
		},
		[]string{"endpoint", "classification"},
	)

	// FetchOutcomesTotal tracks completed fetch operations per endpoint and outcome
	FetchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesame_fetch_outcomes_total",
			Help: "Total number of completed fetch operations",
		},
		[]string{"endpoint", "outcome"},
	)

	// FetchLatency tracks wall-clock latency of individual fetch attempts
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sesame_fetch_latency_seconds",
			Help:    "Fetch attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// SnapshotOpsTotal tracks snapshot store operations per op and status
	SnapshotOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesame_snapshot_ops_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"op", "status"},
	)

	// RefreshRunsTotal tracks background view refresh runs per view and outcome
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesame_refresh_runs_total",
			Help: "Total number of background refresh runs",
		},
		[]string{"view", "outcome"},
	)
)
