// Package telemetry exposes Prometheus metrics for the run lifecycle. The
// runner increments them; the server mounts promhttp at /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsSubmitted counts runs accepted via Submit.
	RunsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowgraph_runs_submitted_total",
		Help: "Total runs submitted",
	})

	// RunsCompleted counts runs that reached a terminal naturally.
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowgraph_runs_completed_total",
		Help: "Total runs that completed successfully",
	})

	// RunsFailed counts runs halted by an execution-time error.
	RunsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowgraph_runs_failed_total",
		Help: "Total runs that failed",
	})

	// StepsExecuted counts node invocations across all runs.
	StepsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowgraph_steps_executed_total",
		Help: "Total graph node invocations",
	})

	// RunDuration observes wall-clock run execution time.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowgraph_run_duration_seconds",
		Help:    "Run execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
