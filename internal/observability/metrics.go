// Package observability defines the Prometheus metrics for both the
// companion daemon and the server. Metrics register themselves via
// promauto; expose them with promhttp.Handler on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncCyclesTotal counts reconciliation cycles by entity family and
	// outcome (success, error, skipped).
	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travelmate", Name: "sync_cycles_total", Help: "Reconciliation cycles run"},
		[]string{"family", "outcome"},
	)

	// SyncedRecordsTotal counts records transitioned to the synced state.
	SyncedRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "travelmate", Name: "synced_records_total", Help: "Records flushed to the server"},
	)

	// FetchResultsTotal counts read-path emissions by family and source
	// (cache, remote, error).
	FetchResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travelmate", Name: "fetch_results_total", Help: "Offline-first read results emitted"},
		[]string{"family", "source"},
	)

	// HTTPRequestsTotal counts server requests handled.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travelmate", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks server request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelmate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
