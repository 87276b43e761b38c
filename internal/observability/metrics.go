// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawcircle_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StoreOperationLatency records record-store latency by backend, collection and operation.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pawcircle_store_operation_latency_seconds",
		Help:    "Record store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "collection", "operation"})

	// CacheLookups counts cache-aside lookups by collection and result (hit or miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawcircle_cache_lookups_total",
		Help: "Total cache lookups by collection and result",
	}, []string{"collection", "result"})

	// LoaderFetches counts loader fetches by collection, kind and outcome.
	LoaderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawcircle_loader_fetches_total",
		Help: "Total list and detail loader fetches",
	}, []string{"collection", "kind", "outcome"})

	// Submissions counts create submissions by collection and outcome.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawcircle_submissions_total",
		Help: "Total record submissions",
	}, []string{"collection", "outcome"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pawcircle_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawcircle_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackStore returns a function that records store latency when called (e.g. defer).
func TrackStore(backend, collection, operation string) func() {
	start := time.Now()
	return func() {
		StoreOperationLatency.WithLabelValues(backend, collection, operation).Observe(time.Since(start).Seconds())
	}
}
