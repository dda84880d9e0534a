// Package prometheus contains Prometheus-backed implementations of the
// metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/metrics"
)

// clientMetrics is the Prometheus implementation of metrics.ClientMetrics.
type clientMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	bytesTransferred *prometheus.CounterVec
}

// NewClientMetrics creates a new Prometheus-backed ClientMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewClientMetrics() metrics.ClientMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopClientMetrics()
	}

	reg := metrics.GetRegistry()

	return &clientMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nocodb_client_requests_total",
				Help: "Total number of NocoDB API requests by method, endpoint and status",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "nocodb_client_request_duration_milliseconds",
				Help: "Duration of NocoDB API requests in milliseconds",
				Buckets: []float64{
					1,     // 1ms
					10,    // 10ms
					100,   // 100ms
					1000,  // 1s
					10000, // 10s
				},
			},
			[]string{"method", "endpoint"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nocodb_client_bytes_transferred_total",
				Help: "Total bytes transferred via storage upload and attachment download",
			},
			[]string{"direction"},
		),
	}
}

func (m *clientMetrics) ObserveRequest(method, endpoint string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(float64(duration.Milliseconds()))
}

func (m *clientMetrics) RecordBytes(direction string, bytes int64) {
	if bytes > 0 {
		m.bytesTransferred.WithLabelValues(direction).Add(float64(bytes))
	}
}

// cacheMetrics is the Prometheus implementation of metrics.CacheMetrics.
type cacheMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
}

// NewCacheMetrics creates a new Prometheus-backed CacheMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled.
func NewCacheMetrics() metrics.CacheMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopCacheMetrics()
	}

	reg := metrics.GetRegistry()

	return &cacheMetrics{
		hits: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nocodb_cache_hits_total",
				Help: "Total number of record cache hits by backend",
			},
			[]string{"backend"},
		),
		misses: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nocodb_cache_misses_total",
				Help: "Total number of record cache misses by backend",
			},
			[]string{"backend"},
		),
	}
}

func (m *cacheMetrics) RecordHit(backend string) {
	m.hits.WithLabelValues(backend).Inc()
}

func (m *cacheMetrics) RecordMiss(backend string) {
	m.misses.WithLabelValues(backend).Inc()
}
