package metrics

import "time"

// ClientMetrics provides observability for NocoDB API requests.
//
// Implementations collect request counts, latency and transfer volume.
// This is optional; components fall back to a no-op implementation when
// no collector is provided.
type ClientMetrics interface {
	// ObserveRequest records one API request with its duration and outcome.
	ObserveRequest(method, endpoint string, duration time.Duration, err error)

	// RecordBytes records bytes transferred for upload/download operations.
	// direction is "upload" or "download".
	RecordBytes(direction string, bytes int64)
}

// CacheMetrics provides observability for the record cache.
type CacheMetrics interface {
	// RecordHit records a cache hit for the given backend.
	RecordHit(backend string)

	// RecordMiss records a cache miss for the given backend.
	RecordMiss(backend string)
}

type noopClientMetrics struct{}

func (noopClientMetrics) ObserveRequest(method, endpoint string, duration time.Duration, err error) {}
func (noopClientMetrics) RecordBytes(direction string, bytes int64)                                 {}

// NewNoopClientMetrics returns a ClientMetrics implementation that discards
// all observations.
func NewNoopClientMetrics() ClientMetrics {
	return noopClientMetrics{}
}

type noopCacheMetrics struct{}

func (noopCacheMetrics) RecordHit(backend string)  {}
func (noopCacheMetrics) RecordMiss(backend string) {}

// NewNoopCacheMetrics returns a CacheMetrics implementation that discards
// all observations.
func NewNoopCacheMetrics() CacheMetrics {
	return noopCacheMetrics{}
}
