// Package metrics provides Prometheus metrics collection for the NocoDB
// client library.
//
// All metrics are optional. If InitRegistry is never called, the
// constructors return no-op implementations with zero overhead, so the
// library can be used with or without metrics collection enabled.
//
// Usage:
//
//	// Initialize the global registry (typically in main)
//	metrics.InitRegistry()
//
//	// Create metrics instances for components
//	clientMetrics := prometheus.NewClientMetrics()
//
//	// Or pass nil to components for no-op behavior
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all client metrics.
	// Write-once via registryOnce, read-many afterwards.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry.
//
// Must be called before creating metrics instances. Safe to call multiple
// times; subsequent calls are ignored. If never called, GetRegistry returns
// nil and all constructors return no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil if metrics
// are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether metrics collection is enabled, i.e. whether
// InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
