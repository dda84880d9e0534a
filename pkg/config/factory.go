package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/internal/logger"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/cache"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/metrics"
	promMetrics "github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/metrics/prometheus"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/nocodb"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// Client is the metrics collector for API calls (never nil, uses noop if disabled)
	Client metrics.ClientMetrics

	// Cache is the metrics collector for cache backends (never nil, uses noop if disabled)
	Cache metrics.CacheMetrics
}

// InitializeMetrics creates and initializes all metrics components based on
// configuration.
//
// If metrics are enabled:
//   - Initializes the global Prometheus registry
//   - Creates the metrics HTTP server
//   - Creates Prometheus-backed metrics instances for all components
//
// If metrics are disabled:
//   - Returns nil server
//   - Returns no-op metrics implementations (zero overhead)
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Metrics.Enabled {
		return &MetricsResult{
			Server: nil,
			Client: metrics.NewNoopClientMetrics(),
			Cache:  metrics.NewNoopCacheMetrics(),
		}
	}

	metrics.InitRegistry()

	server := metrics.NewServer(metrics.ServerConfig{
		Port: cfg.Metrics.Port,
	})

	return &MetricsResult{
		Server: server,
		Client: promMetrics.NewClientMetrics(),
		Cache:  promMetrics.NewCacheMetrics(),
	}
}

// InitializeLogging configures the global logger from configuration.
//
// Returns a closer for the log file when output targets a file, nil
// otherwise.
func InitializeLogging(cfg *Config) (io.Closer, error) {
	logger.SetLevel(cfg.Logging.Level)

	json := cfg.Logging.Format == "json"
	switch cfg.Logging.Output {
	case "", "stdout":
		logger.SetOutput(os.Stdout, json)
	case "stderr":
		logger.SetOutput(os.Stderr, json)
	default:
		f, err := os.OpenFile(cfg.Logging.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Logging.Output, err)
		}
		logger.SetOutput(f, json)
		return f, nil
	}

	return nil, nil
}

// NewClient builds a nocodb.Client from configuration.
func NewClient(cfg *Config, clientMetrics metrics.ClientMetrics) *nocodb.Client {
	return nocodb.NewClient(nocodb.ClientConfig{
		BaseURL:                cfg.Connection.BaseURL,
		APIToken:               cfg.Connection.APIToken,
		AccessProtectionAuth:   cfg.Connection.AccessProtectionAuth,
		AccessProtectionHeader: cfg.Connection.AccessProtectionHeader,
		Timeout:                cfg.Connection.Timeout,
		RequestsPerSecond:      cfg.Connection.RequestsPerSecond,
		MaxRedirects:           cfg.Connection.MaxRedirects,
		Metrics:                clientMetrics,
	})
}

// NewCacheManager builds the configured cache backend wrapped in a Manager.
//
// Returns (nil, nil) when caching is disabled.
func NewCacheManager(ctx context.Context, cfg *Config, cacheMetrics metrics.CacheMetrics) (*cache.Manager, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	var (
		backend cache.Backend
		err     error
	)
	switch cfg.Cache.Type {
	case "memory":
		backend = cache.NewMemoryBackend(cfg.Cache.Memory.MaxEntries)
	case "badger":
		backend, err = cache.NewBadgerBackend(cache.BadgerConfig{
			Path: cfg.Cache.Badger.Path,
		})
	case "redis":
		backend, err = cache.NewRedisBackend(ctx, cache.RedisConfig{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Cache.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", cfg.Cache.Type, err)
	}

	opts := []cache.ManagerOption{cache.WithMetrics(cacheMetrics)}
	if cfg.Cache.TTL > 0 {
		opts = append(opts, cache.WithTTL(cfg.Cache.TTL))
	}

	return cache.NewManager(backend, cfg.Cache.Type, opts...), nil
}

// NewFileManager builds a FileManager bound to the given client using the
// configured temp directory.
func NewFileManager(cfg *Config, client *nocodb.Client) *nocodb.FileManager {
	var opts []nocodb.FileManagerOption
	if cfg.Files.TempDir != "" {
		opts = append(opts, nocodb.WithTempDir(cfg.Files.TempDir))
	}
	return nocodb.NewFileManager(client, opts...)
}
