package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, 30*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, 10, cfg.Connection.MaxRedirects)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.Memory.MaxEntries)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "nocodb:", cfg.Cache.Redis.KeyPrefix)
	assert.NotEmpty(t, cfg.Cache.Badger.Path)
	assert.NotEmpty(t, cfg.Files.TempDir)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Connection: ConnectionConfig{Timeout: 5 * time.Second},
		Logging:    LoggingConfig{Level: "warn", Format: "json"},
		Cache:      CacheConfig{Type: "redis", TTL: time.Minute},
		Metrics:    MetricsConfig{Port: 8080},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 5*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 8080, cfg.Metrics.Port)
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}
