package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyConnectionDefaults(&cfg.Connection)
	applyLoggingDefaults(&cfg.Logging)
	applyCacheDefaults(&cfg.Cache)
	applyFilesDefaults(&cfg.Files)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyConnectionDefaults sets connection defaults.
func applyConnectionDefaults(cfg *ConnectionConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 10
	}
	// AccessProtectionHeader default is handled by the client so that
	// direct client construction gets the same header name.
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyCacheDefaults sets cache backend defaults.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Second
	}

	if cfg.Memory.MaxEntries == 0 {
		cfg.Memory.MaxEntries = 1000
	}
	if cfg.Badger.Path == "" {
		cfg.Badger.Path = filepath.Join(os.TempDir(), "nocodb-cache")
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "nocodb:"
	}
}

// applyFilesDefaults sets file handling defaults.
func applyFilesDefaults(cfg *FilesConfig) {
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "nocodb-client")
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
//
// The connection section carries placeholder values: a real base URL and
// API token must be supplied before the config passes validation against
// a live server.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Connection: ConnectionConfig{
			BaseURL:  "https://app.nocodb.com",
			APIToken: "replace-with-your-token",
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
