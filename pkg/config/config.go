package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete client configuration.
//
// This structure captures all configurable aspects of the NocoDB client
// including:
//   - Connection settings (base URL, API token, access protection)
//   - Logging configuration
//   - Record cache selection and configuration (backend-specific)
//   - Metrics exposure
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (NOCODB_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
//
// Cache Configuration Pattern:
// Each cache backend defines its own configuration section. The Cache
// struct contains backend-specific sections (memory, badger, redis) and
// only the section matching the selected type is used.
type Config struct {
	// Connection contains NocoDB server connection settings
	Connection ConnectionConfig `mapstructure:"connection"`

	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Cache specifies the record cache type and type-specific configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Files contains file handling settings
	Files FilesConfig `mapstructure:"files"`

	// Metrics controls the Prometheus metrics endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ConnectionConfig contains NocoDB server connection settings.
type ConnectionConfig struct {
	// BaseURL is the root URL of the NocoDB instance
	// Example: https://app.nocodb.com
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// APIToken is the xc-token used for authentication
	APIToken string `mapstructure:"api_token" validate:"required,min=10"`

	// AccessProtectionAuth is an optional token sent in the access
	// protection header for deployments behind an auth proxy
	AccessProtectionAuth string `mapstructure:"access_protection_auth"`

	// AccessProtectionHeader overrides the access protection header name
	AccessProtectionHeader string `mapstructure:"access_protection_header"`

	// Timeout is the per-request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`

	// RequestsPerSecond throttles outbound API calls
	// Zero disables throttling
	RequestsPerSecond uint `mapstructure:"requests_per_second"`

	// MaxRedirects caps how many redirects a request may follow
	MaxRedirects int `mapstructure:"max_redirects" validate:"gte=0"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// CacheConfig specifies record cache configuration.
//
// The Type field determines which cache backend is used.
// Only the corresponding type-specific configuration section is used.
type CacheConfig struct {
	// Enabled turns record caching on. Disabled by default: every read
	// goes straight to the server.
	Enabled bool `mapstructure:"enabled"`

	// Type specifies which cache backend to use
	// Valid values: memory, badger, redis
	Type string `mapstructure:"type" validate:"required,oneof=memory badger redis"`

	// TTL is the expiry applied to cached entries
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory MemoryCacheConfig `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger BadgerCacheConfig `mapstructure:"badger"`

	// Redis contains Redis-specific configuration
	// Only used when Type = "redis"
	Redis RedisCacheConfig `mapstructure:"redis"`
}

// MemoryCacheConfig configures the in-process cache backend.
type MemoryCacheConfig struct {
	// MaxEntries caps the number of cached entries
	MaxEntries int `mapstructure:"max_entries" validate:"gte=0"`
}

// BadgerCacheConfig configures the on-disk cache backend.
type BadgerCacheConfig struct {
	// Path is the directory for the Badger database
	Path string `mapstructure:"path"`
}

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	// Addr is the host:port of the Redis server
	Addr string `mapstructure:"addr"`

	// Password is the optional server password
	Password string `mapstructure:"password"`

	// DB is the Redis database number
	DB int `mapstructure:"db" validate:"gte=0"`

	// KeyPrefix is prepended to every cache key
	KeyPrefix string `mapstructure:"key_prefix"`
}

// FilesConfig contains file handling settings.
type FilesConfig struct {
	// TempDir is the directory used for temporary download files
	// Empty selects a "nocodb-client" directory under the system temp dir
	TempDir string `mapstructure:"temp_dir"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns on the metrics HTTP server
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics server listen port
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (NOCODB_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the NOCODB_ prefix and underscores
	// Example: NOCODB_CONNECTION_API_TOKEN=xxx
	v.SetEnvPrefix("NOCODB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/nocodb-client/config.{yaml,toml}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nocodb-client")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "nocodb-client")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
