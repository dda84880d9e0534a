package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		Connection: ConnectionConfig{
			BaseURL:  "https://db.example.com",
			APIToken: "0123456789abcdef",
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_MissingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Connection.BaseURL = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")
}

func TestValidate_BadURLScheme(t *testing.T) {
	cfg := validConfig()
	cfg.Connection.BaseURL = "ftp://db.example.com"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestValidate_ShortToken(t *testing.T) {
	cfg := validConfig()
	cfg.Connection.APIToken = "short"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIToken")
}

func TestValidate_TokenWhitespace(t *testing.T) {
	cfg := validConfig()
	cfg.Connection.APIToken = " 0123456789abcdef "

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "TRACE"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestValidate_BadCacheType(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Type = "memcached"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Type")
}

func TestValidate_LowercaseLogLevelAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, Validate(cfg))
}
