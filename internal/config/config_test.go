package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BITBUCKET_WORKSPACE", "acme")
	t.Setenv("BITBUCKET_EMAIL", "dev@acme.example")
	t.Setenv("BITBUCKET_API_TOKEN", "token-123")
	t.Setenv("BITBUCKET_TIMEOUT", "")
	t.Setenv("BITBUCKET_MAX_RETRIES", "")
	t.Setenv("BITBUCKET_OUTPUT_FORMAT", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Workspace)
	assert.Equal(t, "dev@acme.example", cfg.Email)
	assert.Equal(t, "token-123", cfg.APIToken)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, OutputFull, cfg.OutputFormat)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BITBUCKET_TIMEOUT", "60")
	t.Setenv("BITBUCKET_MAX_RETRIES", "5")
	t.Setenv("BITBUCKET_OUTPUT_FORMAT", "COMPACT")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, OutputCompact, cfg.OutputFormat)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("BITBUCKET_WORKSPACE", "")
	t.Setenv("BITBUCKET_EMAIL", "")
	t.Setenv("BITBUCKET_API_TOKEN", "")
	t.Setenv("BITBUCKET_TIMEOUT", "")
	t.Setenv("BITBUCKET_MAX_RETRIES", "")
	t.Setenv("BITBUCKET_OUTPUT_FORMAT", "")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Problems, 3)
	assert.Contains(t, err.Error(), "BITBUCKET_WORKSPACE is required")
	assert.Contains(t, err.Error(), "BITBUCKET_EMAIL is required")
	assert.Contains(t, err.Error(), "BITBUCKET_API_TOKEN is required")
}

func TestLoadConfigAggregatesAllProblems(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BITBUCKET_TIMEOUT", "abc")
	t.Setenv("BITBUCKET_MAX_RETRIES", "99")
	t.Setenv("BITBUCKET_OUTPUT_FORMAT", "yaml")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Problems, 3)
	assert.Contains(t, err.Error(), `BITBUCKET_TIMEOUT: "abc" is not an integer`)
	assert.Contains(t, err.Error(), "BITBUCKET_MAX_RETRIES must be in [0,10]")
	assert.Contains(t, err.Error(), "BITBUCKET_OUTPUT_FORMAT")
}

func TestLoadConfigOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		value   string
		problem string
	}{
		{"timeout too low", "BITBUCKET_TIMEOUT", "0", "BITBUCKET_TIMEOUT must be in [1,300], got 0"},
		{"timeout too high", "BITBUCKET_TIMEOUT", "301", "BITBUCKET_TIMEOUT must be in [1,300], got 301"},
		{"retries negative", "BITBUCKET_MAX_RETRIES", "-1", "BITBUCKET_MAX_RETRIES must be in [0,10], got -1"},
		{"retries too high", "BITBUCKET_MAX_RETRIES", "11", "BITBUCKET_MAX_RETRIES must be in [0,10], got 11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.envKey, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestZeroRetriesIsValid(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BITBUCKET_MAX_RETRIES", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxRetries)
}
