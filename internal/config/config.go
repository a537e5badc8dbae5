// Package config loads and validates the Bitbucket MCP server
// configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// OutputFormat selects how tool results are shaped for the client.
type OutputFormat string

const (
	// OutputFull includes every projected field.
	OutputFull OutputFormat = "full"
	// OutputCompact trims descriptive fields from list results.
	OutputCompact OutputFormat = "compact"
)

// Bounds for numeric settings.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 300
	MinRetries        = 0
	MaxRetries        = 10

	DefaultTimeoutSeconds = 30
	DefaultMaxRetries     = 3
)

// Config holds the validated process configuration. It is immutable
// after LoadConfig and passed explicitly into constructors.
type Config struct {
	Workspace      string       `json:"workspace"`
	Email          string       `json:"email"`
	APIToken       string       `json:"-"` // Never serialize credentials
	TimeoutSeconds int          `json:"timeout_seconds"`
	MaxRetries     int          `json:"max_retries"`
	OutputFormat   OutputFormat `json:"output_format"`
}

// ConfigError aggregates every missing or invalid configuration field
// so the operator sees all problems at once instead of fixing them one
// restart at a time.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", strings.Join(e.Problems, "; "))
}

// LoadConfig reads configuration from the environment (honoring a
// local .env file when present) and validates it. It performs no I/O
// beyond that.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Workspace:      os.Getenv("BITBUCKET_WORKSPACE"),
		Email:          os.Getenv("BITBUCKET_EMAIL"),
		APIToken:       os.Getenv("BITBUCKET_API_TOKEN"),
		TimeoutSeconds: DefaultTimeoutSeconds,
		MaxRetries:     DefaultMaxRetries,
		OutputFormat:   OutputFull,
	}

	var problems []string

	if v := os.Getenv("BITBUCKET_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("BITBUCKET_TIMEOUT: %q is not an integer", v))
		} else {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("BITBUCKET_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("BITBUCKET_MAX_RETRIES: %q is not an integer", v))
		} else {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("BITBUCKET_OUTPUT_FORMAT"); v != "" {
		switch strings.ToLower(v) {
		case string(OutputFull):
			cfg.OutputFormat = OutputFull
		case string(OutputCompact):
			cfg.OutputFormat = OutputCompact
		default:
			problems = append(problems, fmt.Sprintf("BITBUCKET_OUTPUT_FORMAT: %q is not one of %q, %q", v, OutputFull, OutputCompact))
		}
	}

	problems = append(problems, cfg.validate()...)
	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	return cfg, nil
}

// validate returns one problem string per invalid field, never
// stopping at the first.
func (c *Config) validate() []string {
	var problems []string
	if c.Workspace == "" {
		problems = append(problems, "BITBUCKET_WORKSPACE is required")
	}
	if c.Email == "" {
		problems = append(problems, "BITBUCKET_EMAIL is required")
	}
	if c.APIToken == "" {
		problems = append(problems, "BITBUCKET_API_TOKEN is required")
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		problems = append(problems, fmt.Sprintf("BITBUCKET_TIMEOUT must be in [%d,%d], got %d",
			MinTimeoutSeconds, MaxTimeoutSeconds, c.TimeoutSeconds))
	}
	if c.MaxRetries < MinRetries || c.MaxRetries > MaxRetries {
		problems = append(problems, fmt.Sprintf("BITBUCKET_MAX_RETRIES must be in [%d,%d], got %d",
			MinRetries, MaxRetries, c.MaxRetries))
	}
	return problems
}
