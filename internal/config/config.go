// Package config loads the run configuration from a JSON file, with
// environment variables taking precedence over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when neither --config nor CONFIG_PATH is set
const DefaultPath = "config.json"

var (
	ErrMissingFQDN  = errors.New("bitbucket_server_fqdn is missing or empty in the config file")
	ErrMissingToken = errors.New("bearer_token is missing or empty in the config file")
)

type Config struct {
	ServerFQDN  string   `json:"bitbucket_server_fqdn" env:"BITBUCKET_SERVER_FQDN"`
	BearerToken string   `json:"bearer_token" env:"BITBUCKET_BEARER_TOKEN"`
	Usernames   []string `json:"username_list" env:"BITBUCKET_USERNAMES" env-separator:","`

	OutputFile      string `json:"output_file" env:"PR_STATS_OUTPUT_FILE" env-default:"pr_stats_output.json"`
	TableOutputFile string `json:"table_output_file" env:"PR_STATS_TABLE_OUTPUT_FILE" env-default:"pr_stats_output.csv"`

	DisplayTimezone string `json:"display_timezone" env:"PR_STATS_DISPLAY_TIMEZONE" env-default:"Asia/Kolkata"`
	// WindowTimezone is the zone start and end dates are read in. Empty
	// means the host's local timezone.
	WindowTimezone string `json:"window_timezone" env:"PR_STATS_WINDOW_TIMEZONE"`

	PullRequestLimit      int `json:"pr_page_limit" env:"PR_STATS_PR_PAGE_LIMIT" env-default:"1000"`
	MaxWorkers            int `json:"max_workers" env:"PR_STATS_MAX_WORKERS" env-default:"1"`
	RequestTimeoutSeconds int `json:"request_timeout_seconds" env:"PR_STATS_REQUEST_TIMEOUT_SECONDS"`
	RetryAttempts         int `json:"retry_attempts" env:"PR_STATS_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelayMs          int `json:"retry_delay_ms" env:"PR_STATS_RETRY_DELAY_MS" env-default:"1000"`

	LogLevel string `json:"log_level" env:"PR_STATS_LOG_LEVEL" env-default:"info"`
}

// Load reads the config at path and validates it
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file does not exist: %s: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields and numeric ranges
func (c *Config) Validate() error {
	if c.ServerFQDN == "" {
		return ErrMissingFQDN
	}
	if c.BearerToken == "" {
		return ErrMissingToken
	}
	if c.PullRequestLimit < 1 {
		return fmt.Errorf("pr_page_limit must be positive, got %d", c.PullRequestLimit)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be positive, got %d", c.MaxWorkers)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be positive, got %d", c.RetryAttempts)
	}
	if c.RetryDelayMs < 0 || c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("retry_delay_ms and request_timeout_seconds must not be negative")
	}
	return nil
}

// RequestTimeout is zero when no per-request timeout is configured
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// ResolvePath picks the config path.
// flag > env > default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return DefaultPath
}
