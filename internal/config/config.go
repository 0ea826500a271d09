// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the client configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Backend
	BaseURL        string `json:"base_url,omitempty"`        // Backend API base URL
	RequestTimeout int    `json:"request_timeout,omitempty"` // Per-request timeout in seconds

	// Local cache
	CachePath string `json:"cache_path,omitempty"` // Path to the sqlite cache database

	// Polling
	AnalysisPollSeconds int `json:"analysis_poll_seconds,omitempty"` // Poll interval for github/linkedin jobs
	ResumePollSeconds   int `json:"resume_poll_seconds,omitempty"`   // Poll interval for resume jobs
	PollTimeoutMinutes  int `json:"poll_timeout_minutes,omitempty"`  // Wall-clock ceiling per job
	MaxPollFailures     int `json:"max_poll_failures,omitempty"`     // Consecutive poll failures before giving up

	// Behavior
	LogLevel string `json:"log_level,omitempty"` // zap log level (debug/info/warn/error)
	Verbose  bool   `json:"verbose,omitempty"`   // Print detailed progress boxes
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Defaults returns the built-in configuration values. The cache lands next to
// the user's other application data; env var COACH_API_URL overrides the URL.
func Defaults() Config {
	baseURL := os.Getenv("COACH_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	cachePath := os.Getenv("COACH_CACHE_PATH")
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cachePath = filepath.Join(home, ".local", "share", "career-coach", "cache.db")
	}

	return Config{
		BaseURL:             baseURL,
		RequestTimeout:      30,
		CachePath:           cachePath,
		AnalysisPollSeconds: 5,
		ResumePollSeconds:   10,
		PollTimeoutMinutes:  5,
		MaxPollFailures:     3,
		LogLevel:            "info",
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}
	if c.AnalysisPollSeconds < 0 || c.ResumePollSeconds < 0 {
		return fmt.Errorf("config error: poll intervals must be non-negative")
	}
	if c.PollTimeoutMinutes < 0 {
		return fmt.Errorf("config error: 'poll_timeout_minutes' must be non-negative")
	}
	if c.MaxPollFailures < 0 {
		return fmt.Errorf("config error: 'max_poll_failures' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.CachePath == "" {
		result.CachePath = defaults.CachePath
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.AnalysisPollSeconds == 0 {
		result.AnalysisPollSeconds = defaults.AnalysisPollSeconds
	}
	if result.ResumePollSeconds == 0 {
		result.ResumePollSeconds = defaults.ResumePollSeconds
	}
	if result.PollTimeoutMinutes == 0 {
		result.PollTimeoutMinutes = defaults.PollTimeoutMinutes
	}
	if result.MaxPollFailures == 0 {
		result.MaxPollFailures = defaults.MaxPollFailures
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PollInterval returns the configured poll interval for the given job kind.
func (c *Config) PollInterval(resume bool) time.Duration {
	if resume {
		return time.Duration(c.ResumePollSeconds) * time.Second
	}
	return time.Duration(c.AnalysisPollSeconds) * time.Second
}
