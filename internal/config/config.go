// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultAPIURL is used when neither the config file nor the environment
// names a backend.
const DefaultAPIURL = "https://api.resume-pilot.dev"

// EnvAPIURL is the environment variable overriding the API base URL.
const EnvAPIURL = "RESUME_PILOT_API_URL"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	APIURL         string `json:"api_url,omitempty"`         // Base URL of the analysis service
	BaseDir        string `json:"base_dir,omitempty"`        // Directory for credentials and history (default ~/.resume-pilot)
	Template       string `json:"template,omitempty"`        // Default template id for preview/download
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-request HTTP timeout
	Verbose        bool   `json:"verbose,omitempty"`         // Print detailed debug information
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

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	return nil
}

// ResolveAPIURL returns the effective base URL: flag value, then environment,
// then config file, then the built-in default.
func (c *Config) ResolveAPIURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIURL); env != "" {
		return env
	}
	if c != nil && c.APIURL != "" {
		return c.APIURL
	}
	return DefaultAPIURL
}

// Timeout returns the effective request timeout.
func (c *Config) Timeout() time.Duration {
	if c != nil && c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return 30 * time.Second
}
