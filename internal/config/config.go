package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure
type Config struct {
	Brevo   BrevoConfig   `yaml:"brevo"`   // Brevo API connection settings
	Search  SearchConfig  `yaml:"search"`  // Campaign pagination-scan settings
	Metrics MetricsConfig `yaml:"metrics"` // Prometheus metrics configuration
	Logging LoggingConfig `yaml:"logging"` // Logging settings
}

// BrevoConfig contains Brevo API connection settings
type BrevoConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SearchConfig controls the campaign-list pagination scan used to locate
// a campaign by ID (Brevo has no direct get-by-ID endpoint)
type SearchConfig struct {
	PageSize     int `yaml:"page_size"`     // Campaigns fetched per page (default: 100)
	MaxScan      int `yaml:"max_scan"`      // Hard ceiling on scanned records (default: 1000)
	DefaultLimit int `yaml:"default_limit"` // Default list limit (default: 50)
	MaxLimit     int `yaml:"max_limit"`     // Upper bound for caller-supplied limits (default: 1000)
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"` // Default: :9090
	Path       string `yaml:"path"`        // Default: /metrics
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load loads configuration from a YAML file, then applies environment
// overrides. An empty path skips the file and uses env plus defaults,
// which is the common case for MCP servers launched by an agent host.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv applies environment variable overrides
func (c *Config) applyEnv() error {
	if v := os.Getenv("BREVO_API_KEY"); v != "" {
		c.Brevo.APIKey = v
	}
	if v := os.Getenv("BREVO_BASE_URL"); v != "" {
		c.Brevo.BaseURL = v
	}
	if v := os.Getenv("BREVO_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BREVO_REQUEST_TIMEOUT: %w", err)
		}
		c.Brevo.RequestTimeout = d
	}
	return nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Brevo.BaseURL == "" {
		c.Brevo.BaseURL = "https://api.brevo.com/v3"
	}
	if c.Brevo.RequestTimeout == 0 {
		c.Brevo.RequestTimeout = 30 * time.Second
	}

	if c.Search.PageSize == 0 {
		c.Search.PageSize = 100
	}
	if c.Search.MaxScan == 0 {
		c.Search.MaxScan = 1000
	}
	if c.Search.DefaultLimit == 0 {
		c.Search.DefaultLimit = 50
	}
	if c.Search.MaxLimit == 0 {
		c.Search.MaxLimit = 1000
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Brevo.RequestTimeout < 0 {
		return fmt.Errorf("brevo.request_timeout must not be negative")
	}

	if c.Search.PageSize < 1 {
		return fmt.Errorf("search.page_size must be at least 1")
	}
	if c.Search.MaxScan < c.Search.PageSize {
		return fmt.Errorf("search.max_scan must not be smaller than search.page_size")
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit must be between 1 and search.max_limit")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// RequireAPIKey returns an error when no API key is configured.
// Every tool invocation needs the key; only catalogue listing works without it.
func (c *Config) RequireAPIKey() error {
	if c.Brevo.APIKey == "" {
		return fmt.Errorf("BREVO_API_KEY environment variable is not set")
	}
	return nil
}
