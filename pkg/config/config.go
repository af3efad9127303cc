package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// OpenAIConfig represents settings for the chat bridge
type OpenAIConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key" toml:"api_key"`
	Model     string `json:"model" yaml:"model" toml:"model"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
}

// Config represents the bridge configuration
type Config struct {
	// APIBase is the HEMIS REST API base URL, always normalized to end with "/"
	APIBase string `json:"api_base" yaml:"api_base" toml:"api_base"`
	// Login is the student login identifier
	Login string `json:"login" yaml:"login" toml:"login"`
	// Password is the student secret
	Password string `json:"password" yaml:"password" toml:"password"`
	// Language is the "l" query parameter sent with every upstream call
	Language string `json:"language" yaml:"language" toml:"language"`
	// TimeoutSeconds bounds each upstream HTTP call
	TimeoutSeconds int          `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	LogLevel       string       `json:"log_level" yaml:"log_level" toml:"log_level"`
	OpenAI         OpenAIConfig `json:"openai" yaml:"openai" toml:"openai"`
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() *Config {
	return &Config{
		Language:       "en-US",
		TimeoutSeconds: 30,
		LogLevel:       "info",
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1000,
		},
	}
}

// LoadConfig assembles the configuration. Precedence, lowest to highest:
// defaults, config file (filename, optional), .env file, process environment.
// A .env entry never overrides a variable already present in the environment.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		if err := parseFile(filename, config); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", filename, err)
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := LoadDotenv(".env"); err != nil {
			return nil, err
		}
	}
	config.applyEnv()

	config.APIBase = normalizeBaseURL(config.APIBase)
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HEMIS_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("HEMIS_LOGIN"); v != "" {
		c.Login = v
	}
	if v := os.Getenv("HEMIS_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("HEMIS_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("HEMIS_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("HEMIS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
}

// Validate fails fast on anything that would make every upstream call
// impossible. A validation failure is fatal at startup and never retried.
func (c *Config) Validate() error {
	var missing []string
	if c.APIBase == "" {
		missing = append(missing, "HEMIS_API_BASE")
	}
	if c.Login == "" {
		missing = append(missing, "HEMIS_LOGIN")
	}
	if c.Password == "" {
		missing = append(missing, "HEMIS_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.APIBase)
	if err != nil {
		return fmt.Errorf("invalid HEMIS_API_BASE %q: %w", c.APIBase, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid HEMIS_API_BASE %q: scheme must be http or https", c.APIBase)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the upstream call deadline as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func normalizeBaseURL(base string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/"
}
