// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Server ServerConfig `yaml:"server,omitempty"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	LLM    LLMConfig    `yaml:"llm,omitempty"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
	// AllowedOrigins enables CORS for the listed origins. "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// LLMConfig holds configuration for the generation provider.
type LLMConfig struct {
	Provider       string `yaml:"provider,omitempty"`
	Model          string `yaml:"model,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the generation call timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		SQLite: SQLiteConfig{
			Path: "fableforge.db",
		},
		LLM: LLMConfig{
			Provider:       "anthropic",
			Model:          "",
			TimeoutSeconds: 60,
		},
	}
}

// Load loads configuration from the given file path. A missing file is not
// an error: defaults plus environment overrides apply. An empty path skips
// the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("FABLEFORGE_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("FABLEFORGE_DB"); path != "" {
		c.SQLite.Path = path
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}
