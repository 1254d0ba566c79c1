// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config represents configuration that can be loaded from a JSON file, with
// environment variables overriding file values. All fields are optional;
// missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Endpoints
	AgentURL    string `json:"agent_url,omitempty" validate:"omitempty,url"`     // Conversational agent endpoint
	DatabaseURL string `json:"database_url,omitempty"`                           // PostgreSQL connection URL; empty means file storage
	ProfilePath string `json:"profile_path,omitempty"`                           // Path to the profile JSON file
	Port        int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"` // HTTP server port

	// Generation
	APIKey          string `json:"api_key,omitempty"`                                   // Gemini API key
	Model           string `json:"model,omitempty"`                                     // Gemini model name
	CacheTTLMinutes int    `json:"cache_ttl_minutes,omitempty" validate:"omitempty,min=1"` // Pitch cache TTL

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA event pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
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

// FromEnv overlays environment variables onto the config. Environment values
// win over file values.
func (c *Config) FromEnv() {
	if v := os.Getenv("AGENT_URL"); v != "" {
		c.AgentURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PROFILE_PATH"); v != "" {
		c.ProfilePath = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. CLI flags always win for bools, so they are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.AgentURL == "" {
		result.AgentURL = defaults.AgentURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ProfilePath == "" {
		result.ProfilePath = defaults.ProfilePath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheTTLMinutes == 0 {
		if defaults.CacheTTLMinutes > 0 {
			result.CacheTTLMinutes = defaults.CacheTTLMinutes
		} else {
			result.CacheTTLMinutes = 60
		}
	}
	return result
}
