// Package config loads and validates TokenWatcher client configuration.
// Configuration lives in <config dir>/config.yaml; every field has a sane
// default so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the connection to the TokenWatcher backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal dashboard.
type UIConfig struct {
	Theme          string `yaml:"theme"`           // auto, light, dark
	EventsPageSize int    `yaml:"events_page_size"`
}

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.tokenwatcher.app"

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "30s",
		},
		UI: UIConfig{
			Theme:          "auto",
			EventsPageSize: 25,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Dir returns the client configuration directory, normally ~/.tokenwatcher.
// TOKENWATCHER_HOME overrides it (used by tests).
func Dir() (string, error) {
	if dir := os.Getenv("TOKENWATCHER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tokenwatcher"), nil
}

// Load reads config.yaml from the config directory, applies defaults for
// missing fields and environment overrides on top.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads a specific config file. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.UI.EventsPageSize <= 0 {
		cfg.UI.EventsPageSize = def.UI.EventsPageSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides lets the environment win over the file. Useful for
// pointing the client at a staging backend without editing config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOKENWATCHER_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TOKENWATCHER_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}
	if v := os.Getenv("TOKENWATCHER_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if os.Getenv("TOKENWATCHER_DEBUG") == "1" {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
}

// Validate checks the config for values that cannot work.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("api.timeout is not a duration: %w", err)
	}
	switch c.UI.Theme {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("ui.theme must be auto, light or dark, got %q", c.UI.Theme)
	}
	return nil
}

// RequestTimeout returns the parsed API timeout.
// Validate guarantees the parse succeeds.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// Save writes the config back to the config directory.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644)
}
