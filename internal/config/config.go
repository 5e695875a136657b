// Package config holds all shellsage configuration.
// The Config struct is built once at startup and passed into constructors;
// nothing below cmd/ performs ambient lookups.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultLanguage is the response-language locale tag.
	DefaultLanguage = "en-us"

	// DefaultBaseURL is the Gemini REST endpoint prefix.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Config is the single source of truth for runtime configuration.
type Config struct {
	// APIKey is resolved outside the file (flag, keyring, env) and is
	// never written to disk by Save.
	APIKey string `yaml:"-"`

	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	BaseURL  string `yaml:"base_url,omitempty"`

	Timeouts TimeoutConfig `yaml:"timeouts,omitempty"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
}

// TimeoutConfig fixes the transport timeouts at construction time.
// There is no per-call override.
type TimeoutConfig struct {
	Generate time.Duration `yaml:"generate,omitempty"`
	Stream   time.Duration `yaml:"stream,omitempty"`
	Count    time.Duration `yaml:"count,omitempty"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level,omitempty"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Model:    DefaultModel,
		Language: DefaultLanguage,
		BaseURL:  DefaultBaseURL,
		Timeouts: TimeoutConfig{
			Generate: 60 * time.Second,
			Stream:   120 * time.Second,
			Count:    10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// StateDir returns the per-user state directory (~/.shellsage).
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shellsage"), nil
}

// SessionDir returns the directory holding persisted sessions.
func SessionDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// ConfigPath returns the path of the YAML config file.
func ConfigPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads a config file, filling in defaults for absent fields.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeouts.Generate == 0 {
		cfg.Timeouts.Generate = 60 * time.Second
	}
	if cfg.Timeouts.Stream == 0 {
		cfg.Timeouts.Stream = 120 * time.Second
	}
	if cfg.Timeouts.Count == 0 {
		cfg.Timeouts.Count = 10 * time.Second
	}

	return cfg, nil
}

// Save writes the config file, creating the state directory if needed.
// The API key is deliberately excluded; it lives in the keyring.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
