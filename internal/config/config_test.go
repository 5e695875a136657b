package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", cfg.Language, DefaultLanguage)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeouts.Generate != 60*time.Second {
		t.Errorf("Timeouts.Generate = %v", cfg.Timeouts.Generate)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("language: pt-br\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "pt-br" {
		t.Errorf("Language = %q, want pt-br", cfg.Language)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.Timeouts.Stream != 120*time.Second {
		t.Errorf("Timeouts.Stream = %v, want default", cfg.Timeouts.Stream)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Model = "gemini-3-pro"
	cfg.Language = "es"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "gemini-3-pro" {
		t.Errorf("Model = %q", loaded.Model)
	}
	if loaded.Language != "es" {
		t.Errorf("Language = %q", loaded.Language)
	}
}

func TestSaveExcludesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.APIKey = "super-secret-credential"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "super-secret-credential") {
		t.Error("API key leaked into the config file")
	}
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	t.Setenv("SHELLSAGE_API_KEY", "from-env")
	t.Setenv("GEMINI_API_KEY", "from-legacy-env")

	if got := ResolveAPIKey("from-flag"); got != "from-flag" {
		t.Errorf("flag override lost: %q", got)
	}
}

func TestResolveAPIKeyEnvOrder(t *testing.T) {
	// Point HOME at an empty dir so neither the keyring daemon's file
	// fallback nor a developer's real key file interferes.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELLSAGE_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "secondary")

	if got := ResolveAPIKey(""); got != "primary" {
		t.Errorf("ResolveAPIKey = %q, want SHELLSAGE_API_KEY to win", got)
	}

	t.Setenv("SHELLSAGE_API_KEY", "")
	if got := ResolveAPIKey(""); got != "secondary" {
		t.Errorf("ResolveAPIKey = %q, want GEMINI_API_KEY fallback", got)
	}
}
