package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name under which credentials are stored.
const keyringService = "shellsage"

// keyringUser is the account label for the API credential.
const keyringUser = "api_key"

// ResolveAPIKey returns the API credential, trying sources in order:
// explicit override (flag), OS keyring, environment, legacy key file.
// An empty result means no credential is configured.
func ResolveAPIKey(override string) string {
	if override != "" {
		return override
	}

	if key, err := keyring.Get(keyringService, keyringUser); err == nil && key != "" {
		return key
	}

	for _, env := range []string{"SHELLSAGE_API_KEY", "GEMINI_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			return key
		}
	}

	// Fallback: plain key file for hosts without a keyring daemon.
	dir, err := StateDir()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dir, "api_key"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// StoreAPIKey saves the credential in the OS keyring. If no keyring
// backend is available, it falls back to an owner-only key file.
func StoreAPIKey(key string) error {
	if err := keyring.Set(keyringService, keyringUser, key); err == nil {
		return nil
	}

	dir, err := StateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	path := filepath.Join(dir, "api_key")
	if err := os.WriteFile(path, []byte(key+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored credential from both backends.
func DeleteAPIKey() error {
	kerr := keyring.Delete(keyringService, keyringUser)

	dir, err := StateDir()
	if err == nil {
		if rerr := os.Remove(filepath.Join(dir, "api_key")); rerr == nil {
			return nil
		}
	}
	return kerr
}
