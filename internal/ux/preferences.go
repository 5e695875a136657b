package ux

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PreferencesVersion is the schema version for preferences.json.
const PreferencesVersion = "1.0"

// Preferences tracks lightweight per-user state that is not configuration:
// whether the first-run hint was shown and rough usage counters. Stored as
// JSON next to the config file. All failures are soft; a broken or missing
// file behaves like a fresh install.
type Preferences struct {
	Version string `json:"version"`

	FirstRunCompleted bool      `json:"first_run_completed"`
	InstalledAt       time.Time `json:"installed_at,omitempty"`

	QueriesRun       int `json:"queries_run"`
	CommandsExecuted int `json:"commands_executed"`
}

// PreferencesStore loads and persists one preferences file.
type PreferencesStore struct {
	path string

	mu    sync.Mutex
	prefs Preferences
}

// NewPreferencesStore loads preferences from dir/preferences.json.
func NewPreferencesStore(dir string) *PreferencesStore {
	s := &PreferencesStore{
		path: filepath.Join(dir, "preferences.json"),
		prefs: Preferences{
			Version:     PreferencesVersion,
			InstalledAt: time.Now(),
		},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	var loaded Preferences
	if err := json.Unmarshal(data, &loaded); err != nil {
		return s
	}
	loaded.Version = PreferencesVersion
	s.prefs = loaded
	return s
}

// FirstRun reports whether this is the first interaction and marks it done.
// Returns true exactly once per preferences file.
func (s *PreferencesStore) FirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.FirstRunCompleted {
		return false
	}
	s.prefs.FirstRunCompleted = true
	s.persist()
	return true
}

// RecordQuery bumps the query counter.
func (s *PreferencesStore) RecordQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.QueriesRun++
	s.persist()
}

// RecordExecution bumps the executed-command counter.
func (s *PreferencesStore) RecordExecution() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.CommandsExecuted++
	s.persist()
}

// Stats returns a copy of the current counters.
func (s *PreferencesStore) Stats() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// persist writes the file with owner-only permissions. Callers hold mu.
func (s *PreferencesStore) persist() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return
	}
	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(s.path, data, 0600)
}
