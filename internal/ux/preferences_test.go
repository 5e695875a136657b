package ux

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFirstRunFiresOnce(t *testing.T) {
	dir := t.TempDir()
	store := NewPreferencesStore(dir)

	if !store.FirstRun() {
		t.Fatal("fresh store did not report first run")
	}
	if store.FirstRun() {
		t.Error("second call reported first run again")
	}

	// The flag survives a reload.
	if NewPreferencesStore(dir).FirstRun() {
		t.Error("first run reported again after reload")
	}
}

func TestCountersPersist(t *testing.T) {
	dir := t.TempDir()
	store := NewPreferencesStore(dir)

	store.RecordQuery()
	store.RecordQuery()
	store.RecordExecution()

	reloaded := NewPreferencesStore(dir).Stats()
	if reloaded.QueriesRun != 2 {
		t.Errorf("QueriesRun = %d, want 2", reloaded.QueriesRun)
	}
	if reloaded.CommandsExecuted != 1 {
		t.Errorf("CommandsExecuted = %d, want 1", reloaded.CommandsExecuted)
	}
}

func TestCorruptPreferencesStartFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewPreferencesStore(dir)
	if !store.FirstRun() {
		t.Error("corrupt file should behave like a fresh install")
	}
}
