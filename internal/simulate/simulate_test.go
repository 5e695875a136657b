package simulate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubGenerator) LanguageDirective() string {
	return "Respond in English."
}

func TestSimulateBenignCommand(t *testing.T) {
	g := &stubGenerator{reply: "EXPECTED_OUTPUT: directory listing\nDESTRUCTIVE_LEVEL: LOW"}
	result := Simulate(context.Background(), g, "ls -la")

	if result.IsDestructive {
		t.Error("ls flagged destructive")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if result.PredictedText != g.reply {
		t.Errorf("PredictedText = %q", result.PredictedText)
	}
	if !strings.Contains(g.prompt, "ls -la") {
		t.Errorf("prompt missing command: %q", g.prompt)
	}
}

func TestSimulateHeuristicFlag(t *testing.T) {
	g := &stubGenerator{reply: "DESTRUCTIVE_LEVEL: LOW"}
	result := Simulate(context.Background(), g, "rm -rf /tmp/build/*")

	if !result.IsDestructive {
		t.Fatal("recursive rm not flagged")
	}

	// A LOW reply never clears the heuristic verdict.
	hasDanger := false
	hasRecursive := false
	hasWildcard := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "potentially destructive") {
			hasDanger = true
		}
		if strings.Contains(w, "recursively") {
			hasRecursive = true
		}
		if strings.Contains(w, "Wildcard") {
			hasWildcard = true
		}
	}
	if !hasDanger || !hasRecursive || !hasWildcard {
		t.Errorf("warnings = %v, want danger + recursive + wildcard", result.Warnings)
	}
}

func TestSimulateUpgradeFromReply(t *testing.T) {
	g := &stubGenerator{reply: "RISKS: overwrites production data\nDESTRUCTIVE_LEVEL: HIGH"}
	result := Simulate(context.Background(), g, "tar xf backup.tar -C /srv")

	if !result.IsDestructive {
		t.Error("HIGH reply did not upgrade the verdict")
	}
}

func TestSimulateFilesAffected(t *testing.T) {
	g := &stubGenerator{reply: "FILES_AFFECTED: /tmp/a.txt, /tmp/b.txt, /tmp/a.txt\nDESTRUCTIVE_LEVEL: LOW"}
	result := Simulate(context.Background(), g, "touch /tmp/a.txt /tmp/b.txt")

	// Order and duplicates are preserved as the model listed them.
	want := []string{"/tmp/a.txt", "/tmp/b.txt", "/tmp/a.txt"}
	if diff := cmp.Diff(want, result.FilesAffected); diff != "" {
		t.Errorf("FilesAffected mismatch (-want +got):\n%s", diff)
	}
}

func TestSimulateChmod777Warning(t *testing.T) {
	g := &stubGenerator{reply: "DESTRUCTIVE_LEVEL: MEDIUM"}
	result := Simulate(context.Background(), g, "chmod 777 app.sh")

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "security restrictions") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want chmod 777 warning", result.Warnings)
	}
}

func TestSimulateRemoteFailure(t *testing.T) {
	g := &stubGenerator{err: errors.New("network error: timeout")}
	result := Simulate(context.Background(), g, "sudo rm -rf /var/cache")

	// The heuristic verdict survives a remote failure.
	if !result.IsDestructive {
		t.Error("heuristic verdict lost on remote failure")
	}
	if !strings.Contains(result.PredictedText, "Failed to simulate command") {
		t.Errorf("PredictedText = %q", result.PredictedText)
	}
}
