package explain

import (
	"context"
	"strings"
	"testing"
)

type stubGenerator struct {
	reply  string
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, nil
}

func (s *stubGenerator) LanguageDirective() string {
	return "Respond in English."
}

func TestCommandModes(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		wantPhrase string
	}{
		{"normal", ModeNormal, "Explain this command briefly"},
		{"eli5", ModeELI5, "5-year-old"},
		{"detailed", ModeDetailed, "advanced Linux instructor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &stubGenerator{reply: "explanation"}
			got, err := Command(context.Background(), g, "tar -xzvf archive.tar.gz", tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if got != "explanation" {
				t.Errorf("reply = %q", got)
			}
			if !strings.Contains(g.prompt, tt.wantPhrase) {
				t.Errorf("prompt missing %q:\n%s", tt.wantPhrase, g.prompt)
			}
			if !strings.Contains(g.prompt, "tar -xzvf archive.tar.gz") {
				t.Error("prompt missing the command")
			}
			if !strings.Contains(g.prompt, "Respond in English.") {
				t.Error("prompt missing language directive")
			}
		})
	}
}

func TestFixSuggestion(t *testing.T) {
	g := &stubGenerator{reply: "use sudo"}
	got, err := FixSuggestion(context.Background(), g, "apt install jq", "Permission denied")
	if err != nil {
		t.Fatal(err)
	}
	if got != "use sudo" {
		t.Errorf("reply = %q", got)
	}
	for _, want := range []string{"apt install jq", "Permission denied", "corrected command"} {
		if !strings.Contains(g.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
