// Package explain builds the prompt templates for command explanation
// modes and fix suggestions.
package explain

import (
	"context"
	"strings"
)

// Generator is the remote surface the explainer needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	LanguageDirective() string
}

// Mode selects the explanation register.
type Mode int

const (
	// ModeNormal is a concise summary plus per-flag breakdown.
	ModeNormal Mode = iota
	// ModeELI5 explains with real-world analogies for a five-year-old.
	ModeELI5
	// ModeDetailed is a full technical walkthrough.
	ModeDetailed
)

// Command asks the model to explain a shell command in the given mode.
func Command(ctx context.Context, g Generator, command string, mode Mode) (string, error) {
	return g.Generate(ctx, buildPrompt(command, mode, g.LanguageDirective()))
}

// FixSuggestion asks the model to diagnose a failed command and propose a
// corrected one.
func FixSuggestion(ctx context.Context, g Generator, failedCommand, errorMessage string) (string, error) {
	var b strings.Builder
	b.WriteString("You are a CLI assistant helping fix a command that failed.\n\n")
	b.WriteString("Command that failed: ")
	b.WriteString(failedCommand)
	b.WriteString("\nError message: ")
	b.WriteString(errorMessage)
	b.WriteString("\n\nProvide:\n")
	b.WriteString("1. What caused the error\n")
	b.WriteString("2. The corrected command\n")
	b.WriteString("3. A brief explanation of the fix\n\n")
	b.WriteString("Be direct and practical. ")
	b.WriteString(g.LanguageDirective())
	return g.Generate(ctx, b.String())
}

func buildPrompt(command string, mode Mode, languageDirective string) string {
	var b strings.Builder

	switch mode {
	case ModeELI5:
		b.WriteString("Explain this command to a 5-year-old in 2-3 simple sentences using a real-world analogy: ")
		b.WriteString(command)
		b.WriteString("\n\nNo emojis, no bullet points. Very short and simple. ")
	case ModeDetailed:
		b.WriteString("You are an advanced Linux instructor. Provide a detailed technical explanation.\n\n")
		b.WriteString("Command: ")
		b.WriteString(command)
		b.WriteString("\n\nInclude:\n")
		b.WriteString("1. Full syntax and all available options\n")
		b.WriteString("2. Practical usage examples\n")
		b.WriteString("3. Related commands\n")
		b.WriteString("4. Common pitfalls and best practices\n")
		b.WriteString("5. How to combine with other commands (pipes, redirection)\n\n")
	default:
		b.WriteString("Explain this command briefly and directly: ")
		b.WriteString(command)
		b.WriteString("\n\nFormat: One short paragraph with what it does, then each flag explained in one line. ")
		b.WriteString("No emojis, no bullet points, no headers. Keep it under 100 words. ")
	}

	b.WriteString(languageDirective)
	return b.String()
}
