// Package ux centralizes terminal styling and markdown rendering.
package ux

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	// WarnStyle marks dangerous-command warnings.
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// HintStyle marks suggestions and advisories.
	HintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// CommandStyle marks a command about to be executed.
	CommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	// SuccessStyle marks confirmations.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// PromptStyle marks the interactive console prompt.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// Warn styles a warning line.
func Warn(s string) string { return WarnStyle.Render(s) }

// Hint styles an advisory line.
func Hint(s string) string { return HintStyle.Render(s) }

// Command styles a command string.
func Command(s string) string { return CommandStyle.Render(s) }

// Success styles a confirmation line.
func Success(s string) string { return SuccessStyle.Render(s) }

// RenderMarkdown renders model output for the terminal. On any renderer
// failure the raw text is returned unchanged.
func RenderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
