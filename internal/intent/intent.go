// Package intent classifies a free-form request into "execute a command"
// or "explain/answer" by asking the model for a JSON-only reply and parsing
// it defensively. Structured-parse failures degrade to Explain; only
// transport failures produce Failure.
package intent

import (
	"context"
	"encoding/json"
	"strings"
)

// Generator is the remote-client surface the classifier needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, sink func(string)) (string, error)
	LanguageDirective() string
}

// Response is the classification outcome. Exactly one concrete variant:
// Execute, Explain, or Failure. Consumption sites switch exhaustively.
type Response interface {
	isResponse()
}

// Execute means the user wants a shell command run.
type Execute struct {
	Command     string
	Explanation string
}

// Explain carries a textual answer.
type Explain struct {
	Text string
}

// Failure is a transport-level error; structured-parse problems never
// produce it.
type Failure struct {
	Message string
}

func (Execute) isResponse() {}
func (Explain) isResponse() {}
func (Failure) isResponse() {}

// reply is the JSON shape the model is instructed to emit.
type reply struct {
	Type        string `json:"type"`
	Command     string `json:"command"`
	Explanation string `json:"explanation"`
	Response    string `json:"response"`
}

// Classify runs the synchronous classification pipeline for one query.
func Classify(ctx context.Context, g Generator, query string) Response {
	raw, err := g.Generate(ctx, buildPrompt(query, g.LanguageDirective()))
	if err != nil {
		return Failure{Message: err.Error()}
	}
	return Parse(raw)
}

// ClassifyStream is the streaming variant: decoded chunks go to sink as
// they arrive, then the fully accumulated text is parsed identically.
func ClassifyStream(ctx context.Context, g Generator, query string, sink func(string)) Response {
	raw, err := g.GenerateStream(ctx, buildPrompt(query, g.LanguageDirective()), sink)
	if err != nil {
		return Failure{Message: err.Error()}
	}
	return Parse(raw)
}

func buildPrompt(query, languageDirective string) string {
	var b strings.Builder
	b.WriteString("User request: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString("Analyze the request:\n")
	b.WriteString("1. EXECUTE: If user wants to DO something with the system (find files, list processes, check disk, etc.)\n")
	b.WriteString("2. EXPLAIN: For greetings, questions about concepts, explanations (hi, hello, why, what is, how does X work)\n\n")
	b.WriteString("Greetings like 'hi', 'hello', 'ola' are ALWAYS type explain.\n")
	b.WriteString("Only use execute if the user clearly wants to run a shell command.\n\n")
	b.WriteString("Respond with ONLY valid JSON:\n")
	b.WriteString(`Execute: {"type":"execute","command":"shell command","explanation":"1-line plain text explanation"}` + "\n")
	b.WriteString(`Explain: {"type":"explain","response":"plain text response"}` + "\n\n")
	b.WriteString("CRITICAL: No markdown, no backticks, no asterisks, no formatting. Plain text only.\n")
	b.WriteString(languageDirective)
	return b.String()
}

// Parse extracts the first-{ to last-} span of raw and interprets it.
// Surrounding prose, markdown fences, or commentary the model added despite
// instructions are tolerated. Anything unparseable falls back to Explain
// with the entire raw reply.
func Parse(raw string) Response {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Explain{Text: raw}
	}

	var r reply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &r); err != nil {
		return Explain{Text: raw}
	}

	switch r.Type {
	case "execute":
		return Execute{Command: strings.TrimSpace(r.Command), Explanation: r.Explanation}
	case "explain":
		return Explain{Text: r.Response}
	default:
		return Explain{Text: raw}
	}
}
