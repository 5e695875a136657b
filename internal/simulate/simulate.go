// Package simulate predicts what a command would do without running it.
// A local heuristic pass flags obvious hazards immediately; the remote model
// then predicts affected files, expected output, and risks in a structured
// reply that is parsed back into the result.
package simulate

import (
	"context"
	"strings"

	"shellsage/internal/logging"
	"shellsage/internal/safety"
)

// Generator is the remote surface the simulator needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	LanguageDirective() string
}

// Result is the outcome of simulating one command.
// IsDestructive can be upgraded by the structured reply even when the
// initial heuristic was negative; it is never downgraded.
type Result struct {
	PredictedText string
	FilesAffected []string
	Warnings      []string
	IsDestructive bool
}

// Structured-reply section markers the model is asked to emit.
const (
	markerFiles       = "FILES_AFFECTED:"
	markerDestructive = "DESTRUCTIVE_LEVEL:"
)

// Simulate runs the heuristic pass and the remote prediction for command.
func Simulate(ctx context.Context, g Generator, command string) Result {
	verdict := safety.Check(command)
	result := Result{IsDestructive: verdict.Dangerous}
	if verdict.Dangerous {
		logging.Simulate("heuristic flagged %q: %v", command, verdict.Matched)
		result.Warnings = append(result.Warnings, "WARNING: This command is potentially destructive!")
	}

	result.Warnings = append(result.Warnings, heuristicWarnings(command)...)

	reply, err := g.Generate(ctx, buildPrompt(command, g.LanguageDirective()))
	if err != nil {
		result.PredictedText = "Failed to simulate command: " + err.Error()
		return result
	}

	result.PredictedText = reply
	parseStructured(reply, &result)
	return result
}

// heuristicWarnings adds targeted warnings for specific hazard shapes.
func heuristicWarnings(command string) []string {
	var warnings []string

	if strings.Contains(command, "rm") {
		if strings.Contains(command, "-rf") || strings.Contains(command, "-r") {
			warnings = append(warnings, "This command removes files/directories recursively.")
		}
		if strings.Contains(command, "*") {
			warnings = append(warnings, "Wildcard (*) use may affect more files than expected.")
		}
	}
	if strings.Contains(command, "chmod") && strings.Contains(command, "777") {
		warnings = append(warnings, "chmod 777 removes all security restrictions from the file.")
	}
	return warnings
}

func buildPrompt(command, languageDirective string) string {
	var b strings.Builder
	b.WriteString("You are a Linux command simulator. Predict what would happen if the following command were executed.\n\n")
	b.WriteString("Command: ")
	b.WriteString(command)
	b.WriteString("\n\nAnswer in this structured format:\n")
	b.WriteString("FILES_AFFECTED: (list files/directories that would be modified, created or deleted)\n")
	b.WriteString("EXPECTED_OUTPUT: (what would appear in the terminal)\n")
	b.WriteString("RISKS: (possible problems or side effects)\n")
	b.WriteString("DESTRUCTIVE_LEVEL: (LOW, MEDIUM, HIGH)\n\n")
	b.WriteString("Be precise and technical. ")
	b.WriteString(languageDirective)
	return b.String()
}

// parseStructured pulls the FILES_AFFECTED list and the destructive level
// out of the model's reply. Parsing is best-effort: a reply without the
// markers leaves the result as-is.
func parseStructured(reply string, result *Result) {
	for _, line := range strings.Split(reply, "\n") {
		if idx := strings.Index(line, markerFiles); idx >= 0 {
			files := line[idx+len(markerFiles):]
			for _, file := range strings.Split(files, ",") {
				file = strings.TrimSpace(file)
				if file != "" {
					result.FilesAffected = append(result.FilesAffected, file)
				}
			}
		}

		if strings.Contains(line, markerDestructive) && strings.Contains(line, "HIGH") {
			// Upgrade only; a LOW prediction never clears a heuristic flag.
			result.IsDestructive = true
		}
	}
}
