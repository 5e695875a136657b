package gemini

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// sseMarker prefixes every event line carrying a JSON fragment.
const sseMarker = "data:"

// decodeStream reads server-sent events from r, forwarding each fragment's
// incremental text to sink in arrival order while accumulating the full
// reply. Malformed fragments are silently skipped: partial progress beats
// strict correctness here. The result is independent of how the transport
// chunks the byte stream.
func decodeStream(r io.Reader, sink func(string)) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var accumulated strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, sseMarker) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, sseMarker))
		if data == "" || data == "[DONE]" {
			continue
		}

		var event generateResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		if len(event.Candidates) == 0 {
			continue
		}
		for _, part := range event.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			accumulated.WriteString(part.Text)
			if sink != nil {
				sink(part.Text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return accumulated.String(), err
	}
	return accumulated.String(), nil
}
