// Package gemini implements the remote text-generation client: synchronous
// and streaming generation against the Gemini REST API, plus the token-count
// probe. Requests carry the session history as ordered contents; there is no
// separate system channel.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shellsage/internal/config"
	"shellsage/internal/logging"
	"shellsage/internal/session"
)

// CountFailed is the sentinel returned by CountTokens on any failure.
const CountFailed = -1

// validationProbe is the history-bypassing request used to check a credential
// or model without polluting the session.
const validationProbe = "Respond with only the word OK"

// Client talks to one model at one endpoint on behalf of one session.
// No retry is performed internally; retry policy is a caller concern.
type Client struct {
	apiKey   string
	model    string
	language string
	baseURL  string

	sess *session.Session

	genClient    *http.Client
	streamClient *http.Client
	countClient  *http.Client
}

// NewClient builds a client from explicit configuration. Timeouts are fixed
// here; there is no per-call override.
func NewClient(cfg config.Config, sess *session.Session) *Client {
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	language := cfg.Language
	if language == "" {
		language = config.DefaultLanguage
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	return &Client{
		apiKey:       cfg.APIKey,
		model:        model,
		language:     language,
		baseURL:      baseURL,
		sess:         sess,
		genClient:    &http.Client{Timeout: cfg.Timeouts.Generate},
		streamClient: &http.Client{Timeout: cfg.Timeouts.Stream},
		countClient:  &http.Client{Timeout: cfg.Timeouts.Count},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Session returns the session this client reads and appends.
func (c *Client) Session() *session.Session {
	return c.sess
}

// LanguageDirective returns the plain-language instruction folded into
// prompts so replies come back in the configured language.
func (c *Client) LanguageDirective() string {
	switch c.language {
	case "en", "en-us":
		return "Respond in English."
	case "pt", "pt-br":
		return "Respond in Portuguese (Brazilian)."
	case "es", "es-es":
		return "Respond in Spanish."
	default:
		return "Respond in " + c.language + "."
	}
}

// contents builds the ordered request contents: prior session turns (when
// the session is non-ephemeral and non-empty) followed by the new user turn.
func (c *Client) contents(prompt string, useHistory bool) []Content {
	var out []Content
	if useHistory && c.sess != nil && !c.sess.Ephemeral() {
		for _, t := range c.sess.Turns() {
			out = append(out, Content{Role: t.Role, Parts: []Part{{Text: t.Text}}})
		}
	}
	return append(out, Content{Role: session.RoleUser, Parts: []Part{{Text: prompt}}})
}

// Generate sends a synchronous request and returns the complete reply text.
// On success the user turn and the reply are appended to the session.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, true)
}

// Validate sends a probe request that bypasses history entirely.
func (c *Client) Validate(ctx context.Context) error {
	_, err := c.generate(ctx, validationProbe, false)
	return err
}

func (c *Client) generate(ctx context.Context, prompt string, useHistory bool) (string, error) {
	start := time.Now()

	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	reqBody := generateRequest{Contents: c.contents(prompt, useHistory)}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	body, err := c.post(ctx, c.genClient, url, reqBody, "")
	if err != nil {
		logging.APIError("generate: %v", err)
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logging.APIError("generate: malformed body: %v", err)
		return "", fmt.Errorf("malformed response body: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response structure")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	reply := text.String()

	if useHistory && c.sess != nil {
		c.sess.Append(prompt, reply)
	}

	logging.API("generate: model=%s completed in %v reply_len=%d", c.model, time.Since(start), len(reply))
	return reply, nil
}

// GenerateStream sends a streaming request. Each decoded text chunk is
// delivered to sink in arrival order and accumulated; the accumulated text
// is returned after stream close and appended to the session.
func (c *Client) GenerateStream(ctx context.Context, prompt string, sink func(string)) (string, error) {
	start := time.Now()

	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	reqBody := generateRequest{Contents: c.contents(prompt, true)}
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.model, c.apiKey)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		logging.APIError("stream: %v", err)
		return "", fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.APIError("stream: HTTP %d", resp.StatusCode)
		return "", httpError(resp.StatusCode, body)
	}

	accumulated, err := decodeStream(resp.Body, sink)
	if err != nil {
		return "", fmt.Errorf("stream error: %w", err)
	}

	if c.sess != nil {
		c.sess.Append(prompt, accumulated)
	}

	logging.API("stream: model=%s completed in %v reply_len=%d", c.model, time.Since(start), len(accumulated))
	return accumulated, nil
}

// CountTokens reports the token size of the current session context.
// An ephemeral or empty session costs nothing: 0 without a remote call.
// Any failure - network, status, parse - yields CountFailed.
func (c *Client) CountTokens(ctx context.Context) int {
	if c.sess == nil || c.sess.Ephemeral() || c.sess.Len() == 0 {
		return 0
	}

	var contents []Content
	for _, t := range c.sess.Turns() {
		contents = append(contents, Content{Role: t.Role, Parts: []Part{{Text: t.Text}}})
	}

	url := fmt.Sprintf("%s/models/%s:countTokens?key=%s", c.baseURL, c.model, c.apiKey)
	body, err := c.post(ctx, c.countClient, url, countTokensRequest{Contents: contents}, "")
	if err != nil {
		logging.APIDebug("countTokens: %v", err)
		return CountFailed
	}

	var resp countTokensResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return CountFailed
	}
	if resp.TotalTokens < 0 {
		return CountFailed
	}
	return resp.TotalTokens
}

// AddCommandOutput feeds an executed command and its captured output back
// into the session so follow-up requests have the result as context.
func (c *Client) AddCommandOutput(command, output string) {
	if c.sess == nil || c.sess.Ephemeral() {
		return
	}
	c.sess.AppendTurn(session.Turn{
		Role: session.RoleUser,
		Text: "I executed: " + command + "\n\nOutput:\n" + output,
	})
	c.sess.AppendTurn(session.Turn{
		Role: session.RoleModel,
		Text: "Got it. I'll remember this output for context.",
	})
}

// post issues one JSON POST and returns the body of a 200 response.
func (c *Client) post(ctx context.Context, client *http.Client, url string, payload interface{}, accept string) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp.StatusCode, body)
	}
	return body, nil
}

// httpError turns a non-2xx response into a human-readable error, pulling
// the API error message out of the body when it parses.
func httpError(status int, body []byte) error {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != nil {
		return fmt.Errorf("API error: HTTP %d - %s", status, resp.Error.Message)
	}
	return fmt.Errorf("API error: HTTP %d", status)
}
