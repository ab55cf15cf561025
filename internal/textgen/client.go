// Package textgen provides the HTTP client for the generative-text
// provider.  The provider is treated as an opaque, possibly-slow,
// possibly-failing collaborator: callers get back either generated
// text plus the unit counts consumed, or a typed error they can
// degrade from.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Placeholder is the documented fallback text callers substitute when
// the provider is unreachable or returns garbage.  Degrading to it
// keeps the enclosing operation alive instead of aborting it.
const Placeholder = "Analysis is temporarily unavailable. Check back later."

// ErrUnavailable signals that the provider could not be reached or
// did not produce a usable completion.
var ErrUnavailable = errors.New("text provider unavailable")

// Usage reports the units consumed by one generate call as counted by
// the provider itself.
type Usage struct {
	PromptUnits     uint64 `json:"prompt_tokens"`
	CompletionUnits uint64 `json:"completion_tokens"`
}

// Config holds the client settings.
type Config struct {
	BaseURL string        // provider endpoint base, e.g. https://api.openai.com
	APIKey  string        // bearer credential; empty for local providers
	Model   string        // model identifier sent with every request
	Timeout time.Duration // per-request timeout (default 30s)
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// New constructs a Client.  A zero timeout defaults to 30 seconds.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Generate sends one prompt and returns the completion text with the
// units it consumed.  Transport failures, non-2xx statuses and empty
// completions all map to ErrUnavailable; the caller decides whether
// to surface the error or fall back to Placeholder.
func (c *Client) Generate(ctx context.Context, prompt string) (string, Usage, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", Usage{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused; the body
		// itself is not trusted enough to forward to clients.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return "", Usage{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", Usage{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", Usage{}, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return out.Choices[0].Message.Content, out.Usage, nil
}
