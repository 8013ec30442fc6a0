// Package ai is a thin client for the text-completion service used for
// message translation and simulated guide replies. The service is an opaque
// collaborator: every caller treats a failure here as "skip the AI step",
// never as a delivery failure.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"guidely/pkg/logger"
)

// ErrUnavailable is returned when the service is not configured or did not
// produce usable text. Callers fall back to their own default.
var ErrUnavailable = errors.New("completion service unavailable")

// Translator turns text into the receiver's preferred language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Completer generates a reply for a prompt under a persona context.
type Completer interface {
	Complete(ctx context.Context, prompt, personaContext string) (string, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements Translator and Completer against a generateContent-style
// REST endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s. Return ONLY the translated text: %q", targetLang, text)
	return c.generate(ctx, "", prompt)
}

func (c *Client) Complete(ctx context.Context, prompt, personaContext string) (string, error) {
	return c.generate(ctx, personaContext, prompt)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, personaContext, prompt string) (string, error) {
	if c.cfg.APIKey == "" || c.cfg.BaseURL == "" {
		return "", ErrUnavailable
	}

	parts := []part{}
	if personaContext != "" {
		parts = append(parts, part{Text: personaContext})
	}
	parts = append(parts, part{Text: prompt})

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Completion request failed", "error", err)
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Completion service returned non-OK status", "status", resp.StatusCode)
		return "", ErrUnavailable
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn("Failed to decode completion response", "error", err)
		return "", ErrUnavailable
	}

	text := firstText(out)
	if text == "" {
		return "", ErrUnavailable
	}
	return text, nil
}

func firstText(resp generateResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if trimmed := strings.TrimSpace(p.Text); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
