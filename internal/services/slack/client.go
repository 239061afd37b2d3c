// Package slack posts messages to a Slack incoming webhook. It carries both
// lifecycle notifications and approval requests for runs paused at the
// approval gate.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Config captures the webhook settings.
type Config struct {
	WebhookURL     string
	Channel        string
	TimeoutSeconds int
}

// Client posts messages to a Slack incoming webhook.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Slack webhook client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			WebhookURL:     strings.TrimSpace(cfg.WebhookURL),
			Channel:        strings.TrimSpace(cfg.Channel),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether a webhook URL is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.WebhookURL != ""
}

type webhookPayload struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
}

// PostMessage sends a plain-text message through the webhook.
func (c *Client) PostMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("slack post: text required")
	}
	if !c.Configured() {
		return errors.New("slack post: webhook url required")
	}

	encoded, err := json.Marshal(webhookPayload{Text: text, Channel: c.cfg.Channel})
	if err != nil {
		return fmt.Errorf("slack post: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("slack post: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: http error: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("slack post: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// PostApprovalRequest sends the review message for a run waiting at the
// approval gate, including the commands a reviewer runs to decide it.
func (c *Client) PostApprovalRequest(ctx context.Context, runID int64, topic, platform, caption, videoURL string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, ":inbox_tray: Run #%d needs review\n", runID)
	fmt.Fprintf(&msg, "*Topic:* %s\n", strings.TrimSpace(topic))
	if platform = strings.TrimSpace(platform); platform != "" {
		fmt.Fprintf(&msg, "*Platform:* %s\n", platform)
	}
	if caption = strings.TrimSpace(caption); caption != "" {
		fmt.Fprintf(&msg, "*Caption:* %s\n", caption)
	}
	if videoURL = strings.TrimSpace(videoURL); videoURL != "" {
		fmt.Fprintf(&msg, "*Video:* %s\n", videoURL)
	}
	fmt.Fprintf(&msg, "Approve with `socialfactory approve %d` or reject with `socialfactory reject %d`.", runID, runID)
	return c.PostMessage(ctx, msg.String())
}
