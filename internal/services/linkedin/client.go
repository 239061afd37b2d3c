// Package linkedin creates UGC posts through the LinkedIn REST API using a
// member or organization access token.
package linkedin

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

const (
	defaultBaseURL = "https://api.linkedin.com"
	defaultTimeout = 30 * time.Second
)

// Config captures the UGC post API credentials.
type Config struct {
	AccessToken     string
	PersonURN       string
	OrganizationURN string
	TimeoutSeconds  int
}

// Client talks to the LinkedIn UGC post API.
type Client struct {
	cfg        Config
	baseURL    string
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

// WithBaseURL overrides the API endpoint (useful for tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient constructs a LinkedIn client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			AccessToken:     strings.TrimSpace(cfg.AccessToken),
			PersonURN:       strings.TrimSpace(cfg.PersonURN),
			OrganizationURN: strings.TrimSpace(cfg.OrganizationURN),
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client has a token and an author URN.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.AccessToken != "" && c.author() != ""
}

// author prefers the organization URN so company pages win over personal
// profiles when both are configured.
func (c *Client) author() string {
	if c.cfg.OrganizationURN != "" {
		return c.cfg.OrganizationURN
	}
	return c.cfg.PersonURN
}

type ugcPostRequest struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// CreatePost publishes a text share and returns the created post identifier.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("linkedin post: text required")
	}
	if !c.Configured() {
		return "", errors.New("linkedin post: access token and author urn required")
	}

	payload := ugcPostRequest{
		Author:         c.author(),
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("linkedin post: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("linkedin post: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin post: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("linkedin post: read body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("linkedin post: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if id := strings.TrimSpace(resp.Header.Get("X-RestLi-Id")); id != "" {
		return id, nil
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err == nil && created.ID != "" {
		return created.ID, nil
	}
	return "", errors.New("linkedin post: response missing post id")
}
