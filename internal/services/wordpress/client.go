// Package wordpress publishes posts through the WordPress REST API using an
// application password. It serves both direct publishes and the draft
// fallback used for platforms without a native integration.
package wordpress

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

const defaultTimeout = 30 * time.Second

// Config captures the REST API credentials.
type Config struct {
	SiteURL        string
	Username       string
	AppPassword    string
	TimeoutSeconds int
}

// Client talks to the WordPress REST API.
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

// NewClient constructs a WordPress client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			SiteURL:        strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/"),
			Username:       strings.TrimSpace(cfg.Username),
			AppPassword:    strings.TrimSpace(cfg.AppPassword),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client has a site and credentials.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.SiteURL != "" && c.cfg.Username != "" && c.cfg.AppPassword != ""
}

// PostStatus is the WordPress post status to create with.
type PostStatus string

const (
	StatusDraft   PostStatus = "draft"
	StatusPublish PostStatus = "publish"
)

// PostRequest describes the post to create.
type PostRequest struct {
	Title   string
	Content string
	Status  PostStatus
}

// Post is the subset of the created post the pipeline records.
type Post struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

// CreatePost creates a post and returns its identifier and permalink.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (Post, error) {
	var empty Post
	if !c.Configured() {
		return empty, errors.New("wordpress post: site url and credentials required")
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" && content == "" {
		return empty, errors.New("wordpress post: title or content required")
	}
	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	payload := map[string]string{
		"title":   title,
		"content": content,
		"status":  string(status),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return empty, fmt.Errorf("wordpress post: encode payload: %w", err)
	}

	endpoint := c.cfg.SiteURL + "/wp-json/wp/v2/posts"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("wordpress post: new request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.AppPassword)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return empty, fmt.Errorf("wordpress post: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return empty, fmt.Errorf("wordpress post: read body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return empty, fmt.Errorf("wordpress post: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var post Post
	if err := json.Unmarshal(body, &post); err != nil {
		return empty, fmt.Errorf("wordpress post: decode response: %w", err)
	}
	if post.ID == 0 {
		return empty, errors.New("wordpress post: response missing post id")
	}
	return post, nil
}
