// Package video drives a job-based text-to-video backend: submit a prompt,
// poll the job until it settles, return the rendered asset URL.
package video

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
	defaultRequestTimeout    = 30 * time.Second
	defaultGenerationTimeout = 3 * time.Minute
	defaultPollInterval      = 2 * time.Second
)

// Config captures the backend connection and render parameters.
type Config struct {
	BaseURL                  string
	APIKey                   string
	FrameCount               int
	Width                    int
	Height                   int
	RequestTimeoutSeconds    int
	GenerationTimeoutSeconds int
	PollIntervalSeconds      int
}

// Client talks to the video generation backend.
type Client struct {
	cfg        Config
	httpClient *http.Client

	generationTimeout time.Duration
	pollInterval      time.Duration
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

// WithPollInterval overrides the job polling cadence (useful for tests).
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// NewClient constructs a video backend client.
func NewClient(cfg Config, opts ...Option) *Client {
	requestTimeout := defaultRequestTimeout
	if cfg.RequestTimeoutSeconds > 0 {
		requestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	generationTimeout := defaultGenerationTimeout
	if cfg.GenerationTimeoutSeconds > 0 {
		generationTimeout = time.Duration(cfg.GenerationTimeoutSeconds) * time.Second
	}
	pollInterval := defaultPollInterval
	if cfg.PollIntervalSeconds > 0 {
		pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}

	client := &Client{
		cfg: Config{
			BaseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:     strings.TrimSpace(cfg.APIKey),
			FrameCount: cfg.FrameCount,
			Width:      cfg.Width,
			Height:     cfg.Height,
		},
		httpClient:        &http.Client{Timeout: requestTimeout},
		generationTimeout: generationTimeout,
		pollInterval:      pollInterval,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether a backend URL is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.BaseURL != ""
}

// JobStatus is the lifecycle state reported by the backend for a render job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is the backend's view of a render job.
type Job struct {
	ID       string    `json:"id"`
	Status   JobStatus `json:"status"`
	VideoURL string    `json:"videoUrl"`
	Error    string    `json:"error"`
}

// SubmitJob enqueues a render job for the given prompt.
func (c *Client) SubmitJob(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("video submit: prompt required")
	}
	if !c.Configured() {
		return "", errors.New("video submit: base url required")
	}

	payload := map[string]any{
		"prompt":     prompt,
		"frameCount": c.cfg.FrameCount,
		"width":      c.cfg.Width,
		"height":     c.cfg.Height,
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/jobs", payload)
	if err != nil {
		return "", err
	}

	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return "", fmt.Errorf("video submit: decode response: %w", err)
	}
	if job.ID == "" {
		return "", errors.New("video submit: response missing job id")
	}
	return job.ID, nil
}

// GetJob fetches the current state of a render job.
func (c *Client) GetJob(ctx context.Context, id string) (Job, error) {
	var empty Job
	id = strings.TrimSpace(id)
	if id == "" {
		return empty, errors.New("video job: id required")
	}
	body, err := c.doJSON(ctx, http.MethodGet, "/jobs/"+id, nil)
	if err != nil {
		return empty, err
	}
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return empty, fmt.Errorf("video job: decode response: %w", err)
	}
	return job, nil
}

// Generate submits a render job and polls until it completes, fails, or the
// generation timeout elapses. It returns the rendered asset URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	jobID, err := c.SubmitJob(ctx, prompt)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.generationTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return "", err
		}
		switch job.Status {
		case JobCompleted:
			if strings.TrimSpace(job.VideoURL) == "" {
				return "", fmt.Errorf("video generate: job %s completed without a video url", jobID)
			}
			return job.VideoURL, nil
		case JobFailed:
			detail := strings.TrimSpace(job.Error)
			if detail == "" {
				detail = "no detail provided"
			}
			return "", fmt.Errorf("video generate: job %s failed: %s", jobID, detail)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("video generate: job %s timed out after %s", jobID, c.generationTimeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("video request: encode payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("video request: new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("video request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("video request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
