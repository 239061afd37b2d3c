package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// LLM contains connection settings for the text-generation backend used by
// the script and caption steps. The endpoint speaks the OpenAI-compatible
// chat completions protocol.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Video contains settings for the job-based text-to-video backend.
type Video struct {
	BaseURL                  string `toml:"base_url"`
	APIKey                   string `toml:"api_key"`
	FrameCount               int    `toml:"frame_count"`
	Width                    int    `toml:"width"`
	Height                   int    `toml:"height"`
	RequestTimeoutSeconds    int    `toml:"request_timeout_seconds"`
	GenerationTimeoutSeconds int    `toml:"generation_timeout_seconds"`
	PollIntervalSeconds      int    `toml:"poll_interval_seconds"`
}

// Slack contains the incoming-webhook settings used for approval requests
// and lifecycle notifications.
type Slack struct {
	WebhookURL     string `toml:"webhook_url"`
	Channel        string `toml:"channel"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WordPress contains REST API credentials for draft and publish targets.
type WordPress struct {
	SiteURL        string `toml:"site_url"`
	Username       string `toml:"username"`
	AppPassword    string `toml:"app_password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LinkedIn contains UGC post API credentials.
type LinkedIn struct {
	AccessToken     string `toml:"access_token"`
	PersonURN       string `toml:"person_urn"`
	OrganizationURN string `toml:"organization_urn"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Content contains generation parameters shared by the pipeline steps.
type Content struct {
	ScriptVariants        int `toml:"script_variants"`
	TargetDurationSeconds int `toml:"target_duration_seconds"`
}

// Notifications contains per-category toggles for Slack lifecycle messages.
type Notifications struct {
	Queue     bool `toml:"queue"`
	Publish   bool `toml:"publish"`
	Approvals bool `toml:"approvals"`
	Errors    bool `toml:"errors"`
}

// Workflow contains daemon timing, concurrency, and approval settings.
type Workflow struct {
	WorkerCount            int `toml:"worker_count"`
	QueuePollInterval      int `toml:"queue_poll_interval"`
	ErrorRetryInterval     int `toml:"error_retry_interval"`
	HeartbeatInterval      int `toml:"heartbeat_interval"`
	HeartbeatTimeout       int `toml:"heartbeat_timeout"`
	ApprovalTimeoutSeconds int `toml:"approval_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for socialfactory.
//
// Configuration sections by subsystem:
//   - Paths: log/state directory (queue database, lock, socket)
//   - LLM: script and caption generation backend
//   - Video: text-to-video generation backend
//   - Slack: approval requests and notifications
//   - WordPress / LinkedIn: publish targets
//   - Content: generation parameters (variant count, target duration)
//   - Notifications: per-category message toggles
//   - Workflow: worker pool, polling intervals, approval timeout
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	LLM           LLM           `toml:"llm"`
	Video         Video         `toml:"video"`
	Slack         Slack         `toml:"slack"`
	WordPress     WordPress     `toml:"wordpress"`
	LinkedIn      LinkedIn      `toml:"linkedin"`
	Content       Content       `toml:"content"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/socialfactory/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("socialfactory.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
