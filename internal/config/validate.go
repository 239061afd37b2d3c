package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values that would make the daemon
// misbehave at runtime. Missing adapter credentials are not errors here; the
// affected steps report themselves unavailable instead.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.LogDir == "" {
		problems = append(problems, "paths.log_dir must not be empty")
	}

	if c.LLM.TimeoutSeconds <= 0 {
		problems = append(problems, "llm.timeout_seconds must be positive")
	}
	if c.LLM.BaseURL == "" {
		problems = append(problems, "llm.base_url must not be empty")
	}
	if c.LLM.Model == "" {
		problems = append(problems, "llm.model must not be empty")
	}

	if c.Video.FrameCount <= 0 {
		problems = append(problems, "video.frame_count must be positive")
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		problems = append(problems, "video.width and video.height must be positive")
	}
	if c.Video.RequestTimeoutSeconds <= 0 {
		problems = append(problems, "video.request_timeout_seconds must be positive")
	}
	if c.Video.GenerationTimeoutSeconds <= 0 {
		problems = append(problems, "video.generation_timeout_seconds must be positive")
	}
	if c.Video.PollIntervalSeconds <= 0 {
		problems = append(problems, "video.poll_interval_seconds must be positive")
	}

	if c.Content.ScriptVariants < 1 || c.Content.ScriptVariants > 10 {
		problems = append(problems, "content.script_variants must be between 1 and 10")
	}
	if c.Content.TargetDurationSeconds < 5 || c.Content.TargetDurationSeconds > 600 {
		problems = append(problems, "content.target_duration_seconds must be between 5 and 600")
	}

	if c.Workflow.WorkerCount < 1 {
		problems = append(problems, "workflow.worker_count must be at least 1")
	}
	if c.Workflow.QueuePollInterval <= 0 {
		problems = append(problems, "workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		problems = append(problems, "workflow.error_retry_interval must be positive")
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		problems = append(problems, "workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		problems = append(problems, "workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	if c.Workflow.ApprovalTimeoutSeconds <= 0 {
		problems = append(problems, "workflow.approval_timeout_seconds must be positive")
	}

	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
}
