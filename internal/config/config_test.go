package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Workflow.WorkerCount != defaultWorkerCount {
		t.Fatalf("expected default worker count, got %d", cfg.Workflow.WorkerCount)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console format, got %q", cfg.Logging.Format)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + dir + `/logs"

[slack]
webhook_url = "  https://hooks.slack.com/services/T/B/X  "
channel = "reviews"

[wordpress]
site_url = "https://blog.example.com/"
username = "publisher"
app_password = "secret"

[workflow]
worker_count = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Workflow.WorkerCount != 4 {
		t.Fatalf("expected worker count 4, got %d", cfg.Workflow.WorkerCount)
	}
	if cfg.Slack.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Fatalf("webhook url not trimmed: %q", cfg.Slack.WebhookURL)
	}
	if cfg.Slack.Channel != "#reviews" {
		t.Fatalf("channel not normalized: %q", cfg.Slack.Channel)
	}
	if strings.HasSuffix(cfg.WordPress.SiteURL, "/") {
		t.Fatalf("site url should have trailing slash removed: %q", cfg.WordPress.SiteURL)
	}
	if !cfg.WordPressConfigured() {
		t.Fatal("expected wordpress to be configured")
	}
	if cfg.LinkedInConfigured() {
		t.Fatal("expected linkedin to be unconfigured")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Workflow.WorkerCount = 0
	cfg.Content.ScriptVariants = 0
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, fragment := range []string{"worker_count", "script_variants", "logging.level"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error: %v", fragment, err)
		}
	}
}

func TestValidateRequiresSaneHeartbeat(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Workflow.HeartbeatTimeout = cfg.Workflow.HeartbeatInterval
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected heartbeat timeout validation error")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	expanded, err := ExpandPath("~/state")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(home, "state") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
