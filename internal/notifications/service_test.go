package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialfactory/internal/config"
	"socialfactory/internal/services/slack"
)

func recordingService(t *testing.T, toggles config.Notifications, messages *[]string) Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.Unmarshal(body, &payload)
		*messages = append(*messages, payload.Text)
		w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)
	return NewWithClient(slack.NewClient(slack.Config{WebhookURL: server.URL}), toggles)
}

func allOn() config.Notifications {
	return config.Notifications{Queue: true, Publish: true, Approvals: true, Errors: true}
}

func TestNotifyLifecycleMessages(t *testing.T) {
	var messages []string
	svc := recordingService(t, allOn(), &messages)
	ctx := context.Background()

	if err := svc.NotifyRunQueued(ctx, 1, "Go releases", "linkedin"); err != nil {
		t.Fatalf("NotifyRunQueued: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, 1, "Go releases", false); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, 2, "Rust releases", true); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyPublished(ctx, 1, "Go releases", "linkedin", "urn:li:share:9"); err != nil {
		t.Fatalf("NotifyPublished: %v", err)
	}

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if !strings.Contains(messages[0], "Run #1 queued") {
		t.Fatalf("unexpected queued message: %q", messages[0])
	}
	if !strings.Contains(messages[2], "completed with step errors") {
		t.Fatalf("expected soft-failure wording: %q", messages[2])
	}
	if !strings.Contains(messages[3], "urn:li:share:9") {
		t.Fatalf("expected publish id: %q", messages[3])
	}
}

func TestTogglesSuppressCategories(t *testing.T) {
	var messages []string
	svc := recordingService(t, config.Notifications{Queue: false, Publish: false, Approvals: false, Errors: false}, &messages)
	ctx := context.Background()

	_ = svc.NotifyRunQueued(ctx, 1, "t", "p")
	_ = svc.NotifyRunCompleted(ctx, 1, "t", false)
	_ = svc.NotifyRunFailed(ctx, 1, "t", "boom")
	_ = svc.NotifyApprovalRequested(ctx, 1, "t", "p", "c", "")
	_ = svc.NotifyPublished(ctx, 1, "t", "p", "id")

	if len(messages) != 0 {
		t.Fatalf("expected no messages, got %v", messages)
	}
}

func TestNewServiceDeliversThroughConfiguredWebhook(t *testing.T) {
	var messages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.Unmarshal(body, &payload)
		messages = append(messages, payload.Text)
		w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Slack:         config.Slack{WebhookURL: server.URL},
		Notifications: allOn(),
	}
	svc := NewService(cfg)
	if _, ok := svc.(*slackService); !ok {
		t.Fatalf("expected slack-backed service, got %T", svc)
	}
	if err := svc.NotifyRunQueued(context.Background(), 7, "Go releases", "linkedin"); err != nil {
		t.Fatalf("NotifyRunQueued: %v", err)
	}
	if len(messages) != 1 || !strings.Contains(messages[0], "Run #7 queued") {
		t.Fatalf("unexpected delivery %v", messages)
	}
}

func TestUnconfiguredServiceIsNoop(t *testing.T) {
	svc := NewService(&config.Config{})
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop TestNotification: %v", err)
	}
}
