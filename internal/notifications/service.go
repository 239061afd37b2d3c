package notifications

import (
	"context"
	"fmt"
	"strings"

	"socialfactory/internal/config"
	"socialfactory/internal/services/slack"
)

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyRunQueued(ctx context.Context, runID int64, topic, platform string) error
	NotifyRunCompleted(ctx context.Context, runID int64, topic string, withErrors bool) error
	NotifyRunFailed(ctx context.Context, runID int64, topic string, detail string) error
	NotifyApprovalRequested(ctx context.Context, runID int64, topic, platform, caption, videoURL string) error
	NotifyApprovalResolved(ctx context.Context, runID int64, topic string, approved bool, note string) error
	NotifyPublished(ctx context.Context, runID int64, topic, platform, publishID string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by Slack when configured.
// When no webhook is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil || !cfg.SlackConfigured() {
		return noopService{}
	}
	return &slackService{
		client:  slack.NewClient(slack.Config(cfg.Slack)),
		toggles: cfg.Notifications,
	}
}

// NewWithClient builds a Slack-backed service from an existing client.
// Useful for tests that point the client at a local server.
func NewWithClient(client *slack.Client, toggles config.Notifications) Service {
	if client == nil || !client.Configured() {
		return noopService{}
	}
	return &slackService{client: client, toggles: toggles}
}

type slackService struct {
	client  *slack.Client
	toggles config.Notifications
}

func (s *slackService) NotifyRunQueued(ctx context.Context, runID int64, topic, platform string) error {
	if !s.toggles.Queue {
		return nil
	}
	msg := fmt.Sprintf(":hourglass: Run #%d queued: %s", runID, strings.TrimSpace(topic))
	if platform = strings.TrimSpace(platform); platform != "" {
		msg += fmt.Sprintf(" (%s)", platform)
	}
	return s.client.PostMessage(ctx, msg)
}

func (s *slackService) NotifyRunCompleted(ctx context.Context, runID int64, topic string, withErrors bool) error {
	if !s.toggles.Publish {
		return nil
	}
	if withErrors {
		return s.client.PostMessage(ctx, fmt.Sprintf(":warning: Run #%d completed with step errors: %s", runID, strings.TrimSpace(topic)))
	}
	return s.client.PostMessage(ctx, fmt.Sprintf(":white_check_mark: Run #%d completed: %s", runID, strings.TrimSpace(topic)))
}

func (s *slackService) NotifyRunFailed(ctx context.Context, runID int64, topic string, detail string) error {
	if !s.toggles.Errors {
		return nil
	}
	msg := fmt.Sprintf(":x: Run #%d failed: %s", runID, strings.TrimSpace(topic))
	if detail = strings.TrimSpace(detail); detail != "" {
		msg += "\n" + detail
	}
	return s.client.PostMessage(ctx, msg)
}

func (s *slackService) NotifyApprovalRequested(ctx context.Context, runID int64, topic, platform, caption, videoURL string) error {
	if !s.toggles.Approvals {
		return nil
	}
	return s.client.PostApprovalRequest(ctx, runID, topic, platform, caption, videoURL)
}

func (s *slackService) NotifyApprovalResolved(ctx context.Context, runID int64, topic string, approved bool, note string) error {
	if !s.toggles.Approvals {
		return nil
	}
	verdict := ":+1: approved"
	if !approved {
		verdict = ":-1: rejected"
	}
	msg := fmt.Sprintf("Run #%d %s: %s", runID, verdict, strings.TrimSpace(topic))
	if note = strings.TrimSpace(note); note != "" {
		msg += fmt.Sprintf(" (%s)", note)
	}
	return s.client.PostMessage(ctx, msg)
}

func (s *slackService) NotifyPublished(ctx context.Context, runID int64, topic, platform, publishID string) error {
	if !s.toggles.Publish {
		return nil
	}
	msg := fmt.Sprintf(":rocket: Run #%d published to %s: %s", runID, strings.TrimSpace(platform), strings.TrimSpace(topic))
	if publishID = strings.TrimSpace(publishID); publishID != "" {
		msg += fmt.Sprintf("\nID: %s", publishID)
	}
	return s.client.PostMessage(ctx, msg)
}

func (s *slackService) TestNotification(ctx context.Context) error {
	return s.client.PostMessage(ctx, ":bell: socialfactory test notification")
}

type noopService struct{}

func (noopService) NotifyRunQueued(context.Context, int64, string, string) error { return nil }

func (noopService) NotifyRunCompleted(context.Context, int64, string, bool) error { return nil }

func (noopService) NotifyRunFailed(context.Context, int64, string, string) error { return nil }

func (noopService) NotifyApprovalRequested(context.Context, int64, string, string, string, string) error {
	return nil
}

func (noopService) NotifyApprovalResolved(context.Context, int64, string, bool, string) error {
	return nil
}

func (noopService) NotifyPublished(context.Context, int64, string, string, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
