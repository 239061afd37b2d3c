// Package approval implements the approval gate. Runs that require review are
// parked in an awaiting state that no worker claims; a reviewer resolves them
// through the CLI, and a sweep rejects requests that outlive the configured
// timeout. Runs that do not require review pass straight through.
package approval

import (
	"context"
	"log/slog"
	"time"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/notifications"
	"socialfactory/internal/queue"
	"socialfactory/internal/stage"
)

// Gate suspends runs that require human review.
type Gate struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service
}

// New constructs the approval gate handler.
func New(cfg *config.Config, logger *slog.Logger, notifier notifications.Service) *Gate {
	return &Gate{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "approval"),
		notifier: notifier,
	}
}

func (g *Gate) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Approval gate", "Checking review requirements")
	return item.MarkStep(queue.StepApproval, queue.StepRunning, "")
}

func (g *Gate) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)

	if !item.RequireApproval {
		if err := item.MarkStep(queue.StepApproval, queue.StepSkipped, ""); err != nil {
			return err
		}
		// Skip the awaiting state entirely.
		item.Status = queue.StatusApproved
		item.SetProgress("Approval skipped", "Run does not require review")
		logger.Info("approval not required, continuing to publish")
		return nil
	}

	results, err := item.Results()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	item.ApprovalRequestedAt = &now
	item.SetProgress("Awaiting approval", "Run is parked until a reviewer responds")

	if err := g.notifier.NotifyApprovalRequested(ctx, item.ID, item.Topic, item.Platform, results.Caption, results.VideoURL); err != nil {
		// A notification failure must not fail the gate; the CLI can still
		// resolve the run.
		logger.Warn("approval notification failed",
			logging.String(logging.FieldEventType, "approval_notify_failed"),
			logging.Error(err),
		)
	}

	logger.Info("run awaiting approval",
		logging.String(logging.FieldEventType, "approval_requested"),
		logging.Int64(logging.FieldRunID, item.ID),
	)
	return nil
}

func (g *Gate) HealthCheck(ctx context.Context) stage.Health {
	if !g.cfg.SlackConfigured() {
		return stage.Unhealthy("approval", "slack.webhook_url not set, approval requests will not be announced")
	}
	return stage.Healthy("approval")
}
