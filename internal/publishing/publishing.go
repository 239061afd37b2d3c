// Package publishing implements the publish step. LinkedIn runs post through
// the UGC API, WordPress runs publish directly, and every other platform falls
// back to a WordPress draft so the content is never lost. Publish failures are
// recorded on the ledger and the run still finishes.
package publishing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/notifications"
	"socialfactory/internal/queue"
	"socialfactory/internal/services/linkedin"
	"socialfactory/internal/services/wordpress"
	"socialfactory/internal/stage"
)

// Publisher routes finished runs to their destination platform.
type Publisher struct {
	cfg       *config.Config
	logger    *slog.Logger
	linkedIn  *linkedin.Client
	wordPress *wordpress.Client
	notifier  notifications.Service
}

// New constructs the publish handler using default dependencies.
func New(cfg *config.Config, logger *slog.Logger, notifier notifications.Service) *Publisher {
	return NewWithClients(cfg, logger,
		linkedin.NewClient(linkedin.Config(cfg.LinkedIn)),
		wordpress.NewClient(wordpress.Config(cfg.WordPress)),
		notifier,
	)
}

// NewWithClients allows injecting the platform clients (used in tests).
func NewWithClients(cfg *config.Config, logger *slog.Logger, li *linkedin.Client, wp *wordpress.Client, notifier notifications.Service) *Publisher {
	return &Publisher{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "publishing"),
		linkedIn:  li,
		wordPress: wp,
		notifier:  notifier,
	}
}

func (p *Publisher) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Publishing", "Sending content to "+item.Platform)
	return item.MarkStep(queue.StepPublish, queue.StepRunning, "")
}

func (p *Publisher) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, p.logger)

	results, err := item.Results()
	if err != nil {
		return err
	}

	publishID, pubErr := p.publish(ctx, item, results)
	if pubErr != nil {
		if err := item.MarkStep(queue.StepPublish, queue.StepFailed, pubErr.Error()); err != nil {
			return err
		}
		item.SetProgress("Publish failed", pubErr.Error())
		logger.Warn("publish failed, finishing run",
			logging.String(logging.FieldEventType, "publish_failed"),
			logging.String(logging.FieldPlatform, item.Platform),
			logging.String("reason", pubErr.Error()),
		)
	} else {
		if err := item.UpdateResults(func(r *queue.Results) {
			r.PublishID = publishID
		}); err != nil {
			return err
		}
		if err := item.MarkStep(queue.StepPublish, queue.StepCompleted, ""); err != nil {
			return err
		}
		item.SetProgress("Published", "Content delivered to "+item.Platform)
		logger.Info("publish complete",
			logging.String(logging.FieldPlatform, item.Platform),
			logging.String("publish_id", publishID),
		)
		if err := p.notifier.NotifyPublished(ctx, item.ID, item.Topic, item.Platform, publishID); err != nil {
			logger.Warn("publish notification failed", logging.Error(err))
		}
	}

	// The run is finished either way; step errors decide which terminal
	// state it lands in.
	failed, err := item.AnyStepFailed()
	if err != nil {
		return err
	}
	if failed {
		item.Status = queue.StatusCompletedWithErrors
	} else {
		item.Status = queue.StatusCompleted
	}
	return nil
}

// publish sends the run's content to its platform and returns the remote
// identifier.
func (p *Publisher) publish(ctx context.Context, item *queue.Item, results queue.Results) (string, error) {
	switch strings.ToLower(strings.TrimSpace(item.Platform)) {
	case "linkedin":
		if !p.linkedIn.Configured() {
			return "", fmt.Errorf("linkedin credentials not configured")
		}
		text := shareText(results)
		if text == "" {
			return "", fmt.Errorf("no caption or script to publish")
		}
		return p.linkedIn.CreatePost(ctx, text)
	case "wordpress":
		return p.publishWordPress(ctx, item, results, wordpress.StatusPublish)
	default:
		// No native integration, park the content as a WordPress draft.
		return p.publishWordPress(ctx, item, results, wordpress.StatusDraft)
	}
}

func (p *Publisher) publishWordPress(ctx context.Context, item *queue.Item, results queue.Results, status wordpress.PostStatus) (string, error) {
	if !p.wordPress.Configured() {
		return "", fmt.Errorf("wordpress credentials not configured")
	}
	content := strings.TrimSpace(results.Script)
	if content == "" {
		content = shareText(results)
	}
	if content == "" {
		return "", fmt.Errorf("no content to publish")
	}
	post, err := p.wordPress.CreatePost(ctx, wordpress.PostRequest{
		Title:   item.Topic,
		Content: content,
		Status:  status,
	})
	if err != nil {
		return "", err
	}
	if link := strings.TrimSpace(post.Link); link != "" {
		return link, nil
	}
	return strconv.FormatInt(post.ID, 10), nil
}

// shareText builds the social post body from the caption and hashtags, falling
// back to the script when no caption was produced.
func shareText(results queue.Results) string {
	text := strings.TrimSpace(results.Caption)
	if text == "" {
		text = strings.TrimSpace(results.Script)
	}
	if text == "" {
		return ""
	}
	if len(results.Hashtags) > 0 {
		text += "\n\n" + strings.Join(results.Hashtags, " ")
	}
	return text
}

func (p *Publisher) HealthCheck(ctx context.Context) stage.Health {
	if !p.linkedIn.Configured() && !p.wordPress.Configured() {
		return stage.Unhealthy("publishing", "no publish target configured")
	}
	return stage.Healthy("publishing")
}
