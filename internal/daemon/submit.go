package daemon

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
)

// maxTopicLength bounds the topic so prompts stay within model limits.
const maxTopicLength = 500

// supportedPlatforms is the fixed set of submission targets. Platforms
// without a native publish integration still run the pipeline and land as a
// WordPress draft.
var supportedPlatforms = map[string]struct{}{
	"instagram": {},
	"tiktok":    {},
	"youtube":   {},
	"twitter":   {},
	"linkedin":  {},
	"wordpress": {},
}

// SubmitRun validates a run request and enqueues it. Nothing is persisted
// when validation fails.
func (d *Daemon) SubmitRun(ctx context.Context, req queue.RunRequest) (*queue.Item, error) {
	if d.store == nil {
		return nil, errors.New("run store unavailable")
	}

	req.Topic = strings.TrimSpace(req.Topic)
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	req.Tone = strings.TrimSpace(req.Tone)

	if req.Topic == "" {
		return nil, services.Wrap(services.ErrValidation, "submit", "validate", "topic is required", nil)
	}
	if utf8.RuneCountInString(req.Topic) > maxTopicLength {
		return nil, services.Wrap(services.ErrValidation, "submit", "validate", "topic exceeds 500 characters", nil)
	}
	if req.Platform == "" {
		return nil, services.Wrap(services.ErrValidation, "submit", "validate", "platform is required", nil)
	}
	if _, ok := supportedPlatforms[req.Platform]; !ok {
		return nil, services.WithHint(
			services.Wrap(services.ErrValidation, "submit", "validate", "unsupported platform "+strconv.Quote(req.Platform), nil),
			"supported platforms: instagram, tiktok, youtube, twitter, linkedin, wordpress")
	}

	item, err := d.store.NewRun(ctx, req)
	if err != nil {
		return nil, err
	}

	d.logger.Info("run queued",
		logging.Int64(logging.FieldRunID, item.ID),
		logging.String(logging.FieldTopic, item.Topic),
		logging.String(logging.FieldPlatform, item.Platform),
		logging.String(logging.FieldEventType, "run_queued"),
	)
	if err := d.notifier.NotifyRunQueued(ctx, item.ID, item.Topic, item.Platform); err != nil {
		d.logger.Warn("queue notification failed", logging.Error(err))
	}
	return item, nil
}
