// Package rendering implements the video generation step. Runs that did not
// ask for video, or daemons without a configured backend, skip the step; a
// backend failure is recorded on the ledger and the run continues.
package rendering

import (
	"context"
	"log/slog"
	"strings"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services/video"
	"socialfactory/internal/stage"
)

// promptLimit bounds how much of the script is sent as the render prompt.
const promptLimit = 200

// Renderer drives the text-to-video backend for a run.
type Renderer struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	client *video.Client
}

// New constructs the video generation handler using default dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Renderer {
	return NewWithClient(cfg, store, logger, video.NewClient(video.Config(cfg.Video)))
}

// NewWithClient allows injecting the backend client (used in tests).
func NewWithClient(cfg *config.Config, store *queue.Store, logger *slog.Logger, client *video.Client) *Renderer {
	return &Renderer{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "rendering"),
		client: client,
	}
}

func (r *Renderer) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Generating video", "Submitting render job")
	return item.MarkStep(queue.StepVideo, queue.StepRunning, "")
}

func (r *Renderer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, r.logger)

	if !item.GenerateVideo {
		if err := item.MarkStep(queue.StepVideo, queue.StepSkipped, ""); err != nil {
			return err
		}
		item.SetProgress("Video skipped", "Run did not request video")
		logger.Info("video generation skipped", logging.String("reason", "not requested"))
		return nil
	}
	if !r.client.Configured() {
		if err := item.MarkStep(queue.StepVideo, queue.StepSkipped, "video backend not configured"); err != nil {
			return err
		}
		item.SetProgress("Video skipped", "No video backend configured")
		logger.Info("video generation skipped", logging.String("reason", "backend not configured"))
		return nil
	}

	results, err := item.Results()
	if err != nil {
		return err
	}
	script := strings.TrimSpace(results.Script)
	if script == "" {
		return r.softFail(item, logger, "no script available for video generation")
	}

	// Rendering can run for minutes, so persist progress before the poll
	// loop starts.
	item.SetProgress("Generating video", "Waiting for render job")
	if err := r.store.Update(ctx, item); err != nil {
		return err
	}

	videoURL, err := r.client.Generate(ctx, renderPrompt(script))
	if err != nil {
		return r.softFail(item, logger, err.Error())
	}

	if err := item.UpdateResults(func(res *queue.Results) {
		res.VideoURL = videoURL
	}); err != nil {
		return err
	}
	if err := item.MarkStep(queue.StepVideo, queue.StepCompleted, ""); err != nil {
		return err
	}
	item.SetProgress("Video ready", "Render job completed")

	logger.Info("video generation complete", logging.String("video_url", videoURL))
	return nil
}

// softFail records the failure on the ledger and lets the run continue.
func (r *Renderer) softFail(item *queue.Item, logger *slog.Logger, reason string) error {
	if err := item.MarkStep(queue.StepVideo, queue.StepFailed, reason); err != nil {
		return err
	}
	item.SetProgress("Video failed", reason)
	logger.Warn("video generation failed, continuing run",
		logging.String(logging.FieldEventType, "video_failed"),
		logging.String("reason", reason),
	)
	return nil
}

// renderPrompt trims the script to the opening passage the backend can use as
// a scene description.
func renderPrompt(script string) string {
	runes := []rune(script)
	if len(runes) <= promptLimit {
		return script
	}
	return strings.TrimSpace(string(runes[:promptLimit]))
}

func (r *Renderer) HealthCheck(ctx context.Context) stage.Health {
	if !r.client.Configured() {
		return stage.Unhealthy("rendering", "video.base_url not set")
	}
	return stage.Healthy("rendering")
}
