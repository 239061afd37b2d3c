// Package captioning implements the caption generation step. The step is
// optional: a failure is recorded on the run's ledger and the pipeline
// continues without a caption.
package captioning

import (
	"context"
	"log/slog"
	"strings"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
	"socialfactory/internal/services/llm"
	"socialfactory/internal/stage"
)

// Generator produces the caption and hashtags for a run.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
	client *llm.Client
}

// New constructs the caption generation handler using default dependencies.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	return NewWithClient(cfg, logger, llm.NewClient(llm.Config(cfg.LLM)))
}

// NewWithClient allows injecting the model client (used in tests).
func NewWithClient(cfg *config.Config, logger *slog.Logger, client *llm.Client) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "captioning"),
		client: client,
	}
}

func (g *Generator) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Generating caption", "Requesting caption and hashtags")
	return item.MarkStep(queue.StepCaption, queue.StepRunning, "")
}

func (g *Generator) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)

	results, err := item.Results()
	if err != nil {
		return err
	}
	script := strings.TrimSpace(results.Script)
	if script == "" {
		return g.softFail(item, logger, "no script available for caption generation")
	}

	caption, err := g.client.GenerateCaption(ctx, script, item.Platform, item.Tone)
	if err != nil {
		details := services.Details(err)
		return g.softFail(item, logger, details.Message)
	}

	if err := item.UpdateResults(func(r *queue.Results) {
		r.Caption = caption.Caption
		r.Hashtags = caption.Hashtags
	}); err != nil {
		return err
	}
	if err := item.MarkStep(queue.StepCaption, queue.StepCompleted, ""); err != nil {
		return err
	}
	item.SetProgress("Caption ready", "Caption and hashtags generated")

	logger.Info("caption generation complete", logging.Int("hashtags", len(caption.Hashtags)))
	return nil
}

// softFail records the failure on the ledger and lets the run continue.
func (g *Generator) softFail(item *queue.Item, logger *slog.Logger, reason string) error {
	if err := item.MarkStep(queue.StepCaption, queue.StepFailed, reason); err != nil {
		return err
	}
	item.SetProgress("Caption skipped", reason)
	logger.Warn("caption generation failed, continuing run",
		logging.String(logging.FieldEventType, "caption_failed"),
		logging.String("reason", reason),
	)
	return nil
}

func (g *Generator) HealthCheck(ctx context.Context) stage.Health {
	if !g.client.Configured() {
		return stage.Unhealthy("captioning", "llm.api_key not set")
	}
	return stage.Healthy("captioning")
}
