// Package scripting implements the script generation step. Every later step
// depends on its output, so a failure here fails the whole run.
package scripting

import (
	"context"
	"log/slog"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
	"socialfactory/internal/services/llm"
	"socialfactory/internal/stage"
)

// Generator produces script variants for a run.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
	client *llm.Client
}

// New constructs the script generation handler using default dependencies.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	return NewWithClient(cfg, logger, llm.NewClient(llm.Config(cfg.LLM)))
}

// NewWithClient allows injecting the model client (used in tests).
func NewWithClient(cfg *config.Config, logger *slog.Logger, client *llm.Client) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "scripting"),
		client: client,
	}
}

func (g *Generator) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Generating script", "Requesting script variants")
	item.ErrorMessage = ""
	return item.MarkStep(queue.StepScript, queue.StepRunning, "")
}

func (g *Generator) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)

	if !g.client.Configured() {
		markErr := item.MarkStep(queue.StepScript, queue.StepFailed, "llm api key not configured")
		if markErr != nil {
			return markErr
		}
		return services.WithHint(
			services.Wrap(services.ErrConfiguration, string(queue.StepScript), "prepare client", "llm api key not configured", nil),
			"set llm.api_key in the config",
		)
	}

	// Trend insights only enrich the script prompt. When the analysis call
	// fails the run continues with an empty report.
	item.SetProgress("Generating script", "Analyzing topic trends")
	trends, err := g.client.AnalyzeTrends(ctx, item.Topic, item.Platform)
	if err != nil {
		logger.Warn("trend analysis failed, generating script without insights",
			logging.Error(err),
			logging.String(logging.FieldTopic, item.Topic),
		)
		trends = llm.TrendReport{}
	}

	item.SetProgress("Generating script", "Requesting script variants")
	scripts, err := g.client.GenerateScripts(ctx, llm.ScriptRequest{
		Topic:                 item.Topic,
		Platform:              item.Platform,
		Tone:                  item.Tone,
		Variants:              g.cfg.Content.ScriptVariants,
		TargetDurationSeconds: g.cfg.Content.TargetDurationSeconds,
		Trends:                trends,
	})
	if err != nil {
		if markErr := item.MarkStep(queue.StepScript, queue.StepFailed, err.Error()); markErr != nil {
			return markErr
		}
		return services.Wrap(services.ErrExternalService, string(queue.StepScript), "generate", "script generation failed", err)
	}

	// The first variant is the canonical script the rest of the pipeline
	// consumes; the full set is kept for review.
	if err := item.UpdateResults(func(r *queue.Results) {
		r.ScriptVariants = scripts
		r.Script = scripts[0]
	}); err != nil {
		return err
	}
	if err := item.MarkStep(queue.StepScript, queue.StepCompleted, ""); err != nil {
		return err
	}
	item.SetProgress("Script ready", "Script variants generated")

	logger.Info("script generation complete",
		logging.Int("variants", len(scripts)),
		logging.String(logging.FieldTopic, item.Topic),
	)
	return nil
}

func (g *Generator) HealthCheck(ctx context.Context) stage.Health {
	if !g.client.Configured() {
		return stage.Unhealthy("scripting", "llm.api_key not set")
	}
	return stage.Healthy("scripting")
}
