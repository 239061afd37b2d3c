package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
)

func (m *Manager) executeStage(ctx context.Context, workerLogger *slog.Logger, stg pipelineStage, item *queue.Item) error {
	stageCtx := services.WithRunID(ctx, item.ID)
	stageCtx = services.WithStep(stageCtx, stg.name)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())
	stageLogger := logging.WithContext(stageCtx, workerLogger)

	stageStart := time.Now()
	stageLogger.Info("step started",
		logging.String(logging.FieldEventType, "step_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String(logging.FieldTopic, item.Topic),
		logging.String(logging.FieldPlatform, item.Platform),
	)

	if err := stg.handler.Prepare(stageCtx, item); err != nil {
		m.handleStageFailure(stageCtx, stg.name, item, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(stageCtx, item); err != nil {
		wrapped := fmt.Errorf("persist step preparation: %w", err)
		stageLogger.Error("failed to persist step preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(stageCtx, stg, item)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("step interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(stageCtx, stg.name, item, execErr)
		m.setLastError(execErr)
		return execErr
	}

	// Handlers may override the status to skip ahead or finish the run;
	// otherwise the configured done status applies.
	if item.Status == stg.processingStatus || item.Status == "" {
		item.Status = stg.doneStatus
	}
	item.LastHeartbeat = nil
	if err := m.store.Update(stageCtx, item); err != nil {
		wrapped := fmt.Errorf("persist step result: %w", err)
		stageLogger.Error("failed to persist step result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	stageLogger.Info("step completed",
		logging.String(logging.FieldEventType, "step_complete"),
		logging.String("next_status", string(item.Status)),
		logging.Duration("step_duration", time.Since(stageStart)),
	)
	m.setLastItem(item)
	m.notifyRunFinished(stageCtx, item)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, stg pipelineStage, item *queue.Item) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, item.ID)

	execErr := stg.handler.Execute(ctx, item)
	hbCancel()
	hbWG.Wait()
	return execErr
}

// notifyRunFinished emits the terminal notification when a run has reached a
// final state.
func (m *Manager) notifyRunFinished(ctx context.Context, item *queue.Item) {
	var err error
	switch item.Status {
	case queue.StatusCompleted:
		err = m.notifier.NotifyRunCompleted(ctx, item.ID, item.Topic, false)
	case queue.StatusCompletedWithErrors:
		err = m.notifier.NotifyRunCompleted(ctx, item.ID, item.Topic, true)
	default:
		return
	}
	if err != nil {
		m.logger.Warn("run completion notification failed", logging.Error(err))
	}
}
