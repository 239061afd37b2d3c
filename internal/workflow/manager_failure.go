package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
)

// handleStageFailure fails the run. Only hard step errors reach this path;
// optional steps record their own failures on the ledger and return nil.
func (m *Manager) handleStageFailure(ctx context.Context, stepName string, item *queue.Item, stageErr error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(m.logger, "workflow-manager"))

	message := m.classifyStageFailure(stepName, stageErr)
	item.SetFailed(message)
	if err := item.SkipRemainingSteps(); err != nil {
		logger.Error("failed to settle step ledger after failure", logging.Error(err))
	}

	details := services.Details(stageErr)
	attrs := []logging.Attr{
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Alert("step_failure"),
		logging.String("error_kind", string(details.Kind)),
		logging.String(logging.FieldErrorHint, details.Hint),
		logging.String(logging.FieldEventType, "step_failure"),
	}
	if details.Cause != nil {
		attrs = append(attrs, logging.Error(details.Cause))
	} else {
		attrs = append(attrs, logging.Error(stageErr))
	}
	logger.Error("step failed", logging.Args(attrs...)...)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist run failure")
		} else {
			logger.Error("failed to persist run failure", logging.Error(err))
		}
	}

	m.setLastItem(item)
	if err := m.notifier.NotifyRunFailed(ctx, item.ID, item.Topic, message); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}

func (m *Manager) classifyStageFailure(stepName string, stageErr error) string {
	if stageErr == nil {
		return fmt.Sprintf("%s failed without error detail", stepName)
	}
	details := services.Details(stageErr)
	message := strings.TrimSpace(details.Message)
	if message == "" {
		message = strings.TrimSpace(stageErr.Error())
	}
	if message == "" {
		message = fmt.Sprintf("%s failed", stepName)
	}
	return message
}
