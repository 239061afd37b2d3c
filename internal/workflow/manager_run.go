package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
)

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.claimOrder) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(m.workerCount + 1)
	m.mu.Unlock()

	for i := 0; i < m.workerCount; i++ {
		go m.runWorker(runCtx, i)
	}
	go m.runJanitor(runCtx)

	return nil
}

// Stop terminates background processing and waits for completion. Runs that
// were mid-step are failed with their completed step results intact; crashed
// daemons are covered separately by the heartbeat reclaim.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.failInterruptedRuns()
}

func (m *Manager) failInterruptedRuns() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := logging.NewComponentLogger(m.logger, "workflow")
	for _, status := range queue.AllStatuses() {
		if !queue.IsProcessingStatus(status) {
			continue
		}
		items, err := m.store.ItemsByStatus(ctx, status)
		if err != nil {
			logger.Warn("failed to load in-flight runs during shutdown", logging.Error(err))
			return
		}
		for _, item := range items {
			item.SetFailed(queue.DaemonStopReason)
			if err := item.SkipRemainingSteps(); err != nil {
				logger.Warn("failed to close step ledger during shutdown",
					logging.Int64(logging.FieldRunID, item.ID),
					logging.Error(err))
			}
			if err := m.store.Update(ctx, item); err != nil {
				logger.Warn("failed to persist shutdown state",
					logging.Int64(logging.FieldRunID, item.ID),
					logging.Error(err))
				continue
			}
			logger.Info("in-flight run failed by daemon shutdown",
				logging.Int64(logging.FieldRunID, item.ID),
				logging.String(logging.FieldEventType, "run_interrupted"))
		}
	}
}

func (m *Manager) runWorker(ctx context.Context, index int) {
	defer m.wg.Done()
	logger := logging.NewComponentLogger(m.logger, fmt.Sprintf("worker-%d", index))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, stg, err := m.claimNext(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			logger.Error("failed to claim next run",
				logging.Error(err),
				logging.String(logging.FieldEventType, "claim_failed"),
				logging.String(logging.FieldErrorHint, "check run database access"),
			)
			m.sleep(ctx, m.errorRetryInterval)
			continue
		}
		if item == nil {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		if err := m.executeStage(ctx, logger, stg, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

// claimNext finds the oldest claimable run and atomically moves it into the
// matching processing status. A nil item means either an empty queue or a
// lost race with another worker; both resolve on the next poll.
func (m *Manager) claimNext(ctx context.Context) (*queue.Item, pipelineStage, error) {
	var none pipelineStage
	item, err := m.store.NextForStatuses(ctx, m.claimOrder...)
	if err != nil || item == nil {
		return nil, none, err
	}
	stg, ok := m.stageByStart[item.Status]
	if !ok {
		return nil, none, nil
	}
	claimed, err := m.store.Claim(ctx, item.ID, stg.startStatus, stg.processingStatus)
	if err != nil || !claimed {
		return nil, none, err
	}
	item.Status = stg.processingStatus
	item.ErrorMessage = ""
	return item, stg, nil
}

// runJanitor periodically reclaims runs abandoned by dead workers and rejects
// approval requests whose window has elapsed.
func (m *Manager) runJanitor(ctx context.Context) {
	defer m.wg.Done()
	logger := logging.NewComponentLogger(m.logger, "janitor")

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := m.heartbeat.ReclaimStaleRuns(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("reclaim stale runs failed, stuck runs may remain",
				logging.Error(err),
				logging.String(logging.FieldEventType, "heartbeat_reclaim_failed"),
				logging.String(logging.FieldErrorHint, "check run database access"),
			)
		}
		m.expireApprovals(ctx, logger)
	}
}

func (m *Manager) expireApprovals(ctx context.Context, logger *slog.Logger) {
	if m.approvalTimeout <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-m.approvalTimeout)
	expired, err := m.store.ExpireApprovals(ctx, cutoff)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("approval expiry sweep failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "approval_expiry_failed"),
			)
		}
		return
	}
	for _, item := range expired {
		logger.Info("approval request timed out, run rejected",
			logging.Int64(logging.FieldRunID, item.ID),
			logging.String(logging.FieldTopic, item.Topic),
			logging.String(logging.FieldEventType, "approval_expired"),
		)
		m.setLastItem(item)
		if err := m.notifier.NotifyApprovalResolved(ctx, item.ID, item.Topic, false, queue.ApprovalTimeoutReason); err != nil {
			logger.Warn("approval expiry notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
