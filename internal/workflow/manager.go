package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"socialfactory/internal/config"
	"socialfactory/internal/notifications"
	"socialfactory/internal/queue"
)

// Manager coordinates run processing using registered step handlers.
type Manager struct {
	cfg                *config.Config
	store              *queue.Store
	logger             *slog.Logger
	notifier           notifications.Service
	pollInterval       time.Duration
	errorRetryInterval time.Duration
	approvalTimeout    time.Duration
	workerCount        int

	heartbeat *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	claimOrder   []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager with the default notifier.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier
// (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	workerCount := cfg.Workflow.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}
	return &Manager{
		cfg:                cfg,
		store:              store,
		logger:             logger,
		notifier:           notifier,
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		approvalTimeout:    time.Duration(cfg.Workflow.ApprovalTimeoutSeconds) * time.Second,
		workerCount:        workerCount,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}
