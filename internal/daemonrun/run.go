// Package daemonrun wires the daemon process: logger, run store, workflow
// manager, IPC server, and signal handling.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"socialfactory/internal/approval"
	"socialfactory/internal/captioning"
	"socialfactory/internal/config"
	"socialfactory/internal/daemon"
	"socialfactory/internal/ipc"
	"socialfactory/internal/logging"
	"socialfactory/internal/notifications"
	"socialfactory/internal/publishing"
	"socialfactory/internal/queue"
	"socialfactory/internal/rendering"
	"socialfactory/internal/scripting"
	"socialfactory/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the socialfactory daemon runtime loop and blocks until the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "socialfactory.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logIntegrationSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.LogDir, "socialfactory.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open run store", logging.Error(err))
		return err
	}
	defer store.Close()

	notifier := notifications.NewService(cfg)
	manager := workflow.NewManagerWithNotifier(cfg, store, logger, notifier)
	registerStages(manager, cfg, store, logger, notifier)

	d, err := daemon.New(cfg, store, logger, manager, notifier)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := filepath.Join(cfg.Paths.LogDir, "socialfactory.sock")
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and run database access"))
	}

	<-signalCtx.Done()
	logger.Info("socialfactory daemon shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) {
	if mgr == nil || cfg == nil {
		return
	}

	mgr.ConfigureStages(workflow.StageSet{
		ScriptGenerator:  scripting.New(cfg, logger),
		CaptionGenerator: captioning.New(cfg, logger),
		VideoGenerator:   rendering.New(cfg, store, logger),
		ApprovalGate:     approval.New(cfg, logger, notifier),
		Publisher:        publishing.New(cfg, logger, notifier),
	})
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// logIntegrationSnapshot records which external integrations are usable at
// startup so misconfiguration is visible before the first run fails.
func logIntegrationSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("integration snapshot",
		logging.String(logging.FieldEventType, "integration_snapshot"),
		logging.Bool("llm_key_present", strings.TrimSpace(cfg.LLM.APIKey) != ""),
		logging.String("llm_model", cfg.LLM.Model),
		logging.Bool("video_backend_configured", cfg.VideoConfigured()),
		logging.Bool("slack_configured", cfg.SlackConfigured()),
		logging.Bool("wordpress_configured", cfg.WordPressConfigured()),
		logging.Bool("linkedin_configured", cfg.LinkedInConfigured()),
	)
}
