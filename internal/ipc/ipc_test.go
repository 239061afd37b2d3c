package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"socialfactory/internal/config"
	"socialfactory/internal/daemon"
	"socialfactory/internal/ipc"
	"socialfactory/internal/logging"
	"socialfactory/internal/notifications"
	"socialfactory/internal/queue"
	"socialfactory/internal/testsupport"
	"socialfactory/internal/workflow"
)

func newClient(t *testing.T) (*ipc.Client, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := notifications.NewService(&config.Config{})
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)
	d, err := daemon.New(cfg, store, logging.NewNop(), mgr, notifier)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	socketPath := filepath.Join(t.TempDir(), "socialfactory.sock")
	server, err := ipc.NewServer(ctx, socketPath, d, logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(socketPath)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, store
}

func TestSubmitListDescribe(t *testing.T) {
	client, _ := newClient(t)

	submitted, err := client.Submit(ipc.SubmitRequest{
		Topic:         "Go releases",
		Platform:      "LinkedIn",
		GenerateVideo: true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Item.ID == 0 {
		t.Fatal("expected run id")
	}
	if submitted.Item.Platform != "linkedin" {
		t.Fatalf("platform not normalized: %q", submitted.Item.Platform)
	}
	if submitted.Item.Steps["script_generation"].Status != "pending" {
		t.Fatalf("expected pending ledger, got %+v", submitted.Item.Steps)
	}

	list, err := client.RunList([]string{"pending"})
	if err != nil {
		t.Fatalf("RunList: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected one pending run, got %d", len(list.Items))
	}

	described, err := client.RunDescribe(submitted.Item.ID)
	if err != nil {
		t.Fatalf("RunDescribe: %v", err)
	}
	if described.Item.Topic != "Go releases" {
		t.Fatalf("unexpected topic %q", described.Item.Topic)
	}

	if _, err := client.RunDescribe(999); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestSubmitSurfacesValidationErrors(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.Submit(ipc.SubmitRequest{Platform: "linkedin"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "topic is required") {
		t.Fatalf("expected topic message, got %v", err)
	}
}

func TestApproveAndRejectOverIPC(t *testing.T) {
	client, store := newClient(t)
	ctx := context.Background()

	first := testsupport.NewRun(t, store, "Go releases", "linkedin")
	first.Status = queue.StatusAwaitingApproval
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	second := testsupport.NewRun(t, store, "Rust releases", "linkedin")
	second.Status = queue.StatusAwaitingApproval
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}

	approved, err := client.Approve(first.ID, "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !approved.Resolved {
		t.Fatal("expected resolution")
	}
	if _, err := client.Reject(second.ID, "off brand"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	one, err := client.RunDescribe(first.ID)
	if err != nil {
		t.Fatalf("RunDescribe: %v", err)
	}
	if one.Item.Status != "approved" {
		t.Fatalf("expected approved, got %s", one.Item.Status)
	}
	two, err := client.RunDescribe(second.ID)
	if err != nil {
		t.Fatalf("RunDescribe: %v", err)
	}
	if two.Item.Status != "rejected" {
		t.Fatalf("expected rejected, got %s", two.Item.Status)
	}
	if two.Item.ReviewNote != "off brand" {
		t.Fatalf("unexpected review note %q", two.Item.ReviewNote)
	}
}

func TestHealthAndMaintenanceVerbs(t *testing.T) {
	client, store := newClient(t)
	ctx := context.Background()

	run := testsupport.NewRun(t, store, "Go releases", "linkedin")
	run.SetFailed("boom")
	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("Update: %v", err)
	}

	health, err := client.QueueHealth()
	if err != nil {
		t.Fatalf("QueueHealth: %v", err)
	}
	if health.Total != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health %+v", health)
	}

	db, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth: %v", err)
	}
	if !db.TableExists || !db.IntegrityCheck {
		t.Fatalf("unexpected database health %+v", db)
	}

	retried, err := client.RunRetry(nil)
	if err != nil {
		t.Fatalf("RunRetry: %v", err)
	}
	if retried.Updated != 1 {
		t.Fatalf("expected one retried run, got %d", retried.Updated)
	}

	cleared, err := client.RunClear()
	if err != nil {
		t.Fatalf("RunClear: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected one removed run, got %d", cleared.Removed)
	}
}

func TestStatusReportsPaths(t *testing.T) {
	client, _ := newClient(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon was never started")
	}
	if status.RunDBPath == "" || status.LockPath == "" {
		t.Fatalf("expected populated paths: %+v", status)
	}
	if status.PID == 0 {
		t.Fatal("expected pid")
	}
}
