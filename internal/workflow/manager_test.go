package workflow_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"socialfactory/internal/config"
	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
	"socialfactory/internal/stage"
	"socialfactory/internal/testsupport"
	"socialfactory/internal/workflow"
)

type stubStage struct {
	name        string
	step        queue.StepName
	executeHook func(*queue.Item) error
	health      stage.Health
}

func newStubStage(name string, step queue.StepName) *stubStage {
	return &stubStage{name: name, step: step, health: stage.Healthy(name)}
}

func (s *stubStage) Prepare(_ context.Context, item *queue.Item) error {
	return item.MarkStep(s.step, queue.StepRunning, "")
}

func (s *stubStage) Execute(_ context.Context, item *queue.Item) error {
	if s.executeHook != nil {
		return s.executeHook(item)
	}
	return item.MarkStep(s.step, queue.StepCompleted, "")
}

func (s *stubStage) HealthCheck(context.Context) stage.Health {
	return s.health
}

type recordingNotifier struct {
	mu        sync.Mutex
	completed []int64
	failed    []string
	resolved  []string
}

func (n *recordingNotifier) NotifyRunQueued(context.Context, int64, string, string) error { return nil }

func (n *recordingNotifier) NotifyRunCompleted(_ context.Context, runID int64, _ string, _ bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, runID)
	return nil
}

func (n *recordingNotifier) NotifyRunFailed(_ context.Context, _ int64, _ string, detail string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, detail)
	return nil
}

func (n *recordingNotifier) NotifyApprovalRequested(context.Context, int64, string, string, string, string) error {
	return nil
}

func (n *recordingNotifier) NotifyApprovalResolved(_ context.Context, _ int64, _ string, approved bool, note string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	n.resolved = append(n.resolved, verdict+": "+note)
	return nil
}

func (n *recordingNotifier) NotifyPublished(context.Context, int64, string, string, string) error {
	return nil
}

func (n *recordingNotifier) TestNotification(context.Context) error { return nil }

func (n *recordingNotifier) failures() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failed...)
}

func (n *recordingNotifier) resolutions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.resolved...)
}

func defaultStages() workflow.StageSet {
	return workflow.StageSet{
		ScriptGenerator:  newStubStage("script", queue.StepScript),
		CaptionGenerator: newStubStage("caption", queue.StepCaption),
		VideoGenerator:   newStubStage("video", queue.StepVideo),
		ApprovalGate:     approvalStub(),
		Publisher:        publisherStub(),
	}
}

// approvalStub mirrors the real gate: skip ahead when no review is required,
// otherwise leave the status alone so the manager parks the run.
func approvalStub() *stubStage {
	stub := newStubStage("approval", queue.StepApproval)
	stub.executeHook = func(item *queue.Item) error {
		if !item.RequireApproval {
			if err := item.MarkStep(queue.StepApproval, queue.StepSkipped, ""); err != nil {
				return err
			}
			item.Status = queue.StatusApproved
			return nil
		}
		now := time.Now().UTC()
		item.ApprovalRequestedAt = &now
		return nil
	}
	return stub
}

// publisherStub mirrors the real publisher's terminal status selection.
func publisherStub() *stubStage {
	stub := newStubStage("publish", queue.StepPublish)
	stub.executeHook = func(item *queue.Item) error {
		if err := item.MarkStep(queue.StepPublish, queue.StepCompleted, ""); err != nil {
			return err
		}
		failed, err := item.AnyStepFailed()
		if err != nil {
			return err
		}
		if failed {
			item.Status = queue.StatusCompletedWithErrors
		} else {
			item.Status = queue.StatusCompleted
		}
		return nil
	}
	return stub
}

func startManager(t *testing.T, cfg *config.Config, store *queue.Store, notifier *recordingNotifier, set workflow.StageSet) *workflow.Manager {
	t.Helper()
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)
	mgr.ConfigureStages(set)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(mgr.Stop)
	return mgr
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Item {
	t.Helper()
	deadline := time.After(30 * time.Second)
	for {
		select {
		case <-deadline:
			item, _ := store.GetByID(context.Background(), id)
			if item != nil {
				t.Fatalf("timed out waiting for %s, run is %s", want, item.Status)
			}
			t.Fatalf("timed out waiting for %s", want)
		default:
		}
		item, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if item != nil && item.Status == want {
			return item
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManagerProcessesRunToCompletion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	startManager(t, cfg, store, notifier, defaultStages())

	item := testsupport.NewRun(t, store, "Go releases", "linkedin")
	done := waitForStatus(t, store, item.ID, queue.StatusCompleted)

	steps, err := done.Steps()
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	for _, name := range []queue.StepName{queue.StepScript, queue.StepCaption, queue.StepVideo, queue.StepPublish} {
		if steps[name].Status != queue.StepCompleted {
			t.Fatalf("expected %s completed, got %s", name, steps[name].Status)
		}
	}
	if steps[queue.StepApproval].Status != queue.StepSkipped {
		t.Fatalf("expected approval skipped, got %s", steps[queue.StepApproval].Status)
	}
}

func TestManagerParksRunUntilApproved(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	startManager(t, cfg, store, notifier, defaultStages())

	item, err := store.NewRun(context.Background(), queue.RunRequest{
		Topic:           "Go releases",
		Platform:        "linkedin",
		RequireApproval: true,
	})
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}

	parked := waitForStatus(t, store, item.ID, queue.StatusAwaitingApproval)
	if parked.ApprovalRequestedAt == nil {
		t.Fatal("expected approval request time on parked run")
	}

	// The run must stay parked until resolved.
	time.Sleep(100 * time.Millisecond)
	still, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if still.Status != queue.StatusAwaitingApproval {
		t.Fatalf("parked run moved to %s without resolution", still.Status)
	}

	resolved, err := store.ResolveApproval(context.Background(), item.ID, true, "looks good")
	if err != nil {
		t.Fatalf("ResolveApproval: %v", err)
	}
	if !resolved {
		t.Fatal("expected approval to resolve")
	}

	waitForStatus(t, store, item.ID, queue.StatusCompleted)
}

func TestManagerFailsRunOnHardStepError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}

	set := defaultStages()
	script := newStubStage("script", queue.StepScript)
	script.executeHook = func(item *queue.Item) error {
		if err := item.MarkStep(queue.StepScript, queue.StepFailed, "model unreachable"); err != nil {
			return err
		}
		return services.Wrap(services.ErrExternalService, string(queue.StepScript), "generate", "model unreachable", nil)
	}
	set.ScriptGenerator = script
	startManager(t, cfg, store, notifier, set)

	item := testsupport.NewRun(t, store, "Go releases", "linkedin")
	failed := waitForStatus(t, store, item.ID, queue.StatusFailed)

	if !strings.Contains(failed.ErrorMessage, "model unreachable") {
		t.Fatalf("unexpected error message %q", failed.ErrorMessage)
	}
	steps, err := failed.Steps()
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	for _, name := range []queue.StepName{queue.StepCaption, queue.StepVideo, queue.StepApproval, queue.StepPublish} {
		if steps[name].Status != queue.StepSkipped {
			t.Fatalf("expected %s skipped after hard failure, got %s", name, steps[name].Status)
		}
	}
	failures := notifier.failures()
	if len(failures) != 1 || !strings.Contains(failures[0], "model unreachable") {
		t.Fatalf("expected one failure notification, got %v", failures)
	}
}

func TestManagerFinishesWithErrorsOnSoftFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}

	set := defaultStages()
	caption := newStubStage("caption", queue.StepCaption)
	caption.executeHook = func(item *queue.Item) error {
		return item.MarkStep(queue.StepCaption, queue.StepFailed, "caption backend down")
	}
	set.CaptionGenerator = caption
	startManager(t, cfg, store, notifier, set)

	item := testsupport.NewRun(t, store, "Go releases", "linkedin")
	done := waitForStatus(t, store, item.ID, queue.StatusCompletedWithErrors)

	steps, err := done.Steps()
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if steps[queue.StepCaption].Status != queue.StepFailed {
		t.Fatalf("expected failed caption step, got %s", steps[queue.StepCaption].Status)
	}
	if steps[queue.StepPublish].Status != queue.StepCompleted {
		t.Fatalf("publish should still run, got %s", steps[queue.StepPublish].Status)
	}
}

func TestManagerRejectsExpiredApprovals(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.ApprovalTimeoutSeconds = 1
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	startManager(t, cfg, store, notifier, defaultStages())

	item, err := store.NewRun(context.Background(), queue.RunRequest{
		Topic:           "Go releases",
		Platform:        "linkedin",
		RequireApproval: true,
	})
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}

	rejected := waitForStatus(t, store, item.ID, queue.StatusRejected)
	if rejected.ReviewNote != queue.ApprovalTimeoutReason {
		t.Fatalf("unexpected review note %q", rejected.ReviewNote)
	}
	resolutions := notifier.resolutions()
	if len(resolutions) == 0 || !strings.Contains(resolutions[0], "rejected") {
		t.Fatalf("expected rejection notification, got %v", resolutions)
	}
}
