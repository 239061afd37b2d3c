package scripting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialfactory/internal/logging"
	"socialfactory/internal/queue"
	"socialfactory/internal/services"
	"socialfactory/internal/services/llm"
	"socialfactory/internal/testsupport"
)

func completionBody(content string) string {
	quoted, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(quoted) + `}}]}`
}

func generatorForServer(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithLLM(server.URL, "test"))
	client := llm.NewClient(
		llm.Config(cfg.LLM),
		llm.WithRetryMaxAttempts(1),
	)
	return NewWithClient(cfg, logging.NewNop(), client)
}

func TestExecuteStoresCanonicalScript(t *testing.T) {
	gen := generatorForServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"variants":["First script.","Second script."]}`)))
	})
	item := &queue.Item{ID: 1, Topic: "Go releases", Platform: "linkedin", Status: queue.StatusScripting}

	if err := gen.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := gen.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	results, err := item.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results.Script != "First script." {
		t.Fatalf("expected first variant as canonical script, got %q", results.Script)
	}
	if len(results.ScriptVariants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(results.ScriptVariants))
	}
	state, err := item.StepState(queue.StepScript)
	if err != nil {
		t.Fatalf("StepState: %v", err)
	}
	if state.Status != queue.StepCompleted {
		t.Fatalf("expected completed step, got %s", state.Status)
	}
}

func TestExecuteContinuesWhenTrendAnalysisFails(t *testing.T) {
	gen := generatorForServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "trend analyst") {
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody(`{"variants":["First script."]}`)))
	})
	item := &queue.Item{ID: 4, Topic: "Go releases", Platform: "linkedin", Status: queue.StatusScripting}

	if err := gen.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute should survive a trend failure: %v", err)
	}
	results, err := item.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results.Script != "First script." {
		t.Fatalf("expected script despite trend failure, got %q", results.Script)
	}
	state, err := item.StepState(queue.StepScript)
	if err != nil {
		t.Fatalf("StepState: %v", err)
	}
	if state.Status != queue.StepCompleted {
		t.Fatalf("expected completed step, got %s", state.Status)
	}
}

func TestExecuteFailsRunOnBackendError(t *testing.T) {
	gen := generatorForServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	item := &queue.Item{ID: 2, Topic: "Go releases", Status: queue.StatusScripting}

	err := gen.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	state, stateErr := item.StepState(queue.StepScript)
	if stateErr != nil {
		t.Fatalf("StepState: %v", stateErr)
	}
	if state.Status != queue.StepFailed {
		t.Fatalf("expected failed step, got %s", state.Status)
	}
}

func TestExecuteFailsRunWhenUnconfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.APIKey = ""
	gen := NewWithClient(cfg, logging.NewNop(), llm.NewClient(llm.Config(cfg.LLM)))
	item := &queue.Item{ID: 3, Topic: "Go releases", Status: queue.StatusScripting}

	err := gen.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if hint := services.Details(err).Hint; hint == "" {
		t.Fatal("expected a remediation hint")
	}
}
