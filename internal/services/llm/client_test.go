package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "test-model"},
		WithRetryBackoff(time.Millisecond, 2*time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"content":` + jsonQuote(content) + `}}]}`
}

func jsonQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}

func TestGenerateScripts(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test" {
			t.Errorf("missing auth header")
		}
		w.Write([]byte(completionBody(`{"variants":["First script.","  Second script.  ",""]}`)))
	})

	scripts, err := client.GenerateScripts(context.Background(), ScriptRequest{
		Topic:    "Go generics",
		Platform: "linkedin",
		Variants: 3,
	})
	if err != nil {
		t.Fatalf("GenerateScripts: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 usable variants, got %d", len(scripts))
	}
	if scripts[0] != "First script." || scripts[1] != "Second script." {
		t.Fatalf("unexpected scripts: %v", scripts)
	}
}

func TestGenerateScriptsRejectsEmptyResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"variants":[]}`)))
	})

	if _, err := client.GenerateScripts(context.Background(), ScriptRequest{Topic: "x"}); err == nil {
		t.Fatal("expected error for empty variants")
	}
}

func TestAnalyzeTrends(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"themes":["release cadence","  tooling  ",""],"angle":" Ship faster. "}`)))
	})

	report, err := client.AnalyzeTrends(context.Background(), "Go releases", "linkedin")
	if err != nil {
		t.Fatalf("AnalyzeTrends: %v", err)
	}
	if len(report.Themes) != 2 || report.Themes[1] != "tooling" {
		t.Fatalf("unexpected themes: %v", report.Themes)
	}
	if report.Angle != "Ship faster." {
		t.Fatalf("unexpected angle: %q", report.Angle)
	}
}

func TestGenerateScriptsFoldsTrendInsightsIntoPrompt(t *testing.T) {
	var requests []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, string(body))
		w.Write([]byte(completionBody(`{"variants":["ok"]}`)))
	})

	_, err := client.GenerateScripts(context.Background(), ScriptRequest{
		Topic:  "Go releases",
		Trends: TrendReport{Themes: []string{"release cadence"}, Angle: "Ship faster."},
	})
	if err != nil {
		t.Fatalf("GenerateScripts: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if !strings.Contains(requests[0], "release cadence") || !strings.Contains(requests[0], "Ship faster.") {
		t.Fatalf("trend insights missing from prompt: %s", requests[0])
	}
}

func TestGenerateCaptionNormalizesHashtags(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"caption":"Ship it.","hashtags":["golang","#devops",""]}`)))
	})

	result, err := client.GenerateCaption(context.Background(), "A script.", "linkedin", "")
	if err != nil {
		t.Fatalf("GenerateCaption: %v", err)
	}
	if result.Caption != "Ship it." {
		t.Fatalf("unexpected caption: %q", result.Caption)
	}
	if len(result.Hashtags) != 2 || result.Hashtags[0] != "#golang" || result.Hashtags[1] != "#devops" {
		t.Fatalf("unexpected hashtags: %v", result.Hashtags)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int64
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody(`{"variants":["ok"]}`)))
	})

	scripts, err := client.GenerateScripts(context.Background(), ScriptRequest{Topic: "retry"})
	if err != nil {
		t.Fatalf("GenerateScripts: %v", err)
	}
	if len(scripts) != 1 {
		t.Fatalf("unexpected scripts: %v", scripts)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int64
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	if _, err := client.GenerateScripts(context.Background(), ScriptRequest{Topic: "fail"}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestDecodeLLMJSONHandlesCodeFences(t *testing.T) {
	var target struct {
		Caption string `json:"caption"`
	}
	payload := "```json\n{\"caption\":\"hello\"}\n```"
	if err := DecodeLLMJSON(payload, &target); err != nil {
		t.Fatalf("DecodeLLMJSON: %v", err)
	}
	if target.Caption != "hello" {
		t.Fatalf("unexpected caption: %q", target.Caption)
	}
}

func TestHealthCheck(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"ok":true}`)))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
