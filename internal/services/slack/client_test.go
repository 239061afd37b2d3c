package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostMessage(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL, Channel: "#content-review"})
	if err := client.PostMessage(context.Background(), "run completed"); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if received.Text != "run completed" || received.Channel != "#content-review" {
		t.Fatalf("unexpected payload: %+v", received)
	}
}

func TestPostMessageSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	err := client.PostMessage(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestPostMessageRequiresWebhook(t *testing.T) {
	client := NewClient(Config{})
	if err := client.PostMessage(context.Background(), "hello"); err == nil {
		t.Fatal("expected error without webhook url")
	}
}

func TestPostApprovalRequestIncludesCommands(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	err := client.PostApprovalRequest(context.Background(), 42, "Go releases", "linkedin", "New Go is out", "https://cdn.example.com/v.mp4")
	if err != nil {
		t.Fatalf("PostApprovalRequest: %v", err)
	}
	for _, fragment := range []string{"Run #42", "Go releases", "socialfactory approve 42", "socialfactory reject 42"} {
		if !strings.Contains(received.Text, fragment) {
			t.Fatalf("expected %q in message %q", fragment, received.Text)
		}
	}
}
