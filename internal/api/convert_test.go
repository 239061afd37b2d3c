package api

import (
	"testing"
	"time"

	"socialfactory/internal/queue"
)

func TestFromRunItemCarriesLedgerAndResults(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	item := &queue.Item{
		ID:              4,
		RunKey:          "run-key",
		Topic:           "Go releases",
		Platform:        "linkedin",
		RequireApproval: true,
		Status:          queue.StatusAwaitingApproval,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := item.MarkStep(queue.StepScript, queue.StepCompleted, ""); err != nil {
		t.Fatalf("MarkStep: %v", err)
	}
	if err := item.MarkStep(queue.StepVideo, queue.StepFailed, "render failed"); err != nil {
		t.Fatalf("MarkStep: %v", err)
	}
	if err := item.SetResults(queue.Results{Script: "script", Caption: "caption", Hashtags: []string{"#go"}}); err != nil {
		t.Fatalf("SetResults: %v", err)
	}

	dto := FromRunItem(item)
	if dto.Status != "awaiting_approval" {
		t.Fatalf("unexpected status %q", dto.Status)
	}
	if len(dto.Steps) != 5 {
		t.Fatalf("expected all 5 steps, got %d", len(dto.Steps))
	}
	if dto.Steps["video_generation"].Error != "render failed" {
		t.Fatalf("expected step error, got %q", dto.Steps["video_generation"].Error)
	}
	if dto.Steps["publish"].Status != "pending" {
		t.Fatalf("expected pending publish, got %q", dto.Steps["publish"].Status)
	}
	if dto.Results.Caption != "caption" || len(dto.Results.Hashtags) != 1 {
		t.Fatalf("results not carried: %+v", dto.Results)
	}
	if dto.CreatedAt == "" {
		t.Fatal("expected formatted created timestamp")
	}
}

func TestFromRunItemToleratesCorruptLedger(t *testing.T) {
	item := &queue.Item{ID: 5, Topic: "Go releases", Status: queue.StatusFailed, StepsJSON: "{not json"}
	dto := FromRunItem(item)
	if dto.ID != 5 || dto.Status != "failed" {
		t.Fatalf("base fields lost: %+v", dto)
	}
	if len(dto.Steps) != 0 {
		t.Fatalf("expected no steps for corrupt ledger, got %v", dto.Steps)
	}
}

func TestLabels(t *testing.T) {
	if got := PlatformLabel("linkedin"); got != "LinkedIn" {
		t.Fatalf("PlatformLabel = %q", got)
	}
	if got := PlatformLabel("mastodon"); got != "Mastodon" {
		t.Fatalf("PlatformLabel = %q", got)
	}
	if got := StatusLabel("completed_with_errors"); got != "Completed With Errors" {
		t.Fatalf("StatusLabel = %q", got)
	}
	if got := StepLabel("script_generation"); got != "Script Generation" {
		t.Fatalf("StepLabel = %q", got)
	}
}
