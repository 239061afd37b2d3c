package main

import (
	"strings"
	"testing"

	"socialfactory/internal/api"
	"socialfactory/internal/ipc"
)

func TestBuildRunListRows(t *testing.T) {
	items := []ipc.RunItem{
		{
			ID:        3,
			Topic:     "Go release highlights",
			Platform:  "linkedin",
			Status:    "completed_with_errors",
			CreatedAt: "2026-02-01T10:00:00.000Z",
		},
	}

	rows := buildRunListRows(items)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row[0] != "3" {
		t.Errorf("unexpected id column %q", row[0])
	}
	if row[2] != "LinkedIn" {
		t.Errorf("unexpected platform label %q", row[2])
	}
	if row[3] != "Completed With Errors" {
		t.Errorf("unexpected status label %q", row[3])
	}
}

func TestBuildQueueStatusRowsOrdersByLifecycle(t *testing.T) {
	rows := buildQueueStatusRows(map[string]int{
		"completed":         2,
		"pending":           1,
		"awaiting_approval": 3,
	})
	if len(rows) != 3 {
		t.Fatalf("expected three rows, got %d", len(rows))
	}
	if rows[0][0] != "Pending" {
		t.Errorf("expected pending first, got %q", rows[0][0])
	}
	if rows[1][0] != "Awaiting Approval" {
		t.Errorf("expected awaiting approval second, got %q", rows[1][0])
	}
	if rows[2][0] != "Completed" {
		t.Errorf("expected completed last, got %q", rows[2][0])
	}
}

func TestBuildStepRowsFollowsPipelineOrder(t *testing.T) {
	item := ipc.RunItem{Steps: map[string]api.RunStep{
		"publish":           {Status: "pending"},
		"script_generation": {Status: "completed"},
		"video_generation":  {Status: "failed", Error: "backend down"},
	}}

	rows := buildStepRows(item)
	if len(rows) != 3 {
		t.Fatalf("expected three rows, got %d", len(rows))
	}
	if rows[0][0] != "Script Generation" {
		t.Errorf("expected script first, got %q", rows[0][0])
	}
	if rows[1][2] != "backend down" {
		t.Errorf("expected video error carried, got %q", rows[1][2])
	}
	if rows[2][0] != "Publish" {
		t.Errorf("expected publish last, got %q", rows[2][0])
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 48); got != "short" {
		t.Errorf("unexpected truncation %q", got)
	}
	long := strings.Repeat("a", 60)
	got := truncateText(long, 48)
	if len(got) != 48 || !strings.HasSuffix(got, "...") {
		t.Errorf("unexpected truncated value %q", got)
	}
}

func TestParseRunIDs(t *testing.T) {
	ids, err := parseRunIDs([]string{"1", "42"})
	if err != nil {
		t.Fatalf("parseRunIDs: %v", err)
	}
	if len(ids) != 2 || ids[1] != 42 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := parseRunIDs([]string{"abc"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
