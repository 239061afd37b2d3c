package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a content run.
type Status string

const (
	StatusPending             Status = "pending"
	StatusScripting           Status = "scripting"
	StatusScripted            Status = "scripted"
	StatusCaptioning          Status = "captioning"
	StatusCaptioned           Status = "captioned"
	StatusRendering           Status = "rendering"
	StatusRendered            Status = "rendered"
	StatusApproving           Status = "approving"
	StatusAwaitingApproval    Status = "awaiting_approval"
	StatusApproved            Status = "approved"
	StatusPublishing          Status = "publishing"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
	StatusRejected            Status = "rejected"
)

// DaemonStopReason is the error message set when runs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

// ApprovalTimeoutReason is the review note set when an approval window elapses.
const ApprovalTimeoutReason = "Approval timed out"

var allStatuses = []Status{
	StatusPending,
	StatusScripting,
	StatusScripted,
	StatusCaptioning,
	StatusCaptioned,
	StatusRendering,
	StatusRendered,
	StatusApproving,
	StatusAwaitingApproval,
	StatusApproved,
	StatusPublishing,
	StatusCompleted,
	StatusCompletedWithErrors,
	StatusFailed,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusScripting:  {},
	StatusCaptioning: {},
	StatusRendering:  {},
	StatusApproving:  {},
	StatusPublishing: {},
}

var terminalStatuses = map[Status]struct{}{
	StatusCompleted:           {},
	StatusCompletedWithErrors: {},
	StatusFailed:              {},
	StatusRejected:            {},
}

// DatabaseHealth captures diagnostic information about the run database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalRuns        int
	Error            string
}

// HealthSummary describes aggregated run counts per key lifecycle states.
type HealthSummary struct {
	Total            int
	Pending          int
	Processing       int
	AwaitingApproval int
	Failed           int
	Rejected         int
	Completed        int
}

// Item represents a content run persisted in SQLite.
type Item struct {
	ID                  int64
	RunKey              string
	Topic               string
	Platform            string
	Tone                string
	RequireApproval     bool
	GenerateVideo       bool
	Status              Status
	StepsJSON           string
	ResultsJSON         string
	ErrorMessage        string
	ProgressStep        string
	ProgressMessage     string
	ReviewNote          string
	ApprovalRequestedAt *time.Time
	LastHeartbeat       *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight step.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight step.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminalStatus reports whether a status ends a run's lifecycle.
func IsTerminalStatus(status Status) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// IsTerminal reports whether the run has reached a final state.
func (i Item) IsTerminal() bool {
	return IsTerminalStatus(i.Status)
}

// SetProgress updates both progress fields together.
func (i *Item) SetProgress(step, message string) {
	i.ProgressStep = step
	i.ProgressMessage = message
}

// SetFailed marks the run as failed with the given error message and clears
// the heartbeat.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressStep = "Failed"
	i.ProgressMessage = message
	i.LastHeartbeat = nil
}
