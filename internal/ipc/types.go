package ipc

import "socialfactory/internal/api"

// RunItem mirrors the API run DTO for IPC callers.
type RunItem = api.RunItem

// StageHealth describes readiness of a pipeline step.
type StageHealth = api.StageHealth

// SubmitRequest enqueues a new content run.
type SubmitRequest struct {
	Topic           string `json:"topic"`
	Platform        string `json:"platform"`
	Tone            string `json:"tone"`
	RequireApproval bool   `json:"requireApproval"`
	GenerateVideo   bool   `json:"generateVideo"`
}

// SubmitResponse returns the created run.
type SubmitResponse struct {
	Item RunItem `json:"item"`
}

// StopRequest stops daemon processing.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queue_stats"`
	LastError   string         `json:"last_error"`
	LastItem    *RunItem       `json:"last_item"`
	LockPath    string         `json:"lock_path"`
	RunDBPath   string         `json:"run_db_path"`
	StageHealth []StageHealth  `json:"stage_health"`
	PID         int            `json:"pid"`
}

// RunListRequest filters run listing by status.
type RunListRequest struct {
	Statuses []string `json:"statuses"`
}

// RunListResponse contains run entries.
type RunListResponse struct {
	Items []RunItem `json:"items"`
}

// RunDescribeRequest fetches a single run by id.
type RunDescribeRequest struct {
	ID int64 `json:"id"`
}

// RunDescribeResponse contains a single run.
type RunDescribeResponse struct {
	Item RunItem `json:"item"`
}

// ApproveRequest resolves an awaiting run.
type ApproveRequest struct {
	ID       int64  `json:"id"`
	Approved bool   `json:"approved"`
	Note     string `json:"note"`
}

// ApproveResponse reports the resolution outcome.
type ApproveResponse struct {
	Resolved bool `json:"resolved"`
}

// RunRetryRequest retries failed or rejected runs. Empty list means all.
type RunRetryRequest struct {
	IDs []int64 `json:"ids"`
}

// RunRetryResponse reports number of retried runs.
type RunRetryResponse struct {
	Updated int64 `json:"updated"`
}

// RunRemoveRequest removes specific runs by id.
type RunRemoveRequest struct {
	IDs []int64 `json:"ids"`
}

// RunRemoveResponse reports number of removed runs.
type RunRemoveResponse struct {
	Removed int64 `json:"removed"`
}

// RunClearRequest removes all runs.
type RunClearRequest struct{}

// RunClearResponse reports number of removed runs.
type RunClearResponse struct {
	Removed int64 `json:"removed"`
}

// RunClearCompletedRequest removes finished runs.
type RunClearCompletedRequest struct{}

// RunClearCompletedResponse reports number of removed runs.
type RunClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// RunClearFailedRequest removes failed and rejected runs.
type RunClearFailedRequest struct{}

// RunClearFailedResponse reports number of removed runs.
type RunClearFailedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueHealthRequest fetches aggregate diagnostics.
type QueueHealthRequest struct{}

// QueueHealthResponse reports run queue health information.
type QueueHealthResponse struct {
	Total            int `json:"total"`
	Pending          int `json:"pending"`
	Processing       int `json:"processing"`
	AwaitingApproval int `json:"awaiting_approval"`
	Failed           int `json:"failed"`
	Rejected         int `json:"rejected"`
	Completed        int `json:"completed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    string   `json:"schema_version"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalRuns        int      `json:"total_runs"`
	Error            string   `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
