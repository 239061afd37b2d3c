package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RunItem describes a content run in a transport-friendly format.
type RunItem struct {
	ID                  int64              `json:"id"`
	RunKey              string             `json:"runKey"`
	Topic               string             `json:"topic"`
	Platform            string             `json:"platform"`
	Tone                string             `json:"tone,omitempty"`
	RequireApproval     bool               `json:"requireApproval"`
	GenerateVideo       bool               `json:"generateVideo"`
	Status              string             `json:"status"`
	Steps               map[string]RunStep `json:"steps"`
	Results             RunResults         `json:"results"`
	Progress            RunProgress        `json:"progress"`
	ErrorMessage        string             `json:"errorMessage,omitempty"`
	ReviewNote          string             `json:"reviewNote,omitempty"`
	ApprovalRequestedAt string             `json:"approvalRequestedAt,omitempty"`
	CreatedAt           string             `json:"createdAt,omitempty"`
	UpdatedAt           string             `json:"updatedAt,omitempty"`
}

// RunStep captures one pipeline step's recorded outcome.
type RunStep struct {
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"startedAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// RunResults carries the artifacts a run produced.
type RunResults struct {
	Script         string   `json:"script,omitempty"`
	ScriptVariants []string `json:"scriptVariants,omitempty"`
	Caption        string   `json:"caption,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	PublishID      string   `json:"publishId,omitempty"`
}

// RunProgress captures step progress information for a run.
type RunProgress struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// StageHealth mirrors readiness reporting for workflow steps.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *RunItem       `json:"lastItem,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// RunListResponse wraps a collection of runs for API responses.
type RunListResponse struct {
	Items []RunItem `json:"items"`
}

// RunItemResponse wraps a single run.
type RunItemResponse struct {
	Item RunItem `json:"item"`
}
