package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StepName identifies one step of the fixed content pipeline.
type StepName string

const (
	StepScript   StepName = "script_generation"
	StepCaption  StepName = "caption_generation"
	StepVideo    StepName = "video_generation"
	StepApproval StepName = "approval_gate"
	StepPublish  StepName = "publish"
)

// StepOrder returns the fixed execution order of pipeline steps.
func StepOrder() []StepName {
	return []StepName{StepScript, StepCaption, StepVideo, StepApproval, StepPublish}
}

// ParseStepName converts a string into a known StepName.
func ParseStepName(value string) (StepName, bool) {
	normalized := StepName(strings.ToLower(strings.TrimSpace(value)))
	for _, name := range StepOrder() {
		if name == normalized {
			return name, true
		}
	}
	return "", false
}

// StepStatus represents the state of a single pipeline step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepState captures the outcome of one step for a run.
type StepState struct {
	Status      StepStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Steps maps each pipeline step to its recorded state.
type Steps map[StepName]StepState

// NewSteps returns the initial step ledger with every step pending.
func NewSteps() Steps {
	steps := make(Steps, len(StepOrder()))
	for _, name := range StepOrder() {
		steps[name] = StepState{Status: StepPending}
	}
	return steps
}

// Results holds the artifacts accumulated by a run. Keys match the wire
// format used by the IPC and notification surfaces.
type Results struct {
	Script         string   `json:"script,omitempty"`
	ScriptVariants []string `json:"scriptVariants,omitempty"`
	Caption        string   `json:"caption,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	PublishID      string   `json:"publishId,omitempty"`
}

// Steps decodes the run's step ledger. An empty column yields a fresh
// all-pending ledger so callers never observe missing steps.
func (i *Item) Steps() (Steps, error) {
	if strings.TrimSpace(i.StepsJSON) == "" || i.StepsJSON == "{}" {
		return NewSteps(), nil
	}
	var steps Steps
	if err := json.Unmarshal([]byte(i.StepsJSON), &steps); err != nil {
		return nil, fmt.Errorf("decode steps for run %d: %w", i.ID, err)
	}
	for _, name := range StepOrder() {
		if _, ok := steps[name]; !ok {
			steps[name] = StepState{Status: StepPending}
		}
	}
	return steps, nil
}

// SetSteps encodes and stores the step ledger on the run.
func (i *Item) SetSteps(steps Steps) error {
	data, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode steps for run %d: %w", i.ID, err)
	}
	i.StepsJSON = string(data)
	return nil
}

// MarkStep updates a single step's state, stamping start and completion
// times from the transition.
func (i *Item) MarkStep(name StepName, status StepStatus, errMsg string) error {
	steps, err := i.Steps()
	if err != nil {
		return err
	}
	state := steps[name]
	now := time.Now().UTC()
	switch status {
	case StepRunning:
		state.StartedAt = &now
	case StepCompleted, StepFailed, StepSkipped:
		state.CompletedAt = &now
	}
	state.Status = status
	state.Error = errMsg
	steps[name] = state
	return i.SetSteps(steps)
}

// StepState returns the recorded state for one step.
func (i *Item) StepState(name StepName) (StepState, error) {
	steps, err := i.Steps()
	if err != nil {
		return StepState{}, err
	}
	return steps[name], nil
}

// AnyStepFailed reports whether any step recorded a failure.
func (i *Item) AnyStepFailed() (bool, error) {
	steps, err := i.Steps()
	if err != nil {
		return false, err
	}
	for _, state := range steps {
		if state.Status == StepFailed {
			return true, nil
		}
	}
	return false, nil
}

// SkipRemainingSteps marks every pending or running step as skipped. Used
// when a run hard-fails or is rejected so the ledger stays conclusive.
func (i *Item) SkipRemainingSteps() error {
	steps, err := i.Steps()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for name, state := range steps {
		if state.Status == StepPending || state.Status == StepRunning {
			state.Status = StepSkipped
			state.CompletedAt = &now
			steps[name] = state
		}
	}
	return i.SetSteps(steps)
}

// Results decodes the run's results bag.
func (i *Item) Results() (Results, error) {
	if strings.TrimSpace(i.ResultsJSON) == "" {
		return Results{}, nil
	}
	var results Results
	if err := json.Unmarshal([]byte(i.ResultsJSON), &results); err != nil {
		return Results{}, fmt.Errorf("decode results for run %d: %w", i.ID, err)
	}
	return results, nil
}

// SetResults encodes and stores the results bag on the run.
func (i *Item) SetResults(results Results) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results for run %d: %w", i.ID, err)
	}
	i.ResultsJSON = string(data)
	return nil
}

// UpdateResults applies a mutation to the decoded results bag and stores it.
func (i *Item) UpdateResults(mutate func(*Results)) error {
	results, err := i.Results()
	if err != nil {
		return err
	}
	mutate(&results)
	return i.SetResults(results)
}
