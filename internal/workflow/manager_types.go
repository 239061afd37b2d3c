package workflow

import (
	"socialfactory/internal/queue"
	"socialfactory/internal/stage"
)

// StageSet bundles the concrete step handlers the manager orchestrates.
type StageSet struct {
	ScriptGenerator  stage.Handler
	CaptionGenerator stage.Handler
	VideoGenerator   stage.Handler
	ApprovalGate     stage.Handler
	Publisher        stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// ConfigureStages registers the concrete step handlers the workflow will run.
// Run order is fixed; a handler may override the done status to skip ahead
// (the approval gate does this for runs that need no review) or to pick the
// terminal state (the publisher does this based on the step ledger).
func (m *Manager) ConfigureStages(set StageSet) {
	stages := make([]pipelineStage, 0, 5)
	if set.ScriptGenerator != nil {
		stages = append(stages, pipelineStage{
			name:             string(queue.StepScript),
			handler:          set.ScriptGenerator,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusScripting,
			doneStatus:       queue.StatusScripted,
		})
	}
	if set.CaptionGenerator != nil {
		stages = append(stages, pipelineStage{
			name:             string(queue.StepCaption),
			handler:          set.CaptionGenerator,
			startStatus:      queue.StatusScripted,
			processingStatus: queue.StatusCaptioning,
			doneStatus:       queue.StatusCaptioned,
		})
	}
	if set.VideoGenerator != nil {
		stages = append(stages, pipelineStage{
			name:             string(queue.StepVideo),
			handler:          set.VideoGenerator,
			startStatus:      queue.StatusCaptioned,
			processingStatus: queue.StatusRendering,
			doneStatus:       queue.StatusRendered,
		})
	}
	if set.ApprovalGate != nil {
		stages = append(stages, pipelineStage{
			name:             string(queue.StepApproval),
			handler:          set.ApprovalGate,
			startStatus:      queue.StatusRendered,
			processingStatus: queue.StatusApproving,
			// Awaiting approval is not a claimable status, so parked runs
			// stay put until a reviewer resolves them.
			doneStatus: queue.StatusAwaitingApproval,
		})
	}
	if set.Publisher != nil {
		stages = append(stages, pipelineStage{
			name:             string(queue.StepPublish),
			handler:          set.Publisher,
			startStatus:      queue.StatusApproved,
			processingStatus: queue.StatusPublishing,
			doneStatus:       queue.StatusCompleted,
		})
	}

	byStart := make(map[queue.Status]pipelineStage, len(stages))
	order := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		byStart[stg.startStatus] = stg
		order = append(order, stg.startStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = byStart
	m.claimOrder = order
	m.mu.Unlock()
}
