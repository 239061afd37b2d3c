// Package stage defines the contract between the workflow manager and the
// pipeline step implementations.
package stage

import (
	"context"

	"socialfactory/internal/queue"
)

// Handler describes the contract the workflow manager needs from each step.
//
// Prepare runs before the step's status transition is visible and should be
// cheap; Execute performs the work and mutates the run in place. A handler
// that soft-fails records the failure on the run's step ledger and returns
// nil so the pipeline continues.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}
