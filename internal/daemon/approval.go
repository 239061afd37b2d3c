package daemon

import (
	"context"
	"errors"

	"socialfactory/internal/logging"
	"socialfactory/internal/services"
)

// Approve releases a run that is awaiting approval into the publish step.
func (d *Daemon) Approve(ctx context.Context, id int64, note string) error {
	return d.resolveApproval(ctx, id, true, note)
}

// Reject terminates a run that is awaiting approval and skips its remaining
// steps.
func (d *Daemon) Reject(ctx context.Context, id int64, note string) error {
	return d.resolveApproval(ctx, id, false, note)
}

func (d *Daemon) resolveApproval(ctx context.Context, id int64, approved bool, note string) error {
	if d.store == nil {
		return errors.New("run store unavailable")
	}

	resolved, err := d.store.ResolveApproval(ctx, id, approved, note)
	if err != nil {
		return err
	}
	if !resolved {
		item, lookupErr := d.store.GetByID(ctx, id)
		if lookupErr != nil {
			return lookupErr
		}
		if item == nil {
			return services.Wrap(services.ErrNotFound, "approval", "resolve", "run not found", nil)
		}
		return services.Wrap(services.ErrValidation, "approval", "resolve",
			"run is not awaiting approval (status "+string(item.Status)+")", nil)
	}

	item, err := d.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	d.logger.Info("approval resolved",
		logging.Int64(logging.FieldRunID, id),
		logging.String("verdict", verdict),
		logging.String(logging.FieldEventType, "approval_resolved"),
	)
	if item != nil {
		if err := d.notifier.NotifyApprovalResolved(ctx, id, item.Topic, approved, note); err != nil {
			d.logger.Warn("approval notification failed", logging.Error(err))
		}
	}
	return nil
}
