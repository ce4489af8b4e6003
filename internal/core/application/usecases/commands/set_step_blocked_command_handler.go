package commands

import (
	"context"

	"shopfloor/internal/core/domain/model/workorder"
)

// SetStepBlockedCommandHandler blocks or unblocks one step of a work order.
// A blocked step refuses scans until it is released.
type SetStepBlockedCommandHandler struct {
	uowFactory ScanUoWFactory
}

func NewSetStepBlockedCommandHandler(uowFactory ScanUoWFactory) SetStepBlockedCommandHandler {
	return SetStepBlockedCommandHandler{uowFactory: uowFactory}
}

// Handle returns the updated work order.
func (h SetStepBlockedCommandHandler) Handle(ctx context.Context, cmd SetStepBlockedCommand) (*workorder.WorkOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WorkOrderRepository()
	wo, err := repo.GetForUpdate(ctx, cmd.WorkOrderID())
	if err != nil {
		return nil, err
	}

	if cmd.Blocked() {
		err = wo.Block(cmd.StepIndex())
	} else {
		err = wo.Unblock(cmd.StepIndex())
	}
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, wo); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return wo, nil
}
