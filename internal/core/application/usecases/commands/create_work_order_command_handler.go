package commands

import (
	"context"
	"fmt"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
)

// ErrWorkOrderNumberIsTaken is reported both by the pre-check and by a
// repository that loses a race on the same number.
var ErrWorkOrderNumberIsTaken = workorder.ErrNumberIsTaken

// CreateWorkOrderCommandHandler creates a work order, all of its process
// instances and their scan tokens in one transaction.
//
// Example:
//
//	handler := NewCreateWorkOrderCommandHandler(uowFactory, kernel.SystemClock{})
//	wo, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("work order creation failed: %w", err)
//	}
//	// wo.Instances() now carry printable start and end tokens
type CreateWorkOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

func NewCreateWorkOrderCommandHandler(uowFactory UoWFactory, clock kernel.Clock) CreateWorkOrderCommandHandler {
	return CreateWorkOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the created work order. The owning project must exist; its
// template is read only when the command asks for it.
func (h CreateWorkOrderCommandHandler) Handle(ctx context.Context, cmd CreateWorkOrderCommand) (*workorder.WorkOrder, error) {
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

	p, err := uow.ProjectRepository().Get(ctx, cmd.ProjectID())
	if err != nil {
		return nil, err
	}

	steps := cmd.Steps()
	if cmd.UseProjectSteps() {
		if steps, err = p.StepsForWorkOrder(); err != nil {
			return nil, err
		}
	}

	repo := uow.WorkOrderRepository()
	taken, err := repo.ExistsNumber(ctx, cmd.Number())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrWorkOrderNumberIsTaken, cmd.Number())
	}

	registry := uow.TokenRegistry()
	wo, err := workorder.NewWorkOrder(
		cmd.WorkOrderID(),
		cmd.Number(),
		p.ID(),
		steps,
		h.clock.Now(),
		func(b scantoken.Binding) (scantoken.Token, error) {
			return registry.Register(ctx, b)
		},
	)
	if err != nil {
		return nil, err
	}

	if err = repo.Add(ctx, wo); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return wo, nil
}
