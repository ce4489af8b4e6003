package commands

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
)

// DeleteWorkOrderCommandHandler cascades a work order deletion to its process
// instances and revokes its scan tokens, so stale sheets resolve to nothing.
type DeleteWorkOrderCommandHandler struct {
	uowFactory ScanUoWFactory
}

func NewDeleteWorkOrderCommandHandler(uowFactory ScanUoWFactory) DeleteWorkOrderCommandHandler {
	return DeleteWorkOrderCommandHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound for unknown work orders.
func (h DeleteWorkOrderCommandHandler) Handle(ctx context.Context, cmd DeleteWorkOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := deleteWorkOrder(ctx, uow, cmd.WorkOrderID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type workOrderDeleter interface {
	WorkOrderRepoFactory
	TokenRegistryFactory
}

func deleteWorkOrder(ctx context.Context, uow workOrderDeleter, id kernel.UUID) error {
	repo := uow.WorkOrderRepository()
	if _, err := repo.GetForUpdate(ctx, id); err != nil {
		return err
	}
	if err := uow.TokenRegistry().Revoke(ctx, id); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
