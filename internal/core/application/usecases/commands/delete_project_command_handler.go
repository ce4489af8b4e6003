package commands

import (
	"context"

	"shopfloor/internal/core/ports"
)

// DeleteProjectCommandHandler deletes a project together with its work
// orders, their instances and tokens, in one transaction.
type DeleteProjectCommandHandler struct {
	uowFactory UoWFactory
}

func NewDeleteProjectCommandHandler(uowFactory UoWFactory) DeleteProjectCommandHandler {
	return DeleteProjectCommandHandler{uowFactory: uowFactory}
}

// Handle returns the number of work orders removed with the project.
func (h DeleteProjectCommandHandler) Handle(ctx context.Context, cmd DeleteProjectCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	projects := uow.ProjectRepository()
	if _, err := projects.Get(ctx, cmd.ProjectID()); err != nil {
		return 0, err
	}

	projectID := cmd.ProjectID()
	owned, err := uow.WorkOrderRepository().List(ctx, ports.WorkOrderFilter{ProjectID: &projectID})
	if err != nil {
		return 0, err
	}
	for _, wo := range owned {
		if err = deleteWorkOrder(ctx, uow, wo.ID()); err != nil {
			return 0, err
		}
	}

	if err = projects.Delete(ctx, projectID); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(owned), nil
}
