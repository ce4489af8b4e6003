package commands

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

var ErrDeleteProjectCommandIsNotConstructed = errors.New(
	"DeleteProjectCommand must be created via NewDeleteProjectCommand constructor",
)

// DeleteProjectCommand removes a project and every work order it owns.
type DeleteProjectCommand struct {
	projectID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteProjectCommand(projectID kernel.UUID) (DeleteProjectCommand, error) {
	if err := projectID.Validate(); err != nil {
		return DeleteProjectCommand{}, err
	}
	return DeleteProjectCommand{
		projectID: projectID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteProjectCommand) Validate() error {
	return c.guard.Validate(ErrDeleteProjectCommandIsNotConstructed)
}

func (c DeleteProjectCommand) ProjectID() kernel.UUID {
	return c.projectID
}
