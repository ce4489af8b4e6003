package commands

import (
	"context"
	"fmt"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
)

// ErrProjectNameIsTaken is reported both by the pre-check and by a repository
// that loses a race on the same name.
var ErrProjectNameIsTaken = project.ErrNameIsTaken

// CreateProjectCommandHandler persists new projects.
type CreateProjectCommandHandler struct {
	uowFactory ProjectUoWFactory
	clock      kernel.Clock
}

func NewCreateProjectCommandHandler(uowFactory ProjectUoWFactory, clock kernel.Clock) CreateProjectCommandHandler {
	return CreateProjectCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle rejects duplicate names with ErrProjectNameIsTaken.
func (h CreateProjectCommandHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*project.Project, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := project.NewProject(cmd.ProjectID(), cmd.Name(), cmd.Description(), cmd.DefaultSteps(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ProjectRepository()
	taken, err := repo.ExistsName(ctx, p.Name())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrProjectNameIsTaken, p.Name())
	}

	if err = repo.Add(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
