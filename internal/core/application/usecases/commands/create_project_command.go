package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrCreateProjectCommandIsNotConstructed = errors.New(
	"CreateProjectCommand must be created via NewCreateProjectCommand constructor",
)

// CreateProjectCommand registers a project and its optional step template.
type CreateProjectCommand struct { //nolint:recvcheck //using for validation
	projectID    kernel.UUID
	name         string
	description  string
	defaultSteps []string

	guard guard.ConstructorGuard
}

func NewCreateProjectCommand(
	projectID kernel.UUID,
	name, description string,
	defaultSteps []string,
) (CreateProjectCommand, error) {
	cmd := CreateProjectCommand{
		description:  strings.TrimSpace(description),
		defaultSteps: append([]string(nil), defaultSteps...),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProjectID(projectID),
		cmd.setName(name),
	); err != nil {
		return CreateProjectCommand{}, err
	}

	return cmd, nil
}

func (c CreateProjectCommand) Validate() error {
	return c.guard.Validate(ErrCreateProjectCommandIsNotConstructed)
}

func (c CreateProjectCommand) ProjectID() kernel.UUID {
	return c.projectID
}

func (c CreateProjectCommand) Name() string {
	return c.name
}

func (c CreateProjectCommand) Description() string {
	return c.description
}

func (c CreateProjectCommand) DefaultSteps() []string {
	return append([]string(nil), c.defaultSteps...)
}

func (c *CreateProjectCommand) setProjectID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.projectID = id
	return nil
}

func (c *CreateProjectCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("project name")
	}
	c.name = name
	return nil
}
