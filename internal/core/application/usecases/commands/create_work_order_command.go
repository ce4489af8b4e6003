package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var (
	ErrCreateWorkOrderCommandIsNotConstructed = errors.New(
		"CreateWorkOrderCommand must be created via NewCreateWorkOrderCommand constructor",
	)
	ErrStepsConflictWithTemplate = errors.New("explicit steps and useProjectSteps are mutually exclusive")
)

// CreateWorkOrderCommand creates a work order with its own step list. The
// project's template is copied only when useProjectSteps is set.
//
// Example:
//
//	cmd, err := NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1001", projectID,
//	    []string{"Prep", "Machining"}, false)
type CreateWorkOrderCommand struct { //nolint:recvcheck //using for validation
	workOrderID     kernel.UUID
	number          string
	projectID       kernel.UUID
	steps           []string
	useProjectSteps bool

	guard guard.ConstructorGuard
}

func NewCreateWorkOrderCommand(
	workOrderID kernel.UUID,
	number string,
	projectID kernel.UUID,
	steps []string,
	useProjectSteps bool,
) (CreateWorkOrderCommand, error) {
	cmd := CreateWorkOrderCommand{
		useProjectSteps: useProjectSteps,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkOrderID(workOrderID),
		cmd.setNumber(number),
		cmd.setProjectID(projectID),
		cmd.setSteps(steps),
	); err != nil {
		return CreateWorkOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWorkOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkOrderCommandIsNotConstructed)
}

func (c CreateWorkOrderCommand) WorkOrderID() kernel.UUID {
	return c.workOrderID
}

func (c CreateWorkOrderCommand) Number() string {
	return c.number
}

func (c CreateWorkOrderCommand) ProjectID() kernel.UUID {
	return c.projectID
}

// Steps returns a copy of the explicit step list (empty with useProjectSteps).
func (c CreateWorkOrderCommand) Steps() []string {
	out := make([]string, len(c.steps))
	copy(out, c.steps)
	return out
}

func (c CreateWorkOrderCommand) UseProjectSteps() bool {
	return c.useProjectSteps
}

func (c *CreateWorkOrderCommand) setWorkOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.workOrderID = id
	return nil
}

func (c *CreateWorkOrderCommand) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("work order number")
	}
	c.number = number
	return nil
}

func (c *CreateWorkOrderCommand) setProjectID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.projectID = id
	return nil
}

func (c *CreateWorkOrderCommand) setSteps(steps []string) error {
	switch {
	case c.useProjectSteps && len(steps) > 0:
		return ErrStepsConflictWithTemplate
	case !c.useProjectSteps && len(steps) == 0:
		return workorder.ErrStepsAreRequired
	}
	c.steps = make([]string, len(steps))
	copy(c.steps, steps)
	return nil
}
