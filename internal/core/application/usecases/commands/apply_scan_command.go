package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrApplyScanCommandIsNotConstructed = errors.New(
	"ApplyScanCommand must be created via NewApplyScanCommand constructor",
)

// ApplyScanCommand is one scan handed over by the scan intake: the raw token,
// the authenticated operator, and optionally the transition the intake
// endpoint expects ("start" or "end").
//
// Example:
//
//	cmd, err := NewApplyScanCommand(scanned, "alice", "")
//	if err != nil {
//	    return err
//	}
//	transition, err := handler.Handle(ctx, cmd)
type ApplyScanCommand struct { //nolint:recvcheck //using for validation
	token        scantoken.Token
	operator     string
	expectedKind scantoken.Kind

	guard guard.ConstructorGuard
}

// NewApplyScanCommand validates the scan input. An empty expectedKind accepts
// whatever kind the token is bound to.
func NewApplyScanCommand(rawToken, operator, expectedKind string) (ApplyScanCommand, error) {
	cmd := ApplyScanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setToken(rawToken),
		cmd.setOperator(operator),
		cmd.setExpectedKind(expectedKind),
	); err != nil {
		return ApplyScanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyScanCommand) Validate() error {
	return c.guard.Validate(ErrApplyScanCommandIsNotConstructed)
}

func (c ApplyScanCommand) Token() scantoken.Token {
	return c.token
}

func (c ApplyScanCommand) Operator() string {
	return c.operator
}

// ExpectedKind is UnknownKind when the intake did not state one.
func (c ApplyScanCommand) ExpectedKind() scantoken.Kind {
	return c.expectedKind
}

func (c *ApplyScanCommand) setToken(raw string) error {
	token, err := scantoken.Parse(raw)
	if err != nil {
		return err
	}
	c.token = token
	return nil
}

func (c *ApplyScanCommand) setOperator(operator string) error {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return errs.NewValueIsRequiredError("operator identity")
	}
	c.operator = operator
	return nil
}

func (c *ApplyScanCommand) setExpectedKind(raw string) error {
	if strings.TrimSpace(raw) == "" {
		c.expectedKind = scantoken.UnknownKind
		return nil
	}
	kind, err := scantoken.ParseKind(raw)
	if err != nil {
		return err
	}
	c.expectedKind = kind
	return nil
}
