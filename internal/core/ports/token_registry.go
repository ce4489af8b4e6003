package ports

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
)

// TokenRegistry maps issued scan tokens to the binding they authorize.
type TokenRegistry interface {
	// Register generates a token for binding and stores it. A generated token
	// that collides with a stored one is regenerated.
	Register(ctx context.Context, binding scantoken.Binding) (scantoken.Token, error)

	// Resolve looks a token up without side effects. Unknown tokens yield
	// errs.ErrObjectNotFound.
	Resolve(ctx context.Context, token scantoken.Token) (scantoken.Binding, error)

	// Revoke removes every token bound to workOrderID.
	Revoke(ctx context.Context, workOrderID kernel.UUID) error
}
