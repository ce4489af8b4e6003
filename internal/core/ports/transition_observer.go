package ports

import (
	"context"

	"shopfloor/internal/core/domain/model/workorder"
)

// TransitionObserver is notified after a scan has been committed. Observers
// must not block; errors are theirs to handle.
type TransitionObserver interface {
	OnTransition(ctx context.Context, transition workorder.Transition)
}
