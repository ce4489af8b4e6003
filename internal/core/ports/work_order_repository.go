// Package ports defines the contracts between the application core and its
// adapters: repositories, the token registry, the unit of work and transition
// observers.
package ports

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
)

// WorkOrderFilter narrows List results. Zero fields match everything.
type WorkOrderFilter struct {
	ProjectID   *kernel.UUID
	WorkOrderID *kernel.UUID
	Status      workorder.Status
}

// WorkOrderRepository persists WorkOrder aggregates together with their
// process instances.
type WorkOrderRepository interface {
	// Add stores a new work order and all of its instances.
	Add(ctx context.Context, aggregate *workorder.WorkOrder) error

	// Update stores the instances and step pointer of an existing work order.
	// It fails with errs.ErrVersionIsInvalid when the stored version differs
	// from aggregate.Version(), and bumps the stored version otherwise.
	Update(ctx context.Context, aggregate *workorder.WorkOrder) error

	// Delete removes a work order and its instances.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get returns errs.ErrObjectNotFound when the work order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error)

	// GetForUpdate is Get plus a row lock held until the transaction ends,
	// where the store supports it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error)

	// List returns work orders ordered by creation time.
	List(ctx context.Context, filter WorkOrderFilter) ([]*workorder.WorkOrder, error)

	// ExistsNumber reports whether a work order number is already taken.
	ExistsNumber(ctx context.Context, number string) (bool, error)
}
