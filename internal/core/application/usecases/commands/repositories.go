// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"shopfloor/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WorkOrderRepoFactory provides the work order repository within a transaction.
	WorkOrderRepoFactory interface {
		WorkOrderRepository() ports.WorkOrderRepository
	}

	// ProjectRepoFactory provides the project repository within a transaction.
	ProjectRepoFactory interface {
		ProjectRepository() ports.ProjectRepository
	}

	// TokenRegistryFactory provides the token registry within a transaction.
	TokenRegistryFactory interface {
		TokenRegistry() ports.TokenRegistry
	}

	// ProjectUoW manages transactions for project-only operations.
	ProjectUoW interface {
		TxManager
		ProjectRepoFactory
	}

	// ProjectUoWFactory creates new project unit of work instances.
	ProjectUoWFactory interface {
		Create() ProjectUoW
	}

	// ScanUoW covers a scan: resolving the token and mutating one work order
	// in the same transaction.
	ScanUoW interface {
		TxManager
		WorkOrderRepoFactory
		TokenRegistryFactory
	}

	// ScanUoWFactory creates new scan unit of work instances.
	ScanUoWFactory interface {
		Create() ScanUoW
	}

	// UoW manages transactions across work orders, projects and tokens.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   projects := uow.ProjectRepository()
	//   workOrders := uow.WorkOrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		WorkOrderRepoFactory
		ProjectRepoFactory
		TokenRegistryFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
