// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern for work orders, projects and scan tokens.
//
// A GormUnitOfWork wraps one database transaction. Repositories obtained from
// it after Begin run inside that transaction; before Begin they use the plain
// connection, which is how the query side reads.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, scantoken.DefaultGenerator())
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	wo, err := uow.WorkOrderRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// mutate wo ...
//	if err := uow.WorkOrderRepository().Update(ctx, wo); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Concurrency: GetForUpdate takes a row lock on the work order, and Update
// checks the aggregate version, so two scans of the same work order are
// serialized while scans of different work orders proceed in parallel.
package postgres

import (
	"context"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/adapters/out/postgres/projectrepo"
	"shopfloor/internal/adapters/out/postgres/tokenrepo"
	"shopfloor/internal/adapters/out/postgres/workorderrepo"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances on one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	generator scantoken.Generator
}

// NewGormUnitOfWorkFactory creates a factory whose token registries draw
// tokens from generator.
func NewGormUnitOfWorkFactory(db *gorm.DB, generator scantoken.Generator) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, generator: generator}
}

// Create produces a new UnitOfWork. Instances must not be shared between
// goroutines.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		generator: f.generator,
	}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	generator scantoken.Generator
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Wrap("begin transaction", tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit finalizes the transaction. It returns gorm.ErrInvalidTransaction
// without an open transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return pgerr.Wrap("commit transaction", err)
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// without an open transaction, which makes a deferred Rollback after Commit
// harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) WorkOrderRepository() ports.WorkOrderRepository {
	return workorderrepo.NewGormWorkOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) ProjectRepository() ports.ProjectRepository {
	return projectrepo.NewGormProjectRepository(uow.conn())
}

func (uow *GormUnitOfWork) TokenRegistry() ports.TokenRegistry {
	return tokenrepo.NewGormTokenRegistry(uow.conn(), uow.generator)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
