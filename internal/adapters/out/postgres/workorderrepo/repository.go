package workorderrepo

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkOrderRepository implements ports.WorkOrderRepository using GORM.
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GORM work order repository.
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// Add inserts the work order row and all instance rows.
func (r *GormWorkOrderRepository) Add(ctx context.Context, aggregate *workorder.WorkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %w", workorder.ErrNumberIsTaken, aggregate.Number(), err)
		}
		return pgerr.Wrap("insert work order", err)
	}
	return nil
}

// Update writes the work order row only if its stored version still matches
// aggregate.Version(), then rewrites the mutable instance columns. A mismatch
// yields errs.ErrVersionIsInvalid.
func (r *GormWorkOrderRepository) Update(ctx context.Context, aggregate *workorder.WorkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&WorkOrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"current_step_index": dto.CurrentStepIndex,
			"status":             dto.Status,
			"version":            dto.Version + 1,
		})
	if result.Error != nil {
		return pgerr.Wrap("update work order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("work order " + aggregate.ID().String())
	}

	for _, idto := range dto.Instances {
		result = db.Model(&ProcessInstanceDTO{}).
			Where("id = ?", idto.ID).
			Updates(map[string]any{
				"status":     idto.Status,
				"started_at": idto.StartedAt,
				"ended_at":   idto.EndedAt,
				"operator":   idto.Operator,
			})
		if result.Error != nil {
			return pgerr.Wrap("update process instance", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("process instance", idto.ID.String())
		}
	}
	return nil
}

// Delete removes the work order; instance rows follow by cascade.
func (r *GormWorkOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&WorkOrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return pgerr.Wrap("delete work order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("work order", id.String())
	}
	return nil
}

func (r *GormWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	return r.get(ctx, id, r.db.WithContext(ctx))
}

// GetForUpdate locks the work order row until the surrounding transaction
// ends.
func (r *GormWorkOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	return r.get(ctx, id, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}))
}

func (r *GormWorkOrderRepository) List(ctx context.Context, filter ports.WorkOrderFilter) ([]*workorder.WorkOrder, error) {
	query := withInstances(r.db.WithContext(ctx))
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", filter.ProjectID.Bytes())
	}
	if filter.WorkOrderID != nil {
		query = query.Where("id = ?", filter.WorkOrderID.Bytes())
	}
	if filter.Status != workorder.Unknown {
		query = query.Where("status = ?", int(filter.Status))
	}

	var dtos []WorkOrderDTO
	if err := query.Order("created_at, number").Find(&dtos).Error; err != nil {
		return nil, pgerr.Wrap("list work orders", err)
	}

	wos := make([]*workorder.WorkOrder, 0, len(dtos))
	for _, dto := range dtos {
		wo, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("work order %s: %w", dto.Number, err)
		}
		wos = append(wos, wo)
	}
	return wos, nil
}

func (r *GormWorkOrderRepository) ExistsNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&WorkOrderDTO{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, pgerr.Wrap("count work orders", err)
	}
	return count > 0, nil
}

func (r *GormWorkOrderRepository) get(_ context.Context, id kernel.UUID, db *gorm.DB) (*workorder.WorkOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkOrderDTO
	if err := withInstances(db).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("work order", id.String())
		}
		return nil, pgerr.Wrap("select work order", err)
	}

	return toDomain(dto)
}

func withInstances(db *gorm.DB) *gorm.DB {
	return db.Preload("Instances", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("step_index")
	})
}
