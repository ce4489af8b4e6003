package tokenrepo

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxRegisterAttempts bounds regeneration after token collisions.
const maxRegisterAttempts = 5

// GormTokenRegistry implements ports.TokenRegistry using GORM.
type GormTokenRegistry struct {
	db        *gorm.DB
	generator scantoken.Generator
}

func NewGormTokenRegistry(db *gorm.DB, generator scantoken.Generator) *GormTokenRegistry {
	return &GormTokenRegistry{db: db, generator: generator}
}

// Register inserts a fresh token for binding. Inserts use ON CONFLICT (token)
// DO NOTHING, so a colliding token simply affects no row and is regenerated.
func (r *GormTokenRegistry) Register(ctx context.Context, binding scantoken.Binding) (scantoken.Token, error) {
	if err := binding.Validate(); err != nil {
		return scantoken.Token{}, err
	}

	db := r.db.WithContext(ctx)

	var bound int64
	if err := db.Model(&TokenDTO{}).
		Where("work_order_id = ? AND step_index = ? AND kind = ?",
			binding.WorkOrderID().Bytes(), binding.StepIndex(), int(binding.Kind())).
		Count(&bound).Error; err != nil {
		return scantoken.Token{}, pgerr.Wrap("count scan tokens", err)
	}
	if bound > 0 {
		return scantoken.Token{}, errs.NewValueIsInvalidErrorWithCause(
			"binding", fmt.Errorf("%s already has a token", binding))
	}

	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		token, err := r.generator.Generate(binding)
		if err != nil {
			return scantoken.Token{}, err
		}

		dto := fromBinding(token, binding)
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoNothing: true,
		}).Create(&dto)
		if result.Error != nil {
			return scantoken.Token{}, pgerr.Wrap("insert scan token", result.Error)
		}
		if result.RowsAffected == 1 {
			return token, nil
		}
	}
	return scantoken.Token{}, fmt.Errorf("%w after %d attempts", scantoken.ErrNoUniqueToken, maxRegisterAttempts)
}

func (r *GormTokenRegistry) Resolve(ctx context.Context, token scantoken.Token) (scantoken.Binding, error) {
	var dto TokenDTO
	if err := r.db.WithContext(ctx).First(&dto, "token = ?", token.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scantoken.Binding{}, errs.NewObjectNotFoundError("token", token.String())
		}
		return scantoken.Binding{}, pgerr.Wrap("select scan token", err)
	}
	return dto.toBinding()
}

func (r *GormTokenRegistry) Revoke(ctx context.Context, workOrderID kernel.UUID) error {
	if err := workOrderID.Validate(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Delete(&TokenDTO{}, "work_order_id = ?", workOrderID.Bytes()).Error
	return pgerr.Wrap("delete scan tokens", err)
}
