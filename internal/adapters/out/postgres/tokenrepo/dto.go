// Package tokenrepo stores issued scan tokens and the binding each one
// authorizes.
package tokenrepo

import (
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"

	"github.com/google/uuid"
)

// TokenDTO is one row of scan_tokens. A binding owns at most one token.
// Rows carry no foreign key to work_orders because tokens are registered
// before the work order row is inserted.
type TokenDTO struct {
	Token       string    `gorm:"type:varchar(128);primaryKey"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scan_tokens_binding"`
	StepIndex   int       `gorm:"type:int;not null;uniqueIndex:idx_scan_tokens_binding"`
	Kind        int       `gorm:"type:smallint;not null;uniqueIndex:idx_scan_tokens_binding"`
}

func (TokenDTO) TableName() string {
	return "scan_tokens"
}

func fromBinding(token scantoken.Token, b scantoken.Binding) TokenDTO {
	return TokenDTO{
		Token:       token.String(),
		WorkOrderID: b.WorkOrderID().Bytes(),
		StepIndex:   b.StepIndex(),
		Kind:        int(b.Kind()),
	}
}

func (dto TokenDTO) toBinding() (scantoken.Binding, error) {
	id, err := kernel.UUIDFromBytes(dto.WorkOrderID[:])
	if err != nil {
		return scantoken.Binding{}, err
	}
	return scantoken.NewBinding(id, dto.StepIndex, scantoken.Kind(dto.Kind))
}
