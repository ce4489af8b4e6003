// Package pgerr classifies PostgreSQL driver errors for the repositories.
package pgerr

import (
	"errors"

	"shopfloor/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Wrap turns a driver failure of operation into an errs.StorageUnavailableError.
// nil stays nil.
func Wrap(operation string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewStorageUnavailableError(operation, err)
}
