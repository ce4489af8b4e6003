package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/pkg/errs"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, pgerr.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, pgerr.IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, pgerr.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, pgerr.IsUniqueViolation(errors.New("connection reset")))
}

func TestWrap(t *testing.T) {
	require.NoError(t, pgerr.Wrap("select", nil))

	cause := errors.New("connection reset")
	err := pgerr.Wrap("select work order", cause)

	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "select work order")
}
