package errs_test

import (
	"errors"
	"testing"

	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("workOrderId", "wo-17")

		assert.Equal(t, "workOrderId", err.ParamName)
		assert.Equal(t, "wo-17", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: wo-17", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("row deleted")
		err := errs.NewObjectNotFoundErrorWithCause("workOrderId", "wo-17", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: workOrderId, ID is: wo-17 (cause: row deleted)",
			err.Error())
	})

	t.Run("non string identifiers", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("stepIndex", 3)
		assert.Equal(t, "object not found: %!s(int=3)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("token")
	assert.Equal(t, "value is invalid: token", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	withCause := errs.NewValueIsInvalidErrorWithCause("token", errors.New("empty"))
	assert.Equal(t, "value is invalid: token (cause: empty)", withCause.Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("stepIndex", 7, 0, 3)

		assert.Equal(t, "value is invalid: 7 is stepIndex, min value is 0, max value is 3", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("stepIndex", -1, 0, 3, errors.New("negative"))
		assert.Equal(t,
			"value is invalid: -1 is stepIndex, min value is 0, max value is 3 (cause: negative)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("stepName", "Prep\nMachining", 0, 10)
		assert.Contains(t, err.Error(), "Prep Machining")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("operator")
	assert.Equal(t, "value is required: operator", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	withCause := errs.NewValueIsRequiredErrorWithCause("operator", errors.New("blank header"))
	assert.Equal(t, "value is required: operator (cause: blank header)", withCause.Error())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("work order")
	assert.Equal(t, "version is invalid: work order", err.Error())
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)

	withCause := errs.NewVersionIsInvalidErrorWithCause("work order", errors.New("expected 2, found 3"))
	assert.Equal(t, "version is invalid: work order (cause: expected 2, found 3)", withCause.Error())
}

func TestStorageUnavailableError(t *testing.T) {
	driverErr := errors.New("connection refused")
	err := errs.NewStorageUnavailableError("load work order", driverErr)

	assert.Equal(t, "storage unavailable: load work order (cause: connection refused)", err.Error())
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	require.ErrorIs(t, err, driverErr)

	bare := errs.NewStorageUnavailableError("commit", nil)
	assert.Equal(t, "storage unavailable: commit", bare.Error())
	require.ErrorIs(t, bare, errs.ErrStorageUnavailable)
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "version is invalid", errs.ErrVersionIsInvalid.Error())
	assert.Equal(t, "storage unavailable", errs.ErrStorageUnavailable.Error())
}
