package scantoken_test

import (
	"bytes"
	"strings"
	"testing"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for input, expected := range map[string]scantoken.Kind{
		"start":  scantoken.Start,
		"END":    scantoken.End,
		" end ":  scantoken.End,
		"Start ": scantoken.Start,
	} {
		kind, err := scantoken.ParseKind(input)

		require.NoError(t, err, input)
		assert.Equal(t, expected, kind)
	}

	_, err := scantoken.ParseKind("pause")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "start", scantoken.Start.String())
	assert.Equal(t, "end", scantoken.End.String())
	assert.Equal(t, "unknown", scantoken.UnknownKind.String())
	assert.Equal(t, "unknown", scantoken.Kind(42).String())
	require.Error(t, scantoken.UnknownKind.Validate())
}

func TestNewBinding(t *testing.T) {
	workOrderID := kernel.NewUUID()

	t.Run("valid", func(t *testing.T) {
		b, err := scantoken.NewBinding(workOrderID, 2, scantoken.End)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.True(t, b.WorkOrderID().IsEqual(workOrderID))
		assert.Equal(t, 2, b.StepIndex())
		assert.Equal(t, scantoken.End, b.Kind())
	})

	t.Run("collects every violation", func(t *testing.T) {
		_, err := scantoken.NewBinding(kernel.UUID{}, -1, scantoken.UnknownKind)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		var b scantoken.Binding
		require.ErrorIs(t, b.Validate(), scantoken.ErrBindingIsNotConstructed)
	})
}

func TestParse(t *testing.T) {
	tok, err := scantoken.Parse("  S.abc.0.ff \n")
	require.NoError(t, err)
	assert.Equal(t, "S.abc.0.ff", tok.String())
	assert.False(t, tok.IsZero())

	_, err = scantoken.Parse("   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = scantoken.Parse(strings.Repeat("x", 129))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestGenerator_Generate(t *testing.T) {
	workOrderID, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)

	start, err := scantoken.NewBinding(workOrderID, 0, scantoken.Start)
	require.NoError(t, err)
	end, err := scantoken.NewBinding(workOrderID, 0, scantoken.End)
	require.NoError(t, err)

	t.Run("embeds the binding", func(t *testing.T) {
		tok, err := scantoken.DefaultGenerator().Generate(start)

		require.NoError(t, err)
		assert.Regexp(t, `^S\.550e8400e29b41d4a716446655440000\.0\.[0-9a-f]{16}$`, tok.String())
	})

	t.Run("start and end differ even with identical randomness", func(t *testing.T) {
		zeros := make([]byte, 32)
		g := scantoken.NewGenerator(bytes.NewReader(zeros))

		s, err := g.Generate(start)
		require.NoError(t, err)
		e, err := g.Generate(end)
		require.NoError(t, err)

		assert.NotEqual(t, s, e)
		assert.True(t, strings.HasPrefix(e.String(), "E."))
	})

	t.Run("random part varies", func(t *testing.T) {
		g := scantoken.DefaultGenerator()
		a, err := g.Generate(start)
		require.NoError(t, err)
		b, err := g.Generate(start)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("exhausted entropy source", func(t *testing.T) {
		g := scantoken.NewGenerator(bytes.NewReader(nil))

		_, err := g.Generate(start)
		require.Error(t, err)
	})

	t.Run("zero binding", func(t *testing.T) {
		_, err := scantoken.DefaultGenerator().Generate(scantoken.Binding{})
		require.ErrorIs(t, err, scantoken.ErrBindingIsNotConstructed)
	})
}
