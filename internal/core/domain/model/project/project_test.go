package project_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 6789, time.UTC)

	t.Run("valid", func(t *testing.T) {
		p, err := project.NewProject(kernel.NewUUID(), " Gearbox ", "housing line", []string{" Cut", "Weld "}, created)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, "Gearbox", p.Name())
		assert.Equal(t, []string{"Cut", "Weld"}, p.DefaultSteps())
		assert.Equal(t, created.Truncate(time.Microsecond), p.CreatedAt())
	})

	t.Run("empty template is allowed", func(t *testing.T) {
		p, err := project.NewProject(kernel.NewUUID(), "Spare parts", "", nil, created)
		require.NoError(t, err)

		_, err = p.StepsForWorkOrder()
		require.ErrorIs(t, err, project.ErrDefaultStepsAreEmpty)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := project.NewProject(kernel.UUID{}, "", "", []string{"ok", " "}, created)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value", func(t *testing.T) {
		var p project.Project
		require.ErrorIs(t, p.Validate(), project.ErrProjectIsNotConstructed)
	})
}

func TestProject_DefaultStepsIsACopy(t *testing.T) {
	p, err := project.NewProject(kernel.NewUUID(), "Gearbox", "", []string{"Cut"}, time.Now())
	require.NoError(t, err)

	steps, err := p.StepsForWorkOrder()
	require.NoError(t, err)
	steps[0] = "Paint"

	assert.Equal(t, []string{"Cut"}, p.DefaultSteps())
}
