package project

import (
	"errors"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
)

const maxNameLength = 128

var (
	// ErrProjectIsNotConstructed is returned for zero-value projects.
	ErrProjectIsNotConstructed = errors.New("Project must be created via NewProject constructor")

	// ErrDefaultStepsAreEmpty is returned when a work order asks for the
	// project template but the project has none.
	ErrDefaultStepsAreEmpty = errors.New("project has no default steps")

	// ErrNameIsTaken is returned by repositories when another project already
	// uses the name.
	ErrNameIsTaken = errors.New("project name is already taken")
)

// Project groups work orders and carries a default step template. The
// template is only a suggestion: work orders copy it when asked to and keep
// their own list afterwards.
type Project struct {
	id           kernel.UUID
	name         string
	description  string
	defaultSteps []string
	createdAt    time.Time

	isConstructed bool
}

// NewProject validates and creates a project. defaultSteps may be empty.
func NewProject(id kernel.UUID, name, description string, defaultSteps []string, createdAt time.Time) (*Project, error) {
	steps, err := normalizeSteps(defaultSteps)
	if err = errors.Join(id.Validate(), validateName(name), err); err != nil {
		return nil, err
	}

	return &Project{
		id:            id,
		name:          strings.TrimSpace(name),
		description:   strings.TrimSpace(description),
		defaultSteps:  steps,
		createdAt:     kernel.Timestamp(createdAt),
		isConstructed: true,
	}, nil
}

// RestoreProject rebuilds a stored project.
func RestoreProject(id kernel.UUID, name, description string, defaultSteps []string, createdAt time.Time) (*Project, error) {
	p, err := NewProject(id, name, description, defaultSteps, createdAt)
	if err != nil {
		return nil, err
	}
	p.createdAt = createdAt
	return p, nil
}

func (p *Project) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProjectIsNotConstructed
	}
	return nil
}

func (p *Project) ID() kernel.UUID {
	return p.id
}

func (p *Project) Name() string {
	return p.name
}

func (p *Project) Description() string {
	return p.description
}

func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

// DefaultSteps returns a copy of the step template.
func (p *Project) DefaultSteps() []string {
	out := make([]string, len(p.defaultSteps))
	copy(out, p.defaultSteps)
	return out
}

// StepsForWorkOrder returns the template for a new work order, failing when
// the project has no template.
func (p *Project) StepsForWorkOrder() ([]string, error) {
	if len(p.defaultSteps) == 0 {
		return nil, ErrDefaultStepsAreEmpty
	}
	return p.DefaultSteps(), nil
}

func validateName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return errs.NewValueIsRequiredError("project name")
	}
	if len(n) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("project name length", len(n), 1, maxNameLength)
	}
	return nil
}

func normalizeSteps(steps []string) ([]string, error) {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, errs.NewValueIsRequiredError("default step name")
		}
		out = append(out, s)
	}
	return out, nil
}
