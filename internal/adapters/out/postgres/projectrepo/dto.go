// Package projectrepo persists projects and their default step templates.
package projectrepo

import (
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProjectDTO is the projects row. The default step template is a text[].
type ProjectDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  string         `gorm:"type:text;not null;default:''"`
	DefaultSteps pq.StringArray `gorm:"type:text[]"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime:false"`
}

func (ProjectDTO) TableName() string {
	return "projects"
}

func fromDomain(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		Description:  p.Description(),
		DefaultSteps: pq.StringArray(p.DefaultSteps()),
		CreatedAt:    p.CreatedAt(),
	}
}

func toDomain(dto ProjectDTO) (*project.Project, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return project.RestoreProject(id, dto.Name, dto.Description, []string(dto.DefaultSteps), dto.CreatedAt.UTC())
}
