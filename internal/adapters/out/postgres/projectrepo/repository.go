package projectrepo

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProjectRepository implements ports.ProjectRepository using GORM.
type GormProjectRepository struct {
	db *gorm.DB
}

func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Add(ctx context.Context, aggregate *project.Project) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %w", project.ErrNameIsTaken, aggregate.Name(), err)
		}
		return pgerr.Wrap("insert project", err)
	}
	return nil
}

func (r *GormProjectRepository) Get(ctx context.Context, id kernel.UUID) (*project.Project, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProjectDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("project", id.String())
		}
		return nil, pgerr.Wrap("select project", err)
	}

	return toDomain(dto)
}

// List returns every project ordered by name.
func (r *GormProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	var dtos []ProjectDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, pgerr.Wrap("list projects", err)
	}

	projects := make([]*project.Project, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (r *GormProjectRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ProjectDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return pgerr.Wrap("delete project", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("project", id.String())
	}
	return nil
}

func (r *GormProjectRepository) ExistsName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProjectDTO{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, pgerr.Wrap("count projects", err)
	}
	return count > 0, nil
}
