package memory

import (
	"context"
	"sort"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/pkg/errs"
)

type projectRepository struct {
	uow *UnitOfWork
}

func (r *projectRepository) Add(_ context.Context, p *project.Project) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	rec := projectToRecord(p)
	r.uow.projects[p.ID()] = &rec
	r.uow.addedProjects[p.ID()] = true
	return nil
}

func (r *projectRepository) Get(_ context.Context, id kernel.UUID) (*project.Project, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("project", id)
	}
	return rec.toDomain()
}

func (r *projectRepository) List(_ context.Context) ([]*project.Project, error) {
	records := r.all()
	sort.Slice(records, func(i, j int) bool { return records[i].name < records[j].name })

	out := make([]*project.Project, 0, len(records))
	for _, rec := range records {
		p, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *projectRepository) Delete(_ context.Context, id kernel.UUID) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	if _, ok := r.lookup(id); !ok {
		return errs.NewObjectNotFoundError("project", id)
	}
	r.uow.projects[id] = nil
	return nil
}

func (r *projectRepository) ExistsName(_ context.Context, name string) (bool, error) {
	for _, rec := range r.all() {
		if rec.name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *projectRepository) lookup(id kernel.UUID) (projectRecord, bool) {
	if staged, ok := r.uow.projects[id]; ok {
		if staged == nil {
			return projectRecord{}, false
		}
		return *staged, true
	}

	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.projects[id]
	return rec, ok
}

func (r *projectRepository) all() []projectRecord {
	s := r.uow.store
	s.mu.RLock()
	merged := make(map[kernel.UUID]projectRecord, len(s.projects))
	for id, rec := range s.projects {
		merged[id] = rec
	}
	s.mu.RUnlock()

	for id, staged := range r.uow.projects {
		if staged == nil {
			delete(merged, id)
			continue
		}
		merged[id] = *staged
	}

	out := make([]projectRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	return out
}
