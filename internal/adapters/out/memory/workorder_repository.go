package memory

import (
	"context"
	"sort"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"
)

type workOrderRepository struct {
	uow *UnitOfWork
}

func (r *workOrderRepository) Add(_ context.Context, aggregate *workorder.WorkOrder) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	rec := workOrderToRecord(aggregate, aggregate.Version())
	r.uow.workOrders[aggregate.ID()] = &rec
	r.uow.addedWorkOrders[aggregate.ID()] = true
	return nil
}

func (r *workOrderRepository) Update(_ context.Context, aggregate *workorder.WorkOrder) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	current, ok := r.lookup(aggregate.ID())
	if !ok {
		return errs.NewObjectNotFoundError("work order", aggregate.ID())
	}
	if current.version != aggregate.Version() {
		return errs.NewVersionIsInvalidError("work order " + aggregate.ID().String())
	}
	if _, read := r.uow.readVersions[aggregate.ID()]; !read && !r.uow.addedWorkOrders[aggregate.ID()] {
		r.uow.readVersions[aggregate.ID()] = aggregate.Version()
	}

	rec := workOrderToRecord(aggregate, aggregate.Version()+1)
	r.uow.workOrders[aggregate.ID()] = &rec
	return nil
}

func (r *workOrderRepository) Delete(_ context.Context, id kernel.UUID) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	current, ok := r.lookup(id)
	if !ok {
		return errs.NewObjectNotFoundError("work order", id)
	}
	if _, read := r.uow.readVersions[id]; !read && !r.uow.addedWorkOrders[id] {
		r.uow.readVersions[id] = current.version
	}
	r.uow.workOrders[id] = nil
	return nil
}

func (r *workOrderRepository) Get(_ context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("work order", id)
	}
	return rec.toDomain()
}

func (r *workOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	wo, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.uow.active && !r.uow.addedWorkOrders[id] {
		if _, read := r.uow.readVersions[id]; !read {
			r.uow.readVersions[id] = wo.Version()
		}
	}
	return wo, nil
}

func (r *workOrderRepository) List(_ context.Context, filter ports.WorkOrderFilter) ([]*workorder.WorkOrder, error) {
	records := r.all()
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.Before(records[j].createdAt)
		}
		return records[i].number < records[j].number
	})

	out := make([]*workorder.WorkOrder, 0, len(records))
	for _, rec := range records {
		if filter.ProjectID != nil && !rec.projectID.IsEqual(*filter.ProjectID) {
			continue
		}
		if filter.WorkOrderID != nil && !rec.id.IsEqual(*filter.WorkOrderID) {
			continue
		}
		if filter.Status != workorder.Unknown && rec.status != filter.Status {
			continue
		}
		wo, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, nil
}

func (r *workOrderRepository) ExistsNumber(_ context.Context, number string) (bool, error) {
	for _, rec := range r.all() {
		if rec.number == number {
			return true, nil
		}
	}
	return false, nil
}

// lookup prefers staged state over committed state.
func (r *workOrderRepository) lookup(id kernel.UUID) (workOrderRecord, bool) {
	if staged, ok := r.uow.workOrders[id]; ok {
		if staged == nil {
			return workOrderRecord{}, false
		}
		return *staged, true
	}

	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.workOrders[id]
	return rec, ok
}

func (r *workOrderRepository) all() []workOrderRecord {
	s := r.uow.store
	s.mu.RLock()
	merged := make(map[kernel.UUID]workOrderRecord, len(s.workOrders))
	for id, rec := range s.workOrders {
		merged[id] = rec
	}
	s.mu.RUnlock()

	for id, staged := range r.uow.workOrders {
		if staged == nil {
			delete(merged, id)
			continue
		}
		merged[id] = *staged
	}

	out := make([]workOrderRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	return out
}
