// Package memory provides an in-process implementation of the persistence
// ports. It backs the memory storage driver and the tests of the layers
// above it.
//
// Transactions are optimistic: a UnitOfWork stages its writes privately and
// Commit applies them under the store lock after checking that every work
// order it read for update still has the version it was read with. Nothing is
// locked between calls, so work orders never block each other. Tokens are the
// exception: Register reserves each token in the store until the unit of work
// ends, so collisions surface at registration and are regenerated there.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"
)

// ErrNoActiveTransaction is returned by writes, Commit and Rollback outside
// Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// Store holds the committed state.
type Store struct {
	mu sync.RWMutex

	workOrders map[kernel.UUID]workOrderRecord
	projects   map[kernel.UUID]projectRecord
	tokens     map[string]tokenRecord
	// tokens staged by open units of work
	reserved map[string]struct{}

	generator scantoken.Generator
}

func NewStore() *Store {
	return NewStoreWithGenerator(scantoken.DefaultGenerator())
}

// NewStoreWithGenerator lets tests control token generation.
func NewStoreWithGenerator(generator scantoken.Generator) *Store {
	return &Store{
		workOrders: make(map[kernel.UUID]workOrderRecord),
		projects:   make(map[kernel.UUID]projectRecord),
		tokens:     make(map[string]tokenRecord),
		reserved:   make(map[string]struct{}),
		generator:  generator,
	}
}

// WorkOrders returns a read view of committed work orders.
func (s *Store) WorkOrders() ports.WorkOrderRepository {
	return (&UnitOfWork{store: s}).WorkOrderRepository()
}

// Projects returns a read view of committed projects.
func (s *Store) Projects() ports.ProjectRepository {
	return (&UnitOfWork{store: s}).ProjectRepository()
}

// Tokens returns a read view of committed tokens.
func (s *Store) Tokens() ports.TokenRegistry {
	return (&UnitOfWork{store: s}).TokenRegistry()
}

// UnitOfWorkFactory creates memory units of work on one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages changes until Commit.
type UnitOfWork struct {
	store  *Store
	active bool

	// nil values mark deletions
	workOrders map[kernel.UUID]*workOrderRecord
	projects   map[kernel.UUID]*projectRecord
	tokens     map[string]*tokenRecord
	// tokens this unit of work holds in Store.reserved
	reservedTokens []string

	// version each work order had when this unit of work loaded it for update
	readVersions map[kernel.UUID]int64
	// work orders and projects created by this unit of work
	addedWorkOrders map[kernel.UUID]bool
	addedProjects   map[kernel.UUID]bool
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return nil
	}
	u.active = true
	u.reset()
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	defer func() {
		u.active = false
		u.reset()
	}()

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	defer u.releaseReservations()

	if err := u.checkConflicts(); err != nil {
		return err
	}

	for id, rec := range u.workOrders {
		if rec == nil {
			delete(s.workOrders, id)
			continue
		}
		s.workOrders[id] = *rec
	}
	for id, rec := range u.projects {
		if rec == nil {
			delete(s.projects, id)
			continue
		}
		s.projects[id] = *rec
	}
	for tok, rec := range u.tokens {
		if rec == nil {
			delete(s.tokens, tok)
			continue
		}
		s.tokens[tok] = *rec
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.store.mu.Lock()
	u.releaseReservations()
	u.store.mu.Unlock()

	u.active = false
	u.reset()
	return nil
}

func (u *UnitOfWork) WorkOrderRepository() ports.WorkOrderRepository {
	return &workOrderRepository{uow: u}
}

func (u *UnitOfWork) ProjectRepository() ports.ProjectRepository {
	return &projectRepository{uow: u}
}

func (u *UnitOfWork) TokenRegistry() ports.TokenRegistry {
	return &tokenRegistry{uow: u}
}

func (u *UnitOfWork) reset() {
	u.workOrders = make(map[kernel.UUID]*workOrderRecord)
	u.projects = make(map[kernel.UUID]*projectRecord)
	u.tokens = make(map[string]*tokenRecord)
	u.reservedTokens = nil
	u.readVersions = make(map[kernel.UUID]int64)
	u.addedWorkOrders = make(map[kernel.UUID]bool)
	u.addedProjects = make(map[kernel.UUID]bool)
}

// checkConflicts runs under the store write lock.
func (u *UnitOfWork) checkConflicts() error {
	s := u.store

	for id, expected := range u.readVersions {
		stored, ok := s.workOrders[id]
		if !ok {
			return errs.NewObjectNotFoundError("work order", id)
		}
		if stored.version != expected {
			return errs.NewVersionIsInvalidError("work order " + id.String())
		}
	}

	for id := range u.addedWorkOrders {
		rec := u.workOrders[id]
		if rec == nil {
			continue
		}
		if _, exists := s.workOrders[id]; exists {
			return errs.NewValueIsInvalidError("work order " + id.String() + " already exists")
		}
		for _, other := range s.workOrders {
			if other.number == rec.number {
				return fmt.Errorf("%w: %s", workorder.ErrNumberIsTaken, rec.number)
			}
		}
	}

	for id := range u.addedProjects {
		rec := u.projects[id]
		if rec == nil {
			continue
		}
		for _, other := range s.projects {
			if other.id.IsEqual(id) {
				return errs.NewValueIsInvalidError("project " + id.String() + " already exists")
			}
			if other.name == rec.name {
				return fmt.Errorf("%w: %s", project.ErrNameIsTaken, rec.name)
			}
		}
	}
	return nil
}

// reserve claims token for this unit of work unless it is committed or held
// by another open unit of work.
func (u *UnitOfWork) reserve(token string) bool {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, committed := s.tokens[token]; committed {
		return false
	}
	if _, held := s.reserved[token]; held {
		return false
	}
	s.reserved[token] = struct{}{}
	u.reservedTokens = append(u.reservedTokens, token)
	return true
}

// releaseReservations runs under the store write lock.
func (u *UnitOfWork) releaseReservations() {
	for _, token := range u.reservedTokens {
		delete(u.store.reserved, token)
	}
	u.reservedTokens = nil
}

func (u *UnitOfWork) requireActive() error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	return nil
}
