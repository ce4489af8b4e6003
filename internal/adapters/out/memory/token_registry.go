package memory

import (
	"context"
	"fmt"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"
)

// maxRegisterAttempts bounds regeneration after token collisions.
const maxRegisterAttempts = 5

type tokenRegistry struct {
	uow *UnitOfWork
}

func (r *tokenRegistry) Register(_ context.Context, binding scantoken.Binding) (scantoken.Token, error) {
	if err := r.uow.requireActive(); err != nil {
		return scantoken.Token{}, err
	}
	if err := binding.Validate(); err != nil {
		return scantoken.Token{}, err
	}
	if r.bound(binding) {
		return scantoken.Token{}, errs.NewValueIsInvalidErrorWithCause(
			"binding", fmt.Errorf("%s already has a token", binding))
	}

	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		token, err := r.uow.store.generator.Generate(binding)
		if err != nil {
			return scantoken.Token{}, err
		}
		if !r.uow.reserve(token.String()) {
			continue
		}
		r.uow.tokens[token.String()] = &tokenRecord{
			workOrderID: binding.WorkOrderID(),
			stepIndex:   binding.StepIndex(),
			kind:        binding.Kind(),
		}
		return token, nil
	}
	return scantoken.Token{}, fmt.Errorf("%w after %d attempts", scantoken.ErrNoUniqueToken, maxRegisterAttempts)
}

func (r *tokenRegistry) Resolve(_ context.Context, token scantoken.Token) (scantoken.Binding, error) {
	rec, ok := r.lookup(token.String())
	if !ok {
		return scantoken.Binding{}, errs.NewObjectNotFoundError("token", token.String())
	}
	return rec.toDomain()
}

func (r *tokenRegistry) Revoke(_ context.Context, workOrderID kernel.UUID) error {
	if err := r.uow.requireActive(); err != nil {
		return err
	}
	for tok, rec := range r.all() {
		if rec.workOrderID.IsEqual(workOrderID) {
			r.uow.tokens[tok] = nil
		}
	}
	return nil
}

func (r *tokenRegistry) bound(binding scantoken.Binding) bool {
	for _, rec := range r.all() {
		if rec.workOrderID.IsEqual(binding.WorkOrderID()) &&
			rec.stepIndex == binding.StepIndex() &&
			rec.kind == binding.Kind() {
			return true
		}
	}
	return false
}

func (r *tokenRegistry) lookup(token string) (tokenRecord, bool) {
	if staged, ok := r.uow.tokens[token]; ok {
		if staged == nil {
			return tokenRecord{}, false
		}
		return *staged, true
	}

	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tokens[token]
	return rec, ok
}

func (r *tokenRegistry) all() map[string]tokenRecord {
	s := r.uow.store
	s.mu.RLock()
	merged := make(map[string]tokenRecord, len(s.tokens))
	for tok, rec := range s.tokens {
		merged[tok] = rec
	}
	s.mu.RUnlock()

	for tok, staged := range r.uow.tokens {
		if staged == nil {
			delete(merged, tok)
			continue
		}
		merged[tok] = *staged
	}
	return merged
}
