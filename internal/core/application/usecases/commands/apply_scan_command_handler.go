package commands

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"
)

// maxScanAttempts bounds the reload-and-retry loop on optimistic conflicts.
const maxScanAttempts = 5

// ApplyScanCommandHandler is the step-transition engine. It resolves the
// token, loads the owning work order, applies the transition and stores the
// instance together with the advanced step pointer in one transaction.
//
// Concurrent scans on the same work order are serialized by the store (row
// lock or version check). When a commit loses a version race the handler
// reloads and re-evaluates, so a duplicate start scan ends as
// ErrAlreadyStarted rather than as a storage conflict.
//
// Example:
//
//	handler := NewApplyScanCommandHandler(uowFactory, kernel.SystemClock{}, metrics, feed)
//	cmd, _ := NewApplyScanCommand(token, "alice", "")
//
//	transition, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, scantoken.ErrUnknownToken):
//	    // not one of ours
//	case errors.Is(err, workorder.ErrOutOfSequence):
//	    // scanned ahead of turn
//	case err != nil:
//	    return err
//	}
//	fmt.Printf("%s is now %s\n", transition.StepName, transition.Status)
type ApplyScanCommandHandler struct {
	uowFactory ScanUoWFactory
	clock      kernel.Clock
	observers  []ports.TransitionObserver
}

// NewApplyScanCommandHandler creates the engine. observers are notified after
// every committed transition.
func NewApplyScanCommandHandler(
	uowFactory ScanUoWFactory,
	clock kernel.Clock,
	observers ...ports.TransitionObserver,
) ApplyScanCommandHandler {
	return ApplyScanCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		observers:  observers,
	}
}

// Handle applies one scan. Rejections are returned as errors matching
// scantoken.ErrUnknownToken or one of the workorder transition sentinels;
// nothing is persisted in that case.
func (h ApplyScanCommandHandler) Handle(ctx context.Context, cmd ApplyScanCommand) (workorder.Transition, error) {
	if err := cmd.Validate(); err != nil {
		return workorder.Transition{}, err
	}

	var (
		transition workorder.Transition
		err        error
	)
	for attempt := 0; attempt < maxScanAttempts; attempt++ {
		transition, err = h.apply(ctx, cmd)
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			break
		}
	}
	if err != nil {
		return workorder.Transition{}, err
	}

	for _, o := range h.observers {
		o.OnTransition(ctx, transition)
	}
	return transition, nil
}

func (h ApplyScanCommandHandler) apply(ctx context.Context, cmd ApplyScanCommand) (workorder.Transition, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return workorder.Transition{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	binding, err := uow.TokenRegistry().Resolve(ctx, cmd.Token())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return workorder.Transition{}, fmt.Errorf("%w: %s", scantoken.ErrUnknownToken, cmd.Token())
	}
	if err != nil {
		return workorder.Transition{}, err
	}
	if cmd.ExpectedKind() != scantoken.UnknownKind && cmd.ExpectedKind() != binding.Kind() {
		return workorder.Transition{}, fmt.Errorf("%w: %s is not a %s token", scantoken.ErrUnknownToken,
			cmd.Token(), cmd.ExpectedKind())
	}

	repo := uow.WorkOrderRepository()
	wo, err := repo.GetForUpdate(ctx, binding.WorkOrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return workorder.Transition{}, &workorder.TransitionError{
			Reason:      workorder.ErrInstanceNotFound,
			WorkOrderID: binding.WorkOrderID(),
			StepIndex:   binding.StepIndex(),
			Status:      workorder.Unknown,
		}
	}
	if err != nil {
		return workorder.Transition{}, err
	}

	transition, err := wo.ApplyTransition(binding.StepIndex(), binding.Kind(), cmd.Operator(), h.clock.Now())
	if err != nil {
		return workorder.Transition{}, err
	}

	if err = repo.Update(ctx, wo); err != nil {
		return workorder.Transition{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return workorder.Transition{}, err
	}

	return transition, nil
}
