package workorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"
)

const maxNumberLength = 64

// IssueFunc issues the scan token for one binding. Token registries provide it
// so that tokens are created together with the instances that own them.
type IssueFunc func(binding scantoken.Binding) (scantoken.Token, error)

// WorkOrder is the aggregate root of one trackable production unit. It owns an
// ordered list of process instances, one per step, and the pointer to the step
// that is currently allowed to move.
//
// Invariants:
//   - at least one instance, indexed 0..n-1 in order
//   - 0 <= currentStepIndex <= n
//   - every instance below currentStepIndex is completed, none above it started
//   - status is Completed exactly when currentStepIndex == n
type WorkOrder struct {
	id        kernel.UUID
	number    string
	projectID kernel.UUID

	instances        []*ProcessInstance
	currentStepIndex int
	status           Status

	createdAt time.Time

	// optimistic concurrency counter, bumped by repositories on update
	version int64

	isConstructed bool
}

// NewWorkOrder creates a work order with one pending instance per step name and
// issues the start and end tokens of every instance through issue. Step names
// are used as given; project templates are never substituted here.
func NewWorkOrder(
	id kernel.UUID,
	number string,
	projectID kernel.UUID,
	stepNames []string,
	createdAt time.Time,
	issue IssueFunc,
) (*WorkOrder, error) {
	if err := errors.Join(
		id.Validate(),
		validateNumber(number),
		projectID.Validate(),
		validateStepNames(stepNames),
	); err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, errs.NewValueIsRequiredError("token issuer")
	}

	wo := &WorkOrder{
		id:            id,
		number:        strings.TrimSpace(number),
		projectID:     projectID,
		instances:     make([]*ProcessInstance, 0, len(stepNames)),
		status:        Pending,
		createdAt:     kernel.Timestamp(createdAt),
		isConstructed: true,
	}

	for i, name := range stepNames {
		startToken, err := issueToken(issue, id, i, scantoken.Start)
		if err != nil {
			return nil, err
		}
		endToken, err := issueToken(issue, id, i, scantoken.End)
		if err != nil {
			return nil, err
		}

		wo.instances = append(wo.instances, &ProcessInstance{
			id:         kernel.NewUUID(),
			stepIndex:  i,
			stepName:   strings.TrimSpace(name),
			status:     Pending,
			startToken: startToken,
			endToken:   endToken,
		})
	}

	return wo, nil
}

// RestoreWorkOrder rebuilds a work order from storage and checks the aggregate
// invariants. instances must be ordered by step index.
func RestoreWorkOrder(
	id kernel.UUID,
	number string,
	projectID kernel.UUID,
	instances []*ProcessInstance,
	currentStepIndex int,
	status Status,
	createdAt time.Time,
	version int64,
) (*WorkOrder, error) {
	if err := errors.Join(
		id.Validate(),
		validateNumber(number),
		projectID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	wo := &WorkOrder{
		id:               id,
		number:           number,
		projectID:        projectID,
		instances:        instances,
		currentStepIndex: currentStepIndex,
		status:           status,
		createdAt:        createdAt,
		version:          version,
		isConstructed:    true,
	}
	if err := wo.validateInstances(); err != nil {
		return nil, err
	}
	if derived := wo.deriveStatus(); derived != status {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("stored status %s, instances imply %s", status, derived),
		)
	}

	return wo, nil
}

// Validate ensures the work order was built by a constructor.
func (w *WorkOrder) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWorkOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares work orders by identifier.
func (w *WorkOrder) IsEqual(other *WorkOrder) bool {
	return other != nil && w.id.IsEqual(other.id)
}

func (w *WorkOrder) ID() kernel.UUID {
	return w.id
}

// Number is the human-readable work order number printed on the scan sheet.
func (w *WorkOrder) Number() string {
	return w.number
}

func (w *WorkOrder) ProjectID() kernel.UUID {
	return w.projectID
}

func (w *WorkOrder) CurrentStepIndex() int {
	return w.currentStepIndex
}

func (w *WorkOrder) Status() Status {
	return w.status
}

func (w *WorkOrder) CreatedAt() time.Time {
	return w.createdAt
}

func (w *WorkOrder) Version() int64 {
	return w.version
}

// TotalSteps is the number of instances of this work order.
func (w *WorkOrder) TotalSteps() int {
	return len(w.instances)
}

// Instances returns copies of the instances ordered by step index.
func (w *WorkOrder) Instances() []*ProcessInstance {
	out := make([]*ProcessInstance, len(w.instances))
	for i, pi := range w.instances {
		out[i] = pi.clone()
	}
	return out
}

// Instance returns a copy of the instance at stepIndex.
func (w *WorkOrder) Instance(stepIndex int) (*ProcessInstance, bool) {
	if stepIndex < 0 || stepIndex >= len(w.instances) {
		return nil, false
	}
	return w.instances[stepIndex].clone(), true
}

// CurrentInstance returns the instance at the current step, or the last one
// once the work order is completed.
func (w *WorkOrder) CurrentInstance() *ProcessInstance {
	idx := w.currentStepIndex
	if idx >= len(w.instances) {
		idx = len(w.instances) - 1
	}
	return w.instances[idx].clone()
}

// ApplyTransition performs the start or end transition of the step at
// stepIndex on behalf of operator. Steps move strictly in order: any step
// other than the current one is rejected with ErrOutOfSequence before its own
// status is considered. Rejections leave the work order untouched.
func (w *WorkOrder) ApplyTransition(stepIndex int, kind scantoken.Kind, operator string, at time.Time) (Transition, error) {
	if err := w.Validate(); err != nil {
		return Transition{}, err
	}
	if err := kind.Validate(); err != nil {
		return Transition{}, err
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return Transition{}, errs.NewValueIsRequiredError("operator identity")
	}

	if stepIndex < 0 || stepIndex >= len(w.instances) {
		return Transition{}, newTransitionError(ErrInstanceNotFound, w, stepIndex, Unknown)
	}
	pi := w.instances[stepIndex]
	if stepIndex != w.currentStepIndex {
		return Transition{}, newTransitionError(ErrOutOfSequence, w, stepIndex, pi.status)
	}

	var err error
	switch kind {
	case scantoken.Start:
		err = pi.start(operator, at)
	case scantoken.End:
		err = pi.end(at)
		if err == nil {
			w.currentStepIndex++
		}
	}
	if err != nil {
		return Transition{}, newTransitionError(err, w, stepIndex, pi.status)
	}
	w.status = w.deriveStatus()

	occurred := *pi.startedAt
	if kind == scantoken.End {
		occurred = *pi.endedAt
	}

	return Transition{
		WorkOrderID:      w.id,
		WorkOrderNumber:  w.number,
		ProjectID:        w.projectID,
		StepIndex:        pi.stepIndex,
		StepName:         pi.stepName,
		Kind:             kind,
		Status:           pi.status,
		Operator:         operator,
		At:               occurred,
		WorkOrderStatus:  w.status,
		CurrentStepIndex: w.currentStepIndex,
		TotalSteps:       len(w.instances),
	}, nil
}

// Block takes the step at stepIndex out of the scan flow until Unblock.
func (w *WorkOrder) Block(stepIndex int) error {
	pi, err := w.instanceForAdmin(stepIndex)
	if err != nil {
		return err
	}
	if err = pi.block(); err != nil {
		return newTransitionError(err, w, stepIndex, pi.status)
	}
	w.status = w.deriveStatus()
	return nil
}

// Unblock returns a blocked step to the state it was blocked from.
func (w *WorkOrder) Unblock(stepIndex int) error {
	pi, err := w.instanceForAdmin(stepIndex)
	if err != nil {
		return err
	}
	if err = pi.unblock(); err != nil {
		return newTransitionError(err, w, stepIndex, pi.status)
	}
	w.status = w.deriveStatus()
	return nil
}

func (w *WorkOrder) instanceForAdmin(stepIndex int) (*ProcessInstance, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if stepIndex < 0 || stepIndex >= len(w.instances) {
		return nil, newTransitionError(ErrInstanceNotFound, w, stepIndex, Unknown)
	}
	return w.instances[stepIndex], nil
}

func (w *WorkOrder) deriveStatus() Status {
	if w.currentStepIndex >= len(w.instances) {
		return Completed
	}
	switch current := w.instances[w.currentStepIndex]; {
	case current.status == Blocked:
		return Blocked
	case w.currentStepIndex > 0 || current.status == InProgress:
		return InProgress
	default:
		return Pending
	}
}

func (w *WorkOrder) validateInstances() error {
	if len(w.instances) == 0 {
		return ErrStepsAreRequired
	}
	if w.currentStepIndex < 0 || w.currentStepIndex > len(w.instances) {
		return errs.NewValueIsOutOfRangeError("current step index", w.currentStepIndex, 0, len(w.instances))
	}

	for i, pi := range w.instances {
		if pi == nil {
			return errs.NewValueIsRequiredError(fmt.Sprintf("instance %d", i))
		}
		if pi.stepIndex != i {
			return errs.NewValueIsInvalidErrorWithCause(
				"instances",
				fmt.Errorf("position %d holds step index %d", i, pi.stepIndex),
			)
		}

		var ok bool
		switch {
		case i < w.currentStepIndex:
			ok = pi.status == Completed
		case i == w.currentStepIndex:
			ok = pi.status != Completed
		default:
			ok = pi.status == Pending || (pi.status == Blocked && pi.startedAt == nil)
		}
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(
				"instances",
				fmt.Errorf("step %d is %s while current step is %d", i, pi.status, w.currentStepIndex),
			)
		}
	}
	return nil
}

func issueToken(issue IssueFunc, workOrderID kernel.UUID, stepIndex int, kind scantoken.Kind) (scantoken.Token, error) {
	binding, err := scantoken.NewBinding(workOrderID, stepIndex, kind)
	if err != nil {
		return scantoken.Token{}, err
	}
	token, err := issue(binding)
	if err != nil {
		return scantoken.Token{}, fmt.Errorf("issue %s token for step %d: %w", kind, stepIndex, err)
	}
	if token.IsZero() {
		return scantoken.Token{}, errs.NewValueIsRequiredError("issued token")
	}
	return token, nil
}

func validateNumber(number string) error {
	n := strings.TrimSpace(number)
	if n == "" {
		return errs.NewValueIsRequiredError("work order number")
	}
	if len(n) > maxNumberLength {
		return errs.NewValueIsOutOfRangeError("work order number length", len(n), 1, maxNumberLength)
	}
	return nil
}

func validateStepNames(names []string) error {
	if len(names) == 0 {
		return ErrStepsAreRequired
	}
	var err error
	for _, name := range names {
		err = errors.Join(err, validateStepName(name))
	}
	return err
}
