package workorder

import (
	"errors"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/pkg/errs"
)

// ProcessInstance is the execution record of one step of a work order. It is
// owned by the WorkOrder aggregate and only mutated through it.
type ProcessInstance struct {
	id        kernel.UUID
	stepIndex int
	stepName  string
	status    Status

	startToken scantoken.Token
	endToken   scantoken.Token

	startedAt *time.Time
	endedAt   *time.Time
	operator  string

	// status before Block, restored by Unblock
	blockedFrom Status
}

// RestoreProcessInstance rebuilds an instance from storage. The timestamps
// must agree with the status: started instances carry startedAt, completed
// ones also carry endedAt.
func RestoreProcessInstance(
	id kernel.UUID,
	stepIndex int,
	stepName string,
	status Status,
	startToken, endToken scantoken.Token,
	startedAt, endedAt *time.Time,
	operator string,
) (*ProcessInstance, error) {
	pi := &ProcessInstance{
		id:         id,
		stepIndex:  stepIndex,
		stepName:   stepName,
		status:     status,
		startToken: startToken,
		endToken:   endToken,
		startedAt:  copyTime(startedAt),
		endedAt:    copyTime(endedAt),
		operator:   operator,
	}
	if status == Blocked {
		pi.blockedFrom = Pending
		if startedAt != nil {
			pi.blockedFrom = InProgress
		}
	}

	if err := errors.Join(
		id.Validate(),
		validateStepName(stepName),
		status.Validate(),
		pi.validateTimestamps(),
	); err != nil {
		return nil, err
	}
	return pi, nil
}

func (p *ProcessInstance) ID() kernel.UUID {
	return p.id
}

func (p *ProcessInstance) StepIndex() int {
	return p.stepIndex
}

func (p *ProcessInstance) StepName() string {
	return p.stepName
}

func (p *ProcessInstance) Status() Status {
	return p.status
}

func (p *ProcessInstance) StartToken() scantoken.Token {
	return p.startToken
}

func (p *ProcessInstance) EndToken() scantoken.Token {
	return p.endToken
}

// StartedAt is nil until the start scan.
func (p *ProcessInstance) StartedAt() *time.Time {
	return copyTime(p.startedAt)
}

// EndedAt is nil until the end scan.
func (p *ProcessInstance) EndedAt() *time.Time {
	return copyTime(p.endedAt)
}

// Operator is the identity of the operator who started this step. End scans
// do not change it.
func (p *ProcessInstance) Operator() string {
	return p.operator
}

// Duration returns end - start for completed instances.
func (p *ProcessInstance) Duration() (time.Duration, bool) {
	if p.status != Completed || p.startedAt == nil || p.endedAt == nil {
		return 0, false
	}
	return p.endedAt.Sub(*p.startedAt), true
}

func (p *ProcessInstance) start(operator string, at time.Time) error {
	next, err := p.status.Start()
	if err != nil {
		return err
	}
	at = kernel.Timestamp(at)
	p.status = next
	p.startedAt = &at
	p.operator = operator
	return nil
}

func (p *ProcessInstance) end(at time.Time) error {
	next, err := p.status.End()
	if err != nil {
		return err
	}
	at = kernel.Timestamp(at)
	if p.startedAt != nil && at.Before(*p.startedAt) {
		at = *p.startedAt
	}
	p.status = next
	p.endedAt = &at
	return nil
}

func (p *ProcessInstance) block() error {
	next, err := p.status.Block()
	if err != nil {
		return err
	}
	p.blockedFrom = p.status
	p.status = next
	return nil
}

func (p *ProcessInstance) unblock() error {
	if p.status != Blocked {
		return ErrNotBlocked
	}
	p.status = p.blockedFrom
	p.blockedFrom = Unknown
	return nil
}

func (p *ProcessInstance) clone() *ProcessInstance {
	c := *p
	c.startedAt = copyTime(p.startedAt)
	c.endedAt = copyTime(p.endedAt)
	return &c
}

func (p *ProcessInstance) validateTimestamps() error {
	switch p.status {
	case InProgress:
		if p.startedAt == nil {
			return errs.NewValueIsRequiredError("startedAt")
		}
	case Completed:
		if p.startedAt == nil || p.endedAt == nil {
			return errs.NewValueIsRequiredError("startedAt and endedAt")
		}
		if p.endedAt.Before(*p.startedAt) {
			return errs.NewValueIsInvalidError("endedAt is before startedAt")
		}
	case Pending:
		if p.startedAt != nil || p.endedAt != nil {
			return errs.NewValueIsInvalidError("pending step has timestamps")
		}
	}
	return nil
}

func validateStepName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("step name")
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
