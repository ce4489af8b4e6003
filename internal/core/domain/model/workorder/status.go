package workorder

import (
	"fmt"
	"strings"

	"shopfloor/internal/pkg/errs"
)

// Status is the lifecycle state of a process instance. The same enum carries
// the aggregate status of a work order.
//
// State transitions of an instance:
//
//	Pending ──start──> InProgress ──end──> Completed
//	   │                   │
//	   └──block──> Blocked <┘
//	               (unblock returns to the previous state)
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Pending instances wait for their start scan.
	Pending

	// InProgress instances were started and wait for their end scan.
	InProgress

	// Completed is final for an instance and for a work order.
	Completed

	// Blocked is only reached through an administrative action.
	Blocked
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		InProgress: "in_progress",
		Completed:  "completed",
		Blocked:    "blocked",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		InProgress: "in_progress",
		Completed:  "completed",
		Blocked:    "blocked",
	}
}

// ParseStatus converts the persisted or wire form back to a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getValidStatusStrings() {
		if str == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Start transitions Pending to InProgress.
func (s Status) Start() (Status, error) {
	switch s {
	case Pending:
		return InProgress, nil
	case InProgress:
		return 0, ErrAlreadyStarted
	case Completed:
		return 0, ErrAlreadyCompleted
	default:
		return 0, ErrNotStarted
	}
}

// End transitions InProgress to Completed.
func (s Status) End() (Status, error) {
	switch s {
	case InProgress:
		return Completed, nil
	case Completed:
		return 0, ErrAlreadyCompleted
	default:
		return 0, ErrNotStarted
	}
}

// Block moves a pending or running instance aside.
func (s Status) Block() (Status, error) {
	switch s {
	case Pending, InProgress:
		return Blocked, nil
	case Blocked:
		return 0, ErrAlreadyBlocked
	default:
		return 0, ErrAlreadyCompleted
	}
}
