package scantoken

import (
	"fmt"
	"strings"

	"shopfloor/internal/pkg/errs"
)

// Kind is the transition a token authorizes on its process instance.
type Kind int

const (
	// UnknownKind catches uninitialized values.
	UnknownKind Kind = iota

	// Start moves a pending instance to in progress.
	Start

	// End moves an in progress instance to completed.
	End
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		UnknownKind: "unknown",
		Start:       "start",
		End:         "end",
	}
}

// ParseKind converts the wire form ("start" or "end", case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return Start, nil
	case "end":
		return End, nil
	default:
		return UnknownKind, errs.NewValueIsInvalidErrorWithCause(
			"transition kind",
			fmt.Errorf("%q is neither start nor end", s),
		)
	}
}

// Validate rejects UnknownKind and out-of-range values.
func (k Kind) Validate() error {
	if k != Start && k != End {
		return errs.NewValueIsInvalidErrorWithCause("transition kind", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// String returns "start", "end" or "unknown".
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) prefix() byte {
	if k == End {
		return 'E'
	}
	return 'S'
}
