package scantoken

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"

	"github.com/google/uuid"
)

const maxTokenLength = 128

var (
	// ErrUnknownToken is returned when a scanned token resolves to no binding.
	ErrUnknownToken = errors.New("unknown token")

	// ErrNoUniqueToken is returned when every regeneration attempt collided
	// with a registered token.
	ErrNoUniqueToken = errors.New("no unique token")

	// ErrBindingIsNotConstructed is returned for zero-value bindings.
	ErrBindingIsNotConstructed = errors.New("Binding must be created via NewBinding constructor")
)

// Binding is the (work order, step index, kind) triple a token authorizes.
type Binding struct {
	workOrderID kernel.UUID
	stepIndex   int
	kind        Kind

	guard guard.ConstructorGuard
}

// NewBinding validates and builds a binding.
func NewBinding(workOrderID kernel.UUID, stepIndex int, kind Kind) (Binding, error) {
	if err := errors.Join(
		workOrderID.Validate(),
		validateStepIndex(stepIndex),
		kind.Validate(),
	); err != nil {
		return Binding{}, err
	}

	return Binding{
		workOrderID: workOrderID,
		stepIndex:   stepIndex,
		kind:        kind,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the binding was built by NewBinding.
func (b Binding) Validate() error {
	return b.guard.Validate(ErrBindingIsNotConstructed)
}

func (b Binding) WorkOrderID() kernel.UUID {
	return b.workOrderID
}

func (b Binding) StepIndex() int {
	return b.stepIndex
}

func (b Binding) Kind() Kind {
	return b.kind
}

// IsEqual compares all three components.
func (b Binding) IsEqual(other Binding) bool {
	return b.workOrderID.IsEqual(other.workOrderID) &&
		b.stepIndex == other.stepIndex &&
		b.kind == other.kind
}

func (b Binding) String() string {
	return fmt.Sprintf("%s/%d/%s", b.workOrderID, b.stepIndex, b.kind)
}

// Token is the opaque string printed on a scan sheet.
type Token struct {
	value string
}

// Parse accepts a scanned string as a token. Surrounding whitespace, which
// handheld scanners often append, is removed.
func Parse(s string) (Token, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Token{}, errs.NewValueIsRequiredError("token")
	}
	if len(v) > maxTokenLength {
		return Token{}, errs.NewValueIsOutOfRangeError("token length", len(v), 1, maxTokenLength)
	}
	return Token{value: v}, nil
}

func (t Token) String() string {
	return t.value
}

// IsZero reports whether the token is empty.
func (t Token) IsZero() bool {
	return t.value == ""
}

// Generator derives tokens from a binding plus a random component, so two
// bindings can never share a token and tokens cannot be guessed from the
// printed work order number.
type Generator struct {
	random io.Reader
}

// NewGenerator uses random as the entropy source.
func NewGenerator(random io.Reader) Generator {
	return Generator{random: random}
}

// DefaultGenerator draws from crypto/rand.
func DefaultGenerator() Generator {
	return NewGenerator(rand.Reader)
}

// Generate returns a token of the form
// "<S|E>.<work order hex>.<step index>.<16 hex random>".
func (g Generator) Generate(b Binding) (Token, error) {
	if err := b.Validate(); err != nil {
		return Token{}, err
	}

	random, err := uuid.NewRandomFromReader(g.random)
	if err != nil {
		return Token{}, fmt.Errorf("generate token random part: %w", err)
	}

	return Token{
		value: fmt.Sprintf("%c.%s.%d.%x", b.kind.prefix(), b.workOrderID.Hex(), b.stepIndex, random[:8]),
	}, nil
}

func validateStepIndex(stepIndex int) error {
	if stepIndex < 0 {
		return errs.NewValueIsOutOfRangeError("step index", stepIndex, 0, "step count - 1")
	}
	return nil
}
