package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package (and by the graph engine
// built on top of it) wraps exactly one of these, so callers can branch with
// errors.Is.
var (
	// ErrInvalidArgument reports a malformed shape, an unsupported rank or an invalid axis.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIncompatibleShapes reports operand shapes that cannot be reconciled.
	ErrIncompatibleShapes = errors.New("incompatible shapes")

	// ErrRuntime reports structural failures: out-of-bounds access, zero-size
	// reductions, cyclic graphs, unknown nodes.
	ErrRuntime = errors.New("runtime error")
)

// ShapeError provides the operation name and offending shapes for an
// incompatible-shapes failure.
type ShapeError struct {
	Op     string  // Operation that rejected the operands (e.g. "Tensor.MM")
	Shapes []Shape // Shapes involved, in operand order
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrIncompatibleShapes, strings.Join(parts, " vs "))
}

// Unwrap makes errors.Is(err, ErrIncompatibleShapes) hold.
func (e *ShapeError) Unwrap() error {
	return ErrIncompatibleShapes
}

// NewShapeError returns an incompatible-shapes error for op naming the given shapes.
func NewShapeError(op string, shapes ...Shape) error {
	return incompatible(op, shapes...)
}

func incompatible(op string, shapes ...Shape) error {
	cloned := make([]Shape, len(shapes))
	for i, s := range shapes {
		cloned[i] = s.Clone()
	}
	return &ShapeError{Op: op, Shapes: cloned}
}

func runtimeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrRuntime}, args...)...)
}

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
