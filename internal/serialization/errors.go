package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrTooManyTensors     = errors.New("too many tensors in file")
	ErrInvalidTensorName  = errors.New("invalid tensor name")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrMissingTensor      = errors.New("tensor missing from checkpoint")
	ErrUnexpectedTensor   = errors.New("checkpoint tensor not in registry")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "shape_mismatch", "duplicate_name")
	Tensor  string // Tensor name involved
	Details string // Additional details
	Err     error  // Sentinel the failure is classified under, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor != "" {
		return fmt.Sprintf("%s: tensor %q: %s", e.Type, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the sentinel, so errors.Is matches it.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
