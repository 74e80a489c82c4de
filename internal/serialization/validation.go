package serialization

import (
	"fmt"
	"strings"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Validation limits for security and resource protection.
const (
	MaxTensorCount   = 100_000 // Maximum number of tensors in a file
	MaxTensorNameLen = 4096    // Maximum tensor name length
	MaxElements      = 1 << 30 // Maximum elements per tensor
)

// ValidateTensorName checks tensor names for path traversal and malicious
// patterns.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty name", Err: ErrInvalidTensorName}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
			Err:     ErrInvalidTensorName,
		}
	}

	// Path traversal prevention.
	if strings.Contains(name, "..") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains '..' (path traversal attempt)",
			Err:     ErrInvalidTensorName,
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains path separator (/ or \\)",
			Err:     ErrInvalidTensorName,
		}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains null byte",
			Err:     ErrInvalidTensorName,
		}
	}
	return nil
}

// ValidateRecord checks a record's name, dtype and that its payload length
// matches its shape.
func ValidateRecord(rec *TensorRecord) error {
	if err := ValidateTensorName(rec.Name); err != nil {
		return err
	}
	shape := tensor.Shape(rec.Shape)
	if err := shape.Validate(); err != nil {
		return &ValidationError{Type: "invalid_shape", Tensor: rec.Name, Details: err.Error(), Err: tensor.ErrInvalidArgument}
	}
	n := shape.NumElements()
	if n > MaxElements {
		return &ValidationError{
			Type:    "too_large",
			Tensor:  rec.Name,
			Details: fmt.Sprintf("%d elements > max %d", n, MaxElements),
			Err:     tensor.ErrInvalidArgument,
		}
	}

	var got int
	switch rec.DType {
	case DTypeFloat64:
		got = len(rec.Data)
	case DTypeFloat16:
		got = len(rec.Half)
	default:
		return &ValidationError{Type: "unknown_dtype", Tensor: rec.Name, Details: rec.DType, Err: tensor.ErrInvalidArgument}
	}
	if got != n {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  rec.Name,
			Details: fmt.Sprintf("shape %v needs %d values, payload has %d", shape, n, got),
			Err:     tensor.ErrIncompatibleShapes,
		}
	}
	return nil
}

// ValidateDocument validates the header version, the tensor count, each
// record and name uniqueness.
func ValidateDocument(doc *Document) error {
	if doc.Header.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Header.FormatVersion)
	}
	if len(doc.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(doc.Tensors), MaxTensorCount),
			Err:     ErrTooManyTensors,
		}
	}
	seen := make(map[string]bool, len(doc.Tensors))
	for i := range doc.Tensors {
		rec := &doc.Tensors[i]
		if err := ValidateRecord(rec); err != nil {
			return err
		}
		if seen[rec.Name] {
			return &ValidationError{Type: "duplicate_name", Tensor: rec.Name, Details: "appears more than once", Err: ErrInvalidTensorName}
		}
		seen[rec.Name] = true
	}
	return nil
}
