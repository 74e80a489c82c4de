package ops

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Value is the leaf kernel. It has no inputs; its output is whatever the
// caller last stored with Set.
type Value struct {
	shape tensor.Shape
	value *tensor.Tensor
}

// NewValue creates a leaf with a declared shape. An empty shape accepts
// values of any shape.
func NewValue(shape tensor.Shape) *Value {
	return &Value{shape: shape.Clone()}
}

// Name returns "Value".
func (v *Value) Name() string {
	return "Value"
}

// Shape returns the declared shape.
func (v *Value) Shape() tensor.Shape {
	return v.shape.Clone()
}

// Set stores a copy of t. Its shape must broadcast against the declared shape.
func (v *Value) Set(t *tensor.Tensor) error {
	if t == nil {
		return fmt.Errorf("%w: Value.Set: nil tensor", tensor.ErrInvalidArgument)
	}
	if len(v.shape) > 0 {
		if _, err := tensor.CommonShape(v.shape, t.Shape()); err != nil {
			return tensor.NewShapeError("Value.Set", v.shape, t.Shape())
		}
	}
	v.value = t.Clone()
	return nil
}

// Get returns the stored tensor, or nil if none was set.
func (v *Value) Get() *tensor.Tensor {
	return v.value
}

// Forward returns a copy of the stored value.
func (v *Value) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(v.Name(), inputs, 0); err != nil {
		return nil, err
	}
	if v.value == nil {
		return nil, ErrNoValue
	}
	return v.value.Clone(), nil
}

// Backward returns nil: leaves have no inputs.
func (v *Value) Backward(_ *tensor.Tensor, _ []*tensor.Tensor) ([]*tensor.Tensor, error) {
	return nil, nil
}
