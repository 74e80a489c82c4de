package ops

import "github.com/born-ml/ndgraph/internal/tensor"

// Sub is element-wise subtraction with broadcasting: output = a - b.
//
// Backward pass:
//   - d(a-b)/da = 1, so grad_a = upstream
//   - d(a-b)/db = -1, so grad_b = -upstream
type Sub struct{}

// NewSub creates a Sub kernel.
func NewSub() *Sub {
	return &Sub{}
}

// Name returns "Sub".
func (k *Sub) Name() string {
	return "Sub"
}

// Forward computes a - b.
func (k *Sub) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].Sub(inputs[1])
}

// Backward returns upstream for a and its negation for b.
func (k *Sub) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	gradA, err := reduceBroadcast(upstream, inputs[0].Shape())
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(upstream.Neg(), inputs[1].Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{gradA, gradB}, nil
}
