package ops

import "github.com/born-ml/ndgraph/internal/tensor"

// Add is element-wise addition with broadcasting: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = upstream
//   - d(a+b)/db = 1, so grad_b = upstream
//
// Gradients are summed over any axis the forward pass broadcast.
type Add struct{}

// NewAdd creates an Add kernel.
func NewAdd() *Add {
	return &Add{}
}

// Name returns "Add".
func (k *Add) Name() string {
	return "Add"
}

// Forward computes a + b.
func (k *Add) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].Add(inputs[1])
}

// Backward passes upstream through to both inputs.
func (k *Add) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	gradA, err := reduceBroadcast(upstream, inputs[0].Shape())
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(upstream, inputs[1].Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{gradA, gradB}, nil
}
