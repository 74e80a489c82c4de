package ops

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// MatMul is the 2-D matrix product: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = upstream @ B^T
//   - d(A@B)/dB = A^T @ upstream
type MatMul struct{}

// NewMatMul creates a MatMul kernel.
func NewMatMul() *MatMul {
	return &MatMul{}
}

// Name returns "MatMul".
func (k *MatMul) Name() string {
	return "MatMul"
}

// Forward computes a @ b.
func (k *MatMul) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].MM(inputs[1])
}

// Backward computes gradients for matrix multiplication.
func (k *MatMul) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	a, b := inputs[0], inputs[1]

	bT, err := b.Transpose()
	if err != nil {
		return nil, err
	}
	gradA, err := upstream.MM(bT)
	if err != nil {
		return nil, err
	}

	aT, err := a.Transpose()
	if err != nil {
		return nil, err
	}
	gradB, err := aT.MM(upstream)
	if err != nil {
		return nil, err
	}

	return []*tensor.Tensor{gradA, gradB}, nil
}
