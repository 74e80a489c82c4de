package ops

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// BatchMatMul is the batched matrix product: output = a @ b, one product per
// batch entry, with a 2-D or batch-1 operand reused across the batch.
//
// Backward pass:
//   - d(A@B)/dA = upstream @ B^T
//   - d(A@B)/dB = A^T @ upstream
//
// Where the forward pass reused an operand across the batch, its gradient is
// summed over the batch axis.
type BatchMatMul struct{}

// NewBatchMatMul creates a BatchMatMul kernel.
func NewBatchMatMul() *BatchMatMul {
	return &BatchMatMul{}
}

// Name returns "BatchMatMul".
func (k *BatchMatMul) Name() string {
	return "BatchMatMul"
}

// Forward computes the batched product.
func (k *BatchMatMul) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].BMM(inputs[1])
}

// Backward computes gradients for the batched product.
func (k *BatchMatMul) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	a, b := inputs[0], inputs[1]

	bT, err := b.Transpose()
	if err != nil {
		return nil, err
	}
	gradA, err := upstream.BMM(bT)
	if err != nil {
		return nil, err
	}
	if gradA, err = reduceBatch(gradA, a.Shape()); err != nil {
		return nil, err
	}

	aT, err := a.Transpose()
	if err != nil {
		return nil, err
	}
	gradB, err := aT.BMM(upstream)
	if err != nil {
		return nil, err
	}
	if gradB, err = reduceBatch(gradB, b.Shape()); err != nil {
		return nil, err
	}

	return []*tensor.Tensor{gradA, gradB}, nil
}
