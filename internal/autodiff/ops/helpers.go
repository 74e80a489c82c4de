package ops

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// reduceBroadcast sums grad down to target, undoing the broadcast done in the
// forward pass.
//
// Example:
//
//	Forward: a(3,1) + b(3,4) -> c(3,4)  (a was broadcast along dim 1)
//	Backward: grad_c(3,4) -> grad_a(3,1) (sum along dim 1)
//
// An empty target (an empty operand acted as zeros) gets an empty gradient.
func reduceBroadcast(grad *tensor.Tensor, target tensor.Shape) (*tensor.Tensor, error) {
	if target.NumElements() == 0 {
		return tensor.Empty(), nil
	}
	gradShape := grad.Shape()
	if gradShape.Equal(target) {
		return grad.Clone(), nil
	}

	var err error
	result := grad

	// Leading dimensions the target never had.
	for len(gradShape) > len(target) {
		if result, err = result.Sum(0, false); err != nil {
			return nil, err
		}
		gradShape = result.Shape()
	}

	// Dimensions the target had as 1.
	for i, dim := range target {
		if dim == 1 && gradShape[i] != 1 {
			if result, err = result.Sum(i, true); err != nil {
				return nil, err
			}
		}
	}

	if !result.Shape().Equal(target) {
		return result.Reshape(target)
	}
	return result, nil
}

// reduceBatch collapses the batch axis of a (count, r, c) gradient to match
// a rank-2 operand or a batch-1 operand of BatchMatMul.
func reduceBatch(grad *tensor.Tensor, target tensor.Shape) (*tensor.Tensor, error) {
	if grad.Shape().Equal(target) {
		return grad, nil
	}
	if len(target) == 2 {
		return grad.Sum(0, false)
	}
	return grad.Sum(0, true)
}

// scaleBy multiplies grad by up and reduces the product back to target.
func scaleBy(up, other *tensor.Tensor, target tensor.Shape) (*tensor.Tensor, error) {
	prod, err := up.Mul(other)
	if err != nil {
		return nil, err
	}
	return reduceBroadcast(prod, target)
}
