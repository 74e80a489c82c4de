package ops

import "github.com/born-ml/ndgraph/internal/tensor"

// ReLU is the rectified linear unit: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0 (including x == 0)
//
// The gradient is upstream multiplied by a mask of where input > 0.
type ReLU struct{}

// NewReLU creates a ReLU kernel.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Name returns "ReLU".
func (k *ReLU) Name() string {
	return "ReLU"
}

// Forward computes max(x, 0).
func (k *ReLU) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 1); err != nil {
		return nil, err
	}
	return inputs[0].MaxFilter(0)
}

// Backward masks upstream by x > 0.
func (k *ReLU) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 1); err != nil {
		return nil, err
	}
	grad, err := upstream.Mul(reluMask(inputs[0]))
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{grad}, nil
}

// reluMask creates a binary mask where input > 0.
func reluMask(input *tensor.Tensor) *tensor.Tensor {
	return input.Map(func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}
