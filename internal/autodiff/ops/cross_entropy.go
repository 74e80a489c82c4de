package ops

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// SoftmaxCrossEntropy is the fused softmax + cross-entropy loss.
//
// Forward:
//
//	Loss = mean over batch of -Σ_i y_i * log_softmax(x)_i
//
// Where log_softmax uses the log-sum-exp trick for numerical stability:
//
//	log_softmax(x) = x - (max(x) + log(Σ exp(x - max(x))))
//
// Backward:
//
//	∂L/∂x = upstream ⊙ (softmax(x) - y) / batch_size
//
// The derivative is cached by Forward; the Jacobian is never materialized.
// The target y is treated as a constant and receives a zero gradient.
//
// Inputs x (logits) and y (target distribution, usually one-hot) must have the
// same row or column vector shape: (1,n), (n,1), (b,1,n) or (b,n,1).
// Output: loss with shape (1).
type SoftmaxCrossEntropy struct {
	derivative *tensor.Tensor
}

// NewSoftmaxCrossEntropy creates a SoftmaxCrossEntropy kernel.
func NewSoftmaxCrossEntropy() *SoftmaxCrossEntropy {
	return &SoftmaxCrossEntropy{}
}

// Name returns "SoftmaxCrossEntropy".
func (k *SoftmaxCrossEntropy) Name() string {
	return "SoftmaxCrossEntropy"
}

// Derivative returns (softmax(x) - y) / batch_size as cached by the last Forward.
func (k *SoftmaxCrossEntropy) Derivative() *tensor.Tensor {
	return k.derivative
}

// Forward computes the mean loss and caches its derivative.
func (k *SoftmaxCrossEntropy) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	x, y := inputs[0], inputs[1]
	if !x.Shape().Equal(y.Shape()) {
		return nil, tensor.NewShapeError("SoftmaxCrossEntropy", x.Shape(), y.Shape())
	}
	o, err := classify("SoftmaxCrossEntropy", x.Shape())
	if err != nil {
		return nil, err
	}

	probs, logProbs, err := softmax(x, o)
	if err != nil {
		return nil, err
	}

	weighted, err := y.Mul(logProbs)
	if err != nil {
		return nil, err
	}
	loss, err := weighted.SumAll()
	if err != nil {
		return nil, err
	}
	loss.ScaleInPlace(-1 / float64(o.batch))

	deriv, err := probs.Sub(y)
	if err != nil {
		return nil, err
	}
	k.derivative = deriv.ScaleInPlace(1 / float64(o.batch))

	return loss, nil
}

// Backward scales the cached derivative by upstream.
func (k *SoftmaxCrossEntropy) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	if k.derivative == nil {
		return nil, ErrNoValue
	}
	grad, err := k.derivative.Mul(upstream)
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{grad, tensor.ZerosLike(inputs[1])}, nil
}
