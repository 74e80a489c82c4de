package ops

import "github.com/born-ml/ndgraph/internal/tensor"

// Mul is the element-wise (Hadamard) product with broadcasting: output = a ⊙ b.
//
// Backward pass:
//   - d(a⊙b)/da = b, so grad_a = upstream ⊙ b
//   - d(a⊙b)/db = a, so grad_b = upstream ⊙ a
type Mul struct{}

// NewMul creates a Mul kernel.
func NewMul() *Mul {
	return &Mul{}
}

// Name returns "Mul".
func (k *Mul) Name() string {
	return "Mul"
}

// Forward computes a ⊙ b.
func (k *Mul) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].Mul(inputs[1])
}

// Backward computes the product-rule gradients.
func (k *Mul) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return mulGrads(upstream, inputs[0], inputs[1])
}

func mulGrads(upstream, a, b *tensor.Tensor) ([]*tensor.Tensor, error) {
	gradA, err := scaleBy(upstream, b, a.Shape())
	if err != nil {
		return nil, err
	}
	gradB, err := scaleBy(upstream, a, b.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{gradA, gradB}, nil
}
