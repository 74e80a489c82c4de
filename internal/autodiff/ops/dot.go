package ops

import "github.com/born-ml/ndgraph/internal/tensor"

// Dot contracts two equally shaped row or column vectors: output = a · b.
//
// Backward pass:
//   - d(a·b)/da = b, so grad_a = upstream · b
//   - d(a·b)/db = a, so grad_b = a · upstream
//
// The upstream holds one value per contracted vector; it is broadcast back
// over the vector axis before the element-wise product. When either operand
// has a single element Dot behaves as Mul in both directions.
type Dot struct{}

// NewDot creates a Dot kernel.
func NewDot() *Dot {
	return &Dot{}
}

// Name returns "Dot".
func (k *Dot) Name() string {
	return "Dot"
}

// Forward computes the contraction.
func (k *Dot) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	return inputs[0].Dot(inputs[1])
}

// Backward computes gradients for the contraction.
func (k *Dot) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 2); err != nil {
		return nil, err
	}
	a, b := inputs[0], inputs[1]
	if a.NumElements() == 1 || b.NumElements() == 1 {
		return mulGrads(upstream, a, b)
	}

	// Restore the collapsed vector axis: (..., 1) -> (..., 1, 1).
	up := upstream
	if a.Rank() > 1 {
		var err error
		if up, err = upstream.Unsqueeze(upstream.Rank()); err != nil {
			return nil, err
		}
	}

	gradA, err := scaleBy(up, b, a.Shape())
	if err != nil {
		return nil, err
	}
	gradB, err := scaleBy(up, a, b.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{gradA, gradB}, nil
}
