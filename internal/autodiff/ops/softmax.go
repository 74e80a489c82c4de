package ops

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// orientation describes which axis of a vector-shaped input holds the values.
type orientation struct {
	batch int  // Number of vectors
	n     int  // Vector length
	row   bool // Values along the last axis; otherwise along the second to last
}

// axis is the tensor axis softmax normalizes over.
func (o orientation) axis() int {
	if o.row {
		return -1
	}
	return -2
}

// batched returns the (batch, 1, n) or (batch, n, 1) shape used internally.
func (o orientation) batched() tensor.Shape {
	if o.row {
		return tensor.Shape{o.batch, 1, o.n}
	}
	return tensor.Shape{o.batch, o.n, 1}
}

// classify accepts rank 2 or 3 row or column vectors; rows win for (…, 1, 1).
func classify(op string, s tensor.Shape) (orientation, error) {
	rank := len(s)
	if (rank != 2 && rank != 3) || s.NumElements() == 0 {
		return orientation{}, tensor.NewShapeError(op, s)
	}
	batch := 1
	if rank == 3 {
		batch = s[0]
	}
	switch {
	case s.IsRowVector():
		return orientation{batch: batch, n: s[rank-1], row: true}, nil
	case s.IsColumnVector():
		return orientation{batch: batch, n: s[rank-2], row: false}, nil
	default:
		return orientation{}, tensor.NewShapeError(op, s)
	}
}

// softmax computes exp(x - lse(x)) along o's axis, returning the
// probabilities and the log-probabilities.
func softmax(x *tensor.Tensor, o orientation) (probs, logProbs *tensor.Tensor, err error) {
	mx, err := x.Max(o.axis(), true)
	if err != nil {
		return nil, nil, err
	}
	shifted, err := x.Sub(mx)
	if err != nil {
		return nil, nil, err
	}
	sum, err := shifted.Exp().Sum(o.axis(), true)
	if err != nil {
		return nil, nil, err
	}
	logProbs, err = shifted.Sub(sum.LogInPlace())
	if err != nil {
		return nil, nil, err
	}
	return logProbs.Exp(), logProbs, nil
}

// Softmax normalizes a row or column vector (optionally batched) into a
// probability distribution:
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Forward caches the Jacobian of every vector in the batch:
//
//	J[b,i,j] = p_i * (δ_ij - p_j)
//
// Backward multiplies the upstream gradient by J, on the left for row
// vectors and on the right for column vectors (J is symmetric).
//
// Accepted shapes: (1,n), (n,1), (b,1,n), (b,n,1).
type Softmax struct {
	jacobian *tensor.Tensor // (batch, n, n)
}

// NewSoftmax creates a Softmax kernel.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Name returns "Softmax".
func (k *Softmax) Name() string {
	return "Softmax"
}

// Jacobian returns the Jacobian cached by the last Forward, shaped
// (batch, n, n).
func (k *Softmax) Jacobian() *tensor.Tensor {
	return k.jacobian
}

// Forward computes the probabilities and caches the Jacobian.
func (k *Softmax) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	o, err := classify("Softmax", x.Shape())
	if err != nil {
		return nil, err
	}

	probs, _, err := softmax(x, o)
	if err != nil {
		return nil, err
	}

	// J = diag(p) - p pᵀ per batch entry.
	col, err := probs.Reshape(tensor.Shape{o.batch, o.n, 1})
	if err != nil {
		return nil, err
	}
	row, err := probs.Reshape(tensor.Shape{o.batch, 1, o.n})
	if err != nil {
		return nil, err
	}
	outer, err := col.BMM(row)
	if err != nil {
		return nil, err
	}
	jac := outer.Neg()
	p, jd := probs.Data(), jac.Data()
	for b := 0; b < o.batch; b++ {
		for i := 0; i < o.n; i++ {
			jd[b*o.n*o.n+i*o.n+i] += p[b*o.n+i]
		}
	}
	k.jacobian = jac

	return probs, nil
}

// Backward computes upstream · J in the input's orientation.
func (k *Softmax) Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if err := checkArity(k.Name(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	o, err := classify("Softmax", x.Shape())
	if err != nil {
		return nil, err
	}
	if k.jacobian == nil {
		return nil, ErrNoValue
	}

	up, err := upstream.Reshape(o.batched())
	if err != nil {
		return nil, err
	}
	var grad *tensor.Tensor
	if o.row {
		grad, err = up.BMM(k.jacobian)
	} else {
		grad, err = k.jacobian.BMM(up)
	}
	if err != nil {
		return nil, err
	}
	if grad, err = grad.Reshape(x.Shape()); err != nil {
		return nil, err
	}
	return []*tensor.Tensor{grad}, nil
}
