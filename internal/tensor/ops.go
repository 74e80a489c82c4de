package tensor

import (
	"gonum.org/v1/gonum/floats"
)

// Add returns t + other with broadcasting.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	out := t.Clone()
	if err := out.AddInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Sub returns t - other with broadcasting.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	out := t.Clone()
	if err := out.SubInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Mul returns the element-wise product t ⊙ other with broadcasting.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	out := t.Clone()
	if err := out.MulInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInPlace adds other into t. If broadcasting grows the result, t takes
// the common shape.
func (t *Tensor) AddInPlace(other *Tensor) error {
	return t.binaryInPlace("Tensor.Add", other, floats.Add)
}

// SubInPlace subtracts other from t.
func (t *Tensor) SubInPlace(other *Tensor) error {
	return t.binaryInPlace("Tensor.Sub", other, floats.Sub)
}

// MulInPlace multiplies t by other element-wise.
func (t *Tensor) MulInPlace(other *Tensor) error {
	return t.binaryInPlace("Tensor.Mul", other, floats.Mul)
}

// binaryInPlace brings t and other to their common shape and applies fn
// (dst op= src). An empty operand behaves as zeros of the other's shape.
func (t *Tensor) binaryInPlace(op string, other *Tensor, fn func(dst, s []float64)) error {
	if other.IsEmpty() {
		if t.IsEmpty() {
			return nil
		}
		other = ZerosLike(t)
	}
	if t.IsEmpty() {
		*t = *ZerosLike(other)
	}

	if !t.shape.Equal(other.shape) {
		common, err := CommonShape(t.shape, other.shape)
		if err != nil {
			return incompatible(op, t.shape, other.shape)
		}
		if !common.Equal(t.shape) {
			expanded, err := t.Expand(common)
			if err != nil {
				return err
			}
			*t = *expanded
		}
		if other, err = other.Expand(common); err != nil {
			return err
		}
	}

	fn(t.data, other.data)
	return nil
}

// Scale returns c * t.
func (t *Tensor) Scale(c float64) *Tensor {
	out := t.Clone()
	floats.Scale(c, out.data)
	return out
}

// ScaleInPlace multiplies every element of t by c.
func (t *Tensor) ScaleInPlace(c float64) *Tensor {
	floats.Scale(c, t.data)
	return t
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	return t.Scale(-1)
}

// AddScalarInPlace adds c to every element of t.
func (t *Tensor) AddScalarInPlace(c float64) *Tensor {
	floats.AddConst(c, t.data)
	return t
}
