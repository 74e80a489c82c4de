package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AllAxes tells Reduce and friends to fold the whole tensor.
const AllAxes = math.MinInt

// ReduceFunc folds one value into an accumulator.
type ReduceFunc func(acc, v float64) float64

// reduceLayout splits a tensor around axis into outer × n × inner blocks and
// computes the result shape.
func (t *Tensor) reduceLayout(op string, axis int, keepDims bool) (outer, n, inner int, shape Shape, err error) {
	if t.IsEmpty() {
		return 0, 0, 0, nil, runtimeErrorf("%s on zero-size tensor", op)
	}

	if axis == AllAxes {
		shape = Shape{1}
		if keepDims {
			shape = make(Shape, len(t.shape))
			for i := range shape {
				shape[i] = 1
			}
		}
		return 1, len(t.data), 1, shape, nil
	}

	rank := len(t.shape)
	if axis < -rank || axis >= rank {
		return 0, 0, 0, nil, invalidArgumentf("%s: axis %d out of range for shape %s", op, axis, t.shape)
	}
	if axis < 0 {
		axis += rank
	}

	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= t.shape[i]
	}
	for i := axis + 1; i < rank; i++ {
		inner *= t.shape[i]
	}
	n = t.shape[axis]

	if keepDims {
		shape = t.shape.Clone()
		shape[axis] = 1
	} else {
		shape = make(Shape, 0, rank-1)
		shape = append(shape, t.shape[:axis]...)
		shape = append(shape, t.shape[axis+1:]...)
		if len(shape) == 0 {
			shape = Shape{1}
		}
	}
	return outer, n, inner, shape, nil
}

// Reduce folds t along axis (or every element, with AllAxes) using fn,
// starting each fold from identity. With keepDims the reduced axis stays as
// a dimension of size 1.
func (t *Tensor) Reduce(fn ReduceFunc, axis int, keepDims bool, identity float64) (*Tensor, error) {
	outer, n, inner, shape, err := t.reduceLayout("Tensor.Reduce", axis, keepDims)
	if err != nil {
		return nil, err
	}

	res := newUnchecked(shape)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			acc := identity
			base := o*n*inner + i
			for k := 0; k < n; k++ {
				acc = fn(acc, t.data[base+k*inner])
			}
			res.data[o*inner+i] = acc
		}
	}
	return res, nil
}

// Sum reduces t by addition along axis.
func (t *Tensor) Sum(axis int, keepDims bool) (*Tensor, error) {
	if axis == AllAxes && !t.IsEmpty() && !keepDims {
		return Scalar(floats.Sum(t.data)), nil
	}
	return t.Reduce(func(acc, v float64) float64 { return acc + v }, axis, keepDims, 0)
}

// Max reduces t by maximum along axis.
func (t *Tensor) Max(axis int, keepDims bool) (*Tensor, error) {
	if axis == AllAxes && !t.IsEmpty() && !keepDims {
		return Scalar(floats.Max(t.data)), nil
	}
	return t.Reduce(math.Max, axis, keepDims, math.Inf(-1))
}

// SumAll returns the sum of every element as a (1) tensor.
func (t *Tensor) SumAll() (*Tensor, error) {
	return t.Sum(AllAxes, false)
}

// MaxAll returns the largest element as a (1) tensor.
func (t *Tensor) MaxAll() (*Tensor, error) {
	return t.Max(AllAxes, false)
}

// Argmax returns, for every slice along axis, the index of its maximum.
// Ties resolve to the first occurrence. With AllAxes the flat index is returned.
func (t *Tensor) Argmax(axis int, keepDims bool) (*Tensor, error) {
	outer, n, inner, shape, err := t.reduceLayout("Tensor.Argmax", axis, keepDims)
	if err != nil {
		return nil, err
	}
	if axis == AllAxes {
		res := newUnchecked(shape)
		res.data[0] = float64(floats.MaxIdx(t.data))
		return res, nil
	}

	res := newUnchecked(shape)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*n*inner + i
			best, bestIdx := t.data[base], 0
			for k := 1; k < n; k++ {
				if v := t.data[base+k*inner]; v > best {
					best, bestIdx = v, k
				}
			}
			res.data[o*inner+i] = float64(bestIdx)
		}
	}
	return res, nil
}
