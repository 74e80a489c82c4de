package tensor

import (
	"math"
	"strconv"
	"strings"
)

// MaxRank is the largest number of dimensions a Shape may have.
const MaxRank = 64

// Shape represents the dimensions of a tensor.
//
// An empty Shape describes the empty tensor (no elements). Scalars are
// represented with Shape{1}.
type Shape []int

// NewShape validates dims and returns them as a Shape.
func NewShape(dims ...int) (Shape, error) {
	s := Shape(dims).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the rank is at most MaxRank, that no dimension is
// negative and that the element count fits in an int.
func (s Shape) Validate() error {
	if len(s) > MaxRank {
		return invalidArgumentf("rank %d exceeds maximum rank %d", len(s), MaxRank)
	}
	for i, dim := range s {
		if dim < 0 {
			return invalidArgumentf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	n := 1
	for _, dim := range s {
		if dim == 0 {
			return nil
		}
		if n > math.MaxInt/dim {
			return invalidArgumentf("shape %v: element count overflows int", []int(s))
		}
		n *= dim
	}
	return nil
}

// Size returns the number of dimensions (rank).
func (s Shape) Size() int {
	return len(s)
}

// NumElements returns the product of all dimensions, or 0 for the empty shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// At returns the dimension at index i. Negative indices count from the end,
// so At(-1) is the last dimension.
func (s Shape) At(i int) (int, error) {
	idx, err := s.index(i)
	if err != nil {
		return 0, err
	}
	return s[idx], nil
}

// Dim is At without the bounds error; it returns 0 when i is out of range.
func (s Shape) Dim(i int) int {
	d, err := s.At(i)
	if err != nil {
		return 0
	}
	return d
}

// Swap returns a copy of s with dimensions d1 and d2 exchanged.
func (s Shape) Swap(d1, d2 int) (Shape, error) {
	i, err := s.index(d1)
	if err != nil {
		return nil, err
	}
	j, err := s.index(d2)
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// IsRowVector reports whether s is (N) or (..., 1, N).
func (s Shape) IsRowVector() bool {
	n := len(s)
	if n == 1 {
		return true
	}
	return n >= 2 && s[n-2] == 1
}

// IsColumnVector reports whether s is (..., N, 1).
func (s Shape) IsColumnVector() bool {
	n := len(s)
	return n >= 2 && s[n-1] == 1
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String renders the shape as "(2,1,3)".
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, dim := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(dim))
	}
	b.WriteByte(')')
	return b.String()
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

func (s Shape) index(i int) (int, error) {
	n := len(s)
	if i >= n || i < -n {
		return 0, runtimeErrorf("shape %s: index %d out of bounds", s, i)
	}
	if i < 0 {
		return n + i, nil
	}
	return i, nil
}

// CommonShape implements the broadcasting rules shared by every elementwise op.
//
// Rules:
//  1. Compare shapes element-wise from right to left
//  2. Dimensions are compatible if they are equal or one of them is 1
//  3. Missing leading dimensions are treated as 1
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(2, 1, 3) + (3) → (2, 1, 3)
//	(3, 4) + (3, 5) → error
func CommonShape(a, b Shape) (Shape, error) {
	maxLen := maxInt(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim := 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}

		bDim := 1
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		if aDim != bDim && minInt(aDim, bDim) != 1 {
			return nil, incompatible("CommonShape", a, b)
		}
		result[maxLen-1-i] = maxInt(aDim, bDim)
	}

	return result, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
