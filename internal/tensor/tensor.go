// Package tensor implements dense n-dimensional float64 arrays (NDArray) with
// NumPy-style broadcasting, axis reductions and batched linear algebra.
//
// Tensors have value semantics: every operation returns a new tensor unless
// its name ends in InPlace. Storage is a flat row-major buffer; strides are
// always derived from the shape and never point into another tensor.
//
// Example:
//
//	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 1, 3})
//	b, _ := tensor.FromSlice([]float64{2, 3, 5}, tensor.Shape{3})
//	c, _ := a.Add(b) // (2,1,3): [3 5 8 6 8 11]
package tensor

import (
	"math"
	"strconv"
	"strings"
)

// Tensor is a dense row-major array of float64 values.
//
// The zero value is the empty tensor: no shape and no elements.
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// New allocates a tensor of the given shape. When init is non-empty its
// values are repeated cyclically to fill the buffer, so New(Shape{2, 2}, 1)
// is a 2×2 tensor of ones.
func New(shape Shape, init ...float64) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	t := &Tensor{}
	t.setShape(shape.Clone())
	t.data = make([]float64, shape.NumElements())
	if len(init) > 0 {
		for i := range t.data {
			t.data[i] = init[i%len(init)]
		}
	}
	return t, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, invalidArgumentf("shape %s requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := &Tensor{}
	t.setShape(shape.Clone())
	t.data = make([]float64, len(data))
	copy(t.data, data)
	return t, nil
}

// Empty returns the empty tensor.
func Empty() *Tensor {
	return &Tensor{}
}

// Scalar returns a tensor of shape (1) holding v.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: Shape{1}, strides: []int{1}, data: []float64{v}}
}

// newUnchecked allocates a zero-filled tensor for a shape already known to be valid.
func newUnchecked(shape Shape) *Tensor {
	t := &Tensor{}
	t.setShape(shape)
	t.data = make([]float64, shape.NumElements())
	return t
}

func (t *Tensor) setShape(shape Shape) {
	t.shape = shape
	t.strides = shape.ComputeStrides()
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Strides returns a copy of the row-major strides.
func (t *Tensor) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)
	return out
}

// Data returns the underlying buffer. Writes through it mutate the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// NumElements returns the number of stored values.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// IsEmpty reports whether the tensor holds no elements.
func (t *Tensor) IsEmpty() bool {
	return t == nil || len(t.data) == 0
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{shape: t.shape.Clone(), strides: t.Strides()}
	if t.data != nil {
		out.data = make([]float64, len(t.data))
		copy(out.data, t.data)
	}
	return out
}

// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() (float64, error) {
	if len(t.data) != 1 {
		return 0, runtimeErrorf("Tensor.Item: tensor %s has %d elements", t.shape, len(t.data))
	}
	return t.data[0], nil
}

func (t *Tensor) offset(op string, index []int) (int, error) {
	if len(index) != len(t.shape) {
		return 0, incompatible(op, Shape(index), t.shape)
	}
	pos := 0
	for i, idx := range index {
		if idx < 0 || idx >= t.shape[i] {
			return 0, runtimeErrorf("%s: index %v out of bounds for shape %s", op, index, t.shape)
		}
		pos += t.strides[i] * idx
	}
	return pos, nil
}

// At returns the value at the given multi-dimensional index.
func (t *Tensor) At(index ...int) (float64, error) {
	pos, err := t.offset("Tensor.At", index)
	if err != nil {
		return 0, err
	}
	return t.data[pos], nil
}

// Set stores value at the given multi-dimensional index.
func (t *Tensor) Set(value float64, index ...int) error {
	pos, err := t.offset("Tensor.Set", index)
	if err != nil {
		return err
	}
	t.data[pos] = value
	return nil
}

// Reshape returns a copy of t with a new shape holding the same number of elements.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(t.data) {
		return nil, incompatible("Tensor.Reshape", t.shape, shape)
	}
	out := t.Clone()
	out.setShape(shape.Clone())
	return out, nil
}

// Squeeze returns a copy of t with the size-1 dimension dim removed.
func (t *Tensor) Squeeze(dim int) (*Tensor, error) {
	if len(t.shape) == 0 || dim < 0 || dim >= len(t.shape) || t.shape[dim] != 1 {
		return nil, runtimeErrorf("cannot squeeze %s at %d", t.shape, dim)
	}
	shape := make(Shape, 0, len(t.shape)-1)
	shape = append(shape, t.shape[:dim]...)
	shape = append(shape, t.shape[dim+1:]...)
	out := t.Clone()
	out.setShape(shape)
	return out, nil
}

// Unsqueeze returns a copy of t with a size-1 dimension inserted at dim.
func (t *Tensor) Unsqueeze(dim int) (*Tensor, error) {
	if dim < 0 || dim > len(t.shape) || (len(t.shape) == 0 && dim != 0) {
		return nil, runtimeErrorf("cannot unsqueeze %s at %d", t.shape, dim)
	}
	shape := make(Shape, 0, len(t.shape)+1)
	shape = append(shape, t.shape[:dim]...)
	shape = append(shape, 1)
	shape = append(shape, t.shape[dim:]...)
	out := t.Clone()
	out.setShape(shape)
	return out, nil
}

// Equal reports whether t and other have the same shape and identical values.
func (t *Tensor) Equal(other *Tensor) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() && other.IsEmpty()
	}
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether t and other have the same shape and every pair of
// values differs by at most tol.
func (t *Tensor) AllClose(other *Tensor, tol float64) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() && other.IsEmpty()
	}
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if math.Abs(v-other.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders the values as nested brackets, one row per line.
func (t *Tensor) String() string {
	if t.IsEmpty() {
		return "[]"
	}
	var b strings.Builder
	pos := 0
	t.format(&b, 0, &pos, 1)
	return b.String()
}

func (t *Tensor) format(b *strings.Builder, dim int, pos *int, level int) {
	b.WriteByte('[')
	last := dim == len(t.shape)-1
	for i := 0; i < t.shape[dim]; i++ {
		if last {
			b.WriteString(strconv.FormatFloat(t.data[*pos], 'g', -1, 64))
			*pos++
			if i != t.shape[dim]-1 {
				b.WriteString(", ")
			}
			continue
		}
		t.format(b, dim+1, pos, level+1)
		if i != t.shape[dim]-1 {
			b.WriteString(",\n")
			b.WriteString(strings.Repeat(" ", level))
		}
	}
	b.WriteByte(']')
}
