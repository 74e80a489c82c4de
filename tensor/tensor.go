// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense row-major float64 array.
type Tensor = tensor.Tensor

// ShapeError reports operands whose shapes an operation cannot combine.
type ShapeError = tensor.ShapeError

// ReduceFunc folds one value into an accumulator.
type ReduceFunc = tensor.ReduceFunc

// Limits and special axes.
const (
	MaxRank = tensor.MaxRank
	AllAxes = tensor.AllAxes
)

// Error kinds. Use errors.Is to classify.
var (
	ErrInvalidArgument    = tensor.ErrInvalidArgument
	ErrIncompatibleShapes = tensor.ErrIncompatibleShapes
	ErrRuntime            = tensor.ErrRuntime
)

// NewShape validates dims and returns them as a Shape.
func NewShape(dims ...int) (Shape, error) {
	return tensor.NewShape(dims...)
}

// CommonShape returns the broadcast shape of a and b.
func CommonShape(a, b Shape) (Shape, error) {
	return tensor.CommonShape(a, b)
}

// New allocates a tensor of the given shape, filled cyclically from init.
func New(shape Shape, init ...float64) (*Tensor, error) {
	return tensor.New(shape, init...)
}

// FromSlice creates a tensor from a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Empty returns the empty tensor.
func Empty() *Tensor {
	return tensor.Empty()
}

// Scalar returns a tensor of shape (1) holding v.
func Scalar(v float64) *Tensor {
	return tensor.Scalar(v)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) (*Tensor, error) {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) (*Tensor, error) {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) (*Tensor, error) {
	return tensor.Full(shape, value)
}

// Arange returns the rank-1 tensor {0, step, 2*step, ...} of length n.
func Arange(n int, step float64) (*Tensor, error) {
	return tensor.Arange(n, step)
}

// RandUniform samples every element from U[lo, hi). A nil src seeds randomly.
func RandUniform(shape Shape, lo, hi float64, src rand.Source) (*Tensor, error) {
	return tensor.RandUniform(shape, lo, hi, src)
}

// RandNormal samples every element from N(mean, std²). A nil src seeds randomly.
func RandNormal(shape Shape, mean, std float64, src rand.Source) (*Tensor, error) {
	return tensor.RandNormal(shape, mean, std, src)
}
