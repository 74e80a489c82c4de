// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense float64 n-dimensional arrays for ndgraph.
//
// # Overview
//
// Tensors are the values that flow through an autodiff graph. This package provides:
//   - Row-major float64 tensors with value semantics
//   - NumPy-style broadcasting for elementwise operations
//   - Reductions along an axis or over every element (AllAxes)
//   - Matrix, batched matrix and dot products
//
// # Basic Usage
//
//	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	y, _ := tensor.Ones(tensor.Shape{1, 3})
//	z, _ := x.Add(y)           // (2, 3), y broadcast along axis 0
//	s, _ := z.Sum(1, false)     // (2)
//
// # Broadcasting
//
// Shapes are aligned from the trailing dimension; a dimension of 1 stretches
// to match the other operand:
//
//	a := (3, 1)
//	b := (3, 4)
//	a.Add(b) → (3, 4)
//
// The empty tensor (rank 0) acts as zeros of the other operand's shape.
//
// # In-place operations
//
// Methods ending in InPlace modify the receiver. Every other method returns
// a new tensor and leaves its operands untouched.
package tensor
