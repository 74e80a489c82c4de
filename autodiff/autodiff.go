// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over a
// computation graph of tensors.
//
// A Graph is built from leaves (Var, Input, Constant) and kernel nodes
// (Add, MatMul, Softmax, ...). Forward evaluates every node in topological
// order; Backward then propagates gradients from an output to every leaf
// that requires one.
//
// Example:
//
//	g := autodiff.New()
//	x := g.Var("x", tensor.Shape{1})
//	_ = x.SetValue(tensor.Scalar(3))
//	y, _ := g.Mul(x, x)
//
//	_ = g.Forward()        // y = 9
//	_ = g.Backward(y)
//	dx := g.Gradient(x)    // 6
package autodiff

import (
	"github.com/rs/zerolog"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/autodiff/ops"
)

// Graph owns nodes, their edges and the results of the last passes.
type Graph = autodiff.Graph

// Node is a vertex of a Graph: a leaf or a kernel applied to inputs.
type Node = autodiff.Node

// Variable is a leaf node whose value is set by the caller.
type Variable = autodiff.Variable

// NodeID identifies a node within its graph.
type NodeID = autodiff.NodeID

// Operand is anything that can feed a kernel: a *Node or a *Variable.
type Operand = autodiff.Operand

// State tracks which passes have completed.
type State = autodiff.State

// Graph states.
const (
	Uninitialized     = autodiff.Uninitialized
	ForwardEvaluated  = autodiff.ForwardEvaluated
	BackwardEvaluated = autodiff.BackwardEvaluated
)

// Kernel is a differentiable operation, for use with Graph.Apply.
type Kernel = ops.Kernel

// Option configures a Graph.
type Option = autodiff.Option

// Graph errors. All wrap tensor.ErrRuntime.
var (
	ErrCycle       = autodiff.ErrCycle
	ErrUnknownNode = autodiff.ErrUnknownNode
	ErrForeignNode = autodiff.ErrForeignNode
	ErrNoValue     = autodiff.ErrNoValue
)

// New creates an empty graph.
func New(opts ...Option) *Graph {
	return autodiff.New(opts...)
}

// WithLogger sets the logger graph passes report to.
func WithLogger(logger zerolog.Logger) Option {
	return autodiff.WithLogger(logger)
}
