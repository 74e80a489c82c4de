// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Module is anything that maps an operand to a new graph node.
type Module = nn.Module

// Parameter is a named trainable variable.
type Parameter = nn.Parameter

// Registry is an ordered set of named parameters.
type Registry = nn.Registry

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return nn.NewRegistry()
}

// Layers

// Linear represents a fully connected (dense) layer: x·W + b.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization and a
// zero bias, registered as name.weight and name.bias.
//
// Example:
//
//	layer, err := nn.NewLinear(g, reg, "fc", 784, 128, nil)
func NewLinear(g *autodiff.Graph, reg *Registry, name string, inFeatures, outFeatures int, src rand.Source) (*Linear, error) {
	return nn.NewLinear(g, reg, name, inFeatures, outFeatures, src)
}

// ReLU applies max(0, x) element-wise.
type ReLU = nn.ReLU

// NewReLU creates a ReLU activation on g.
func NewReLU(g *autodiff.Graph) *ReLU {
	return nn.NewReLU(g)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// NewMLP stacks Linear layers of the given sizes with ReLU in between.
func NewMLP(g *autodiff.Graph, reg *Registry, name string, sizes []int, src rand.Source) (*Sequential, error) {
	return nn.NewMLP(g, reg, name, sizes, src)
}

// Initialization

// Xavier samples from U(-a, a), a = sqrt(6 / (fanIn + fanOut)).
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) (*tensor.Tensor, error) {
	return nn.Xavier(fanIn, fanOut, shape, src)
}

// He samples from N(0, 2 / fanIn).
func He(fanIn int, shape tensor.Shape, src rand.Source) (*tensor.Tensor, error) {
	return nn.He(fanIn, shape, src)
}

// Helpers

// OneHot encodes labels as a (batch, 1, classes) target tensor.
func OneHot(labels []int, classes int) (*tensor.Tensor, error) {
	return nn.OneHot(labels, classes)
}

// Accuracy returns the fraction of samples whose highest logit matches the label.
func Accuracy(logits *tensor.Tensor, labels []int) (float64, error) {
	return nn.Accuracy(logits, labels)
}
