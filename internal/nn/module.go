// Package nn builds neural network layers on top of the computation graph.
//
// Layers are graph composers: constructing one creates its parameter
// Variables in a Graph and records them in a caller-owned Registry; calling
// Forward adds the layer's nodes to the graph and returns the output node.
//
// This package provides:
//   - Module interface: anything with Forward(x) → node
//   - Registry, Parameter: ordered, named trainable variables
//   - Linear: fully connected layer over batched row vectors
//   - ReLU: activation module
//   - Sequential, NewMLP: layer stacks
//   - OneHot, Accuracy: classification helpers
package nn

import (
	"github.com/born-ml/ndgraph/internal/autodiff"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    linear1,
//	    nn.NewReLU(g),
//	    linear2,
//	)
type Module interface {
	// Forward adds the module's computation on x to the graph and returns
	// the output node.
	Forward(x autodiff.Operand) (*autodiff.Node, error)
}
