package autodiff

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/autodiff/ops"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Structural errors. All of them wrap tensor.ErrRuntime.
var (
	// ErrCycle means Forward could not order every node: the graph has a cycle.
	ErrCycle = fmt.Errorf("%w: graph contains a cycle", tensor.ErrRuntime)

	// ErrUnknownNode means Backward was asked for a node outside the last
	// topological order.
	ErrUnknownNode = fmt.Errorf("%w: node is not part of the last forward pass", tensor.ErrRuntime)

	// ErrForeignNode means an operand belongs to a different graph.
	ErrForeignNode = fmt.Errorf("%w: node belongs to another graph", tensor.ErrRuntime)

	// ErrNoValue means a leaf was evaluated before SetValue.
	ErrNoValue = ops.ErrNoValue
)
