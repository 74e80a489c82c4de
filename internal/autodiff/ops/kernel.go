// Package ops defines the kernels evaluated by the computation graph.
//
// A kernel is the forward/backward rule bound to a node. It receives the
// current values of its input nodes and:
//   - Forward: computes the node's value
//   - Backward: maps the upstream gradient to one gradient per input
//
// Kernels never touch the graph. Accumulating gradients across consumers is
// the scheduler's job; a kernel only reports its own contribution.
//
// Supported kernels:
//   - Add, Sub, Mul: element-wise with broadcasting
//   - Dot: row/column vector contraction
//   - MatMul, BatchMatMul: 2-D and batched matrix products
//   - Softmax: orientation-aware softmax with a cached Jacobian
//   - SoftmaxCrossEntropy: fused, numerically stable classification loss
//   - ReLU: rectified linear unit
//   - Value: leaf holding caller-supplied data
package ops

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// ErrNoValue is returned when a leaf is evaluated before a value was set.
var ErrNoValue = fmt.Errorf("%w: variable has no value", tensor.ErrRuntime)

// Kernel is a differentiable operation over a fixed number of inputs.
type Kernel interface {
	// Name identifies the operation in errors and logs (e.g. "MatMul").
	Name() string

	// Forward computes the output from the input values, in input order.
	Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error)

	// Backward returns ∂L/∂input for every input, given ∂L/∂output and the
	// same input values Forward saw. Leaves return nil.
	//
	// Example for Mul:
	//   inputs: [a, b]
	//   upstream: ∂L/∂(a⊙b)
	//   returns: [upstream⊙b, upstream⊙a]
	Backward(upstream *tensor.Tensor, inputs []*tensor.Tensor) ([]*tensor.Tensor, error)
}

// checkArity guards against builder misuse.
func checkArity(name string, inputs []*tensor.Tensor, n int) error {
	if len(inputs) != n {
		return fmt.Errorf("%w: %s expects %d inputs, got %d", tensor.ErrInvalidArgument, name, n, len(inputs))
	}
	return nil
}
