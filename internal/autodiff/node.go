package autodiff

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/autodiff/ops"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// NodeID identifies a node within its graph. It is the node's index in the
// graph's arena.
type NodeID int

// Operand is anything that can be fed to a graph builder: a *Node or a
// *Variable.
type Operand interface {
	node() *Node
}

// Node is a vertex of the computation graph wrapping one kernel.
//
// Interior nodes (ops) are created by the Graph builders; leaves are created
// through Var, Constant and Input and are reached through *Variable.
type Node struct {
	id           NodeID
	name         string
	graph        *Graph
	kernel       ops.Kernel
	inputs       []NodeID
	value        *tensor.Tensor
	grads        map[NodeID]*tensor.Tensor // Per-input gradients from the last Backward
	requiresGrad bool
}

func (n *Node) node() *Node {
	return n
}

// ID returns the node's id.
func (n *Node) ID() NodeID {
	return n.id
}

// Name returns the node's name. Interior nodes default to the kernel name.
func (n *Node) Name() string {
	return n.name
}

// Graph returns the owning graph.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Kernel returns the node's kernel.
func (n *Node) Kernel() ops.Kernel {
	return n.kernel
}

// Inputs returns the ids of the node's inputs, in kernel order.
func (n *Node) Inputs() []NodeID {
	out := make([]NodeID, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// IsLeaf reports whether the node has no inputs.
func (n *Node) IsLeaf() bool {
	return len(n.inputs) == 0
}

// Value returns the value computed by the last Forward, or nil.
func (n *Node) Value() *tensor.Tensor {
	return n.value
}

// InputGradient returns the gradient this node's kernel sent to input during
// the last Backward, or nil if it sent none.
func (n *Node) InputGradient(input NodeID) *tensor.Tensor {
	return n.grads[input]
}

// String returns "name#id".
func (n *Node) String() string {
	return fmt.Sprintf("%s#%d", n.name, n.id)
}

// accumulate adds grad into the slot for input.
func (n *Node) accumulate(input NodeID, grad *tensor.Tensor) error {
	if prev, ok := n.grads[input]; ok {
		return prev.AddInPlace(grad)
	}
	n.grads[input] = grad.Clone()
	return nil
}

// Variable is a leaf node whose value is set by the caller.
type Variable struct {
	*Node
	leaf *ops.Value
}

func (v *Variable) node() *Node {
	if v == nil {
		return nil
	}
	return v.Node
}

// SetValue stores a copy of t as the variable's value. t's shape must
// broadcast against the declared shape.
func (v *Variable) SetValue(t *tensor.Tensor) error {
	return v.leaf.Set(t)
}

// Data returns the value last stored with SetValue, or nil.
func (v *Variable) Data() *tensor.Tensor {
	return v.leaf.Get()
}

// Shape returns the declared shape.
func (v *Variable) Shape() tensor.Shape {
	return v.leaf.Shape()
}

// RequiresGrad reports whether Backward records a gradient for v.
func (v *Variable) RequiresGrad() bool {
	return v.requiresGrad
}
