// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built computation graph.
//
// A Graph is an arena of nodes addressed by NodeID. Leaves are Variables
// holding caller-supplied tensors; interior nodes wrap an ops.Kernel bound
// to their inputs. Edges run producer → consumer and are append-only.
//
// Architecture:
//   - Graph: owns nodes, adjacency, the last topological order and leaf gradients
//   - Forward: Kahn's algorithm, evaluating kernels producers-first
//   - Backward: reverse topological walk from an output, summing the
//     contributions of every consumer before a node's own kernel runs
//
// Example:
//
//	g := autodiff.New()
//	x1 := g.Var("x1", tensor.Shape{1})
//	x2 := g.Var("x2", tensor.Shape{1})
//	_ = x1.SetValue(tensor.Scalar(2))
//	_ = x2.SetValue(tensor.Scalar(3))
//	m, _ := g.Mul(x1, x2)
//	z, _ := g.Add(m, x1)
//	_ = g.Forward()    // z = 8
//	_ = g.Backward(z)  // ∂z/∂x1 = 4, ∂z/∂x2 = 2
//	grad := g.Gradient(x1)
//
// A Graph is not safe for concurrent use.
package autodiff

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// State tracks which pass the graph last completed.
type State int

// Graph states.
const (
	Uninitialized State = iota
	ForwardEvaluated
	BackwardEvaluated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case ForwardEvaluated:
		return "ForwardEvaluated"
	case BackwardEvaluated:
		return "BackwardEvaluated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Graph is a computation graph. Create one with New.
type Graph struct {
	id        uuid.UUID
	nodes     []*Node               // Arena; index == NodeID
	adjacency map[NodeID][]NodeID   // Producer → consumers, one entry per edge
	order     []NodeID              // Topological order of the last Forward
	leafGrads map[NodeID]*tensor.Tensor
	state     State
	logger    zerolog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger makes the graph log pass summaries to logger at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:        uuid.New(),
		adjacency: make(map[NodeID][]NodeID),
		leafGrads: make(map[NodeID]*tensor.Tensor),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("graph", g.id.String()).Logger()
	return g
}

// ID returns the graph's unique identifier.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// State returns which pass last completed successfully.
func (g *Graph) State() State {
	return g.state
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns every node in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Consumers returns the ids of the nodes that take id as an input, one entry
// per edge (a node using id twice appears twice).
func (g *Graph) Consumers(id NodeID) []NodeID {
	out := make([]NodeID, len(g.adjacency[id]))
	copy(out, g.adjacency[id])
	return out
}

// Order returns the topological order computed by the last Forward.
func (g *Graph) Order() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// Gradient returns ∂output/∂x accumulated by the last Backward for the leaf
// x, or an empty tensor if x received no gradient (it is not reachable from
// the output, does not require a gradient, or is not a leaf).
//
// The returned tensor is owned by the graph and is replaced on the next
// Backward.
func (g *Graph) Gradient(x Operand) *tensor.Tensor {
	if x == nil {
		return tensor.Empty()
	}
	n := x.node()
	if n == nil || n.graph != g {
		return tensor.Empty()
	}
	if grad, ok := g.leafGrads[n.id]; ok {
		return grad
	}
	return tensor.Empty()
}
