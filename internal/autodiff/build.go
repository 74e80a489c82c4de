package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/ndgraph/internal/autodiff/ops"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Var adds a trainable leaf of the given declared shape. Backward records
// its gradient.
func (g *Graph) Var(name string, shape tensor.Shape) *Variable {
	return g.leaf(name, shape, true)
}

// Input adds a leaf for data fed each step (features, targets). Backward
// does not record its gradient. An empty shape accepts any value shape.
func (g *Graph) Input(name string, shape tensor.Shape) *Variable {
	return g.leaf(name, shape, false)
}

// Constant adds a leaf holding a copy of value that never requires a gradient.
func (g *Graph) Constant(name string, value *tensor.Tensor) (*Variable, error) {
	if value == nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "Constant %q: nil value", name)
	}
	v := g.leaf(name, value.Shape(), false)
	if err := v.SetValue(value); err != nil {
		return nil, err
	}
	return v, nil
}

func (g *Graph) leaf(name string, shape tensor.Shape, requiresGrad bool) *Variable {
	value := ops.NewValue(shape)
	n := g.register(name, value, nil)
	n.requiresGrad = requiresGrad
	return &Variable{Node: n, leaf: value}
}

// register appends a node to the arena and records its incoming edges.
func (g *Graph) register(name string, kernel ops.Kernel, inputs []NodeID) *Node {
	n := &Node{
		id:     NodeID(len(g.nodes)),
		name:   name,
		graph:  g,
		kernel: kernel,
		inputs: inputs,
		grads:  make(map[NodeID]*tensor.Tensor),
	}
	if n.name == "" {
		n.name = kernel.Name()
	}
	g.nodes = append(g.nodes, n)
	for _, in := range inputs {
		g.adjacency[in] = append(g.adjacency[in], n.id)
	}
	return n
}

// build is the single entry point for interior nodes: it checks every
// operand belongs to g, binds kernel to them and registers the edges.
func build(g *Graph, kernel ops.Kernel, operands ...Operand) (*Node, error) {
	ids := make([]NodeID, len(operands))
	for i, operand := range operands {
		if operand == nil {
			return nil, errors.Wrapf(ErrForeignNode, "%s: operand %d is nil", kernel.Name(), i)
		}
		n := operand.node()
		if n == nil || n.graph != g {
			return nil, errors.Wrapf(ErrForeignNode, "%s: operand %d", kernel.Name(), i)
		}
		ids[i] = n.id
	}
	return g.register("", kernel, ids), nil
}

// Add returns a node computing a + b with broadcasting.
func (g *Graph) Add(a, b Operand) (*Node, error) {
	return build(g, ops.NewAdd(), a, b)
}

// Sub returns a node computing a - b with broadcasting.
func (g *Graph) Sub(a, b Operand) (*Node, error) {
	return build(g, ops.NewSub(), a, b)
}

// Mul returns a node computing a ⊙ b with broadcasting.
func (g *Graph) Mul(a, b Operand) (*Node, error) {
	return build(g, ops.NewMul(), a, b)
}

// Dot returns a node contracting two row or column vectors.
func (g *Graph) Dot(a, b Operand) (*Node, error) {
	return build(g, ops.NewDot(), a, b)
}

// MatMul returns a node computing the 2-D product a @ b.
func (g *Graph) MatMul(a, b Operand) (*Node, error) {
	return build(g, ops.NewMatMul(), a, b)
}

// BatchMatMul returns a node computing the batched product a @ b.
func (g *Graph) BatchMatMul(a, b Operand) (*Node, error) {
	return build(g, ops.NewBatchMatMul(), a, b)
}

// Softmax returns a node normalizing x along its vector axis.
func (g *Graph) Softmax(x Operand) (*Node, error) {
	return build(g, ops.NewSoftmax(), x)
}

// SoftmaxCrossEntropy returns a node computing the mean cross-entropy of
// softmax(x) against the target distribution y.
func (g *Graph) SoftmaxCrossEntropy(x, y Operand) (*Node, error) {
	return build(g, ops.NewSoftmaxCrossEntropy(), x, y)
}

// ReLU returns a node computing max(x, 0).
func (g *Graph) ReLU(x Operand) (*Node, error) {
	return build(g, ops.NewReLU(), x)
}

// Apply adds a node running a custom kernel over operands.
func (g *Graph) Apply(kernel ops.Kernel, operands ...Operand) (*Node, error) {
	if kernel == nil {
		return nil, errors.Wrap(tensor.ErrInvalidArgument, "Apply: nil kernel")
	}
	return build(g, kernel, operands...)
}
