package autodiff

import (
	"bytes"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/internal/autodiff/ops"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// flakyKernel is the identity whose Backward fails once fail is set.
type flakyKernel struct {
	fail bool
}

func (k *flakyKernel) Name() string { return "Flaky" }

func (k *flakyKernel) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	return inputs[0].Clone(), nil
}

func (k *flakyKernel) Backward(upstream *tensor.Tensor, _ []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if k.fail {
		return nil, tensor.ErrRuntime
	}
	return []*tensor.Tensor{upstream.Clone()}, nil
}

var _ ops.Kernel = (*flakyKernel)(nil)

func scalarVar(t *testing.T, g *Graph, name string, v float64) *Variable {
	t.Helper()
	x := g.Var(name, tensor.Shape{1})
	require.NoError(t, x.SetValue(tensor.Scalar(v)))
	return x
}

// TestGraph_Diamond checks that contributions along two paths are summed.
func TestGraph_Diamond(t *testing.T) {
	g := New()
	x1 := scalarVar(t, g, "x1", 2)
	x2 := scalarVar(t, g, "x2", 3)

	m := must.M1(g.Mul(x1, x2))
	z := must.M1(g.Add(m, x1))

	require.NoError(t, g.Forward())
	assert.Equal(t, ForwardEvaluated, g.State())
	assert.Equal(t, []float64{8}, z.Value().Data())

	require.NoError(t, g.Backward(z))
	assert.Equal(t, BackwardEvaluated, g.State())
	assert.Equal(t, []float64{4}, g.Gradient(x1).Data())
	assert.Equal(t, []float64{2}, g.Gradient(x2).Data())
}

// TestGraph_Chain checks (x1 + x2) * x3.
func TestGraph_Chain(t *testing.T) {
	g := New()
	x1 := scalarVar(t, g, "x1", 3)
	x2 := scalarVar(t, g, "x2", 4)
	x3 := scalarVar(t, g, "x3", 9)

	z := must.M1(g.Mul(must.M1(g.Add(x1, x2)), x3))
	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(z))

	assert.Equal(t, []float64{63}, z.Value().Data())
	assert.Equal(t, []float64{9}, g.Gradient(x1).Data())
	assert.Equal(t, []float64{9}, g.Gradient(x2).Data())
	assert.Equal(t, []float64{7}, g.Gradient(x3).Data())
}

// TestGraph_SquareCountsBothOperands checks mul(x, x) yields 2x, not 4x or x.
func TestGraph_SquareCountsBothOperands(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 5)
	sq := must.M1(g.Mul(x, x))

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(sq))
	assert.Equal(t, []float64{10}, g.Gradient(x).Data())
	assert.Equal(t, []NodeID{sq.ID(), sq.ID()}, g.Consumers(x.ID()))
}

// TestGraph_TopologicalOrder checks every edge goes forward in the order.
func TestGraph_TopologicalOrder(t *testing.T) {
	g := New()
	a := scalarVar(t, g, "a", 1)
	b := scalarVar(t, g, "b", 2)
	c := must.M1(g.Add(a, b))
	d := must.M1(g.Mul(c, a))
	e := must.M1(g.Sub(d, c))
	f := must.M1(g.Add(e, b))
	// Built out of order on purpose: a late leaf feeding an early op chain.
	late := scalarVar(t, g, "late", 3)
	must.M1(g.Mul(f, late))

	require.NoError(t, g.Forward())
	order := g.Order()
	require.Len(t, order, g.Len())

	position := make(map[NodeID]int, len(order))
	for i, id := range order {
		position[id] = i
	}
	for _, n := range g.Nodes() {
		for _, consumer := range g.Consumers(n.ID()) {
			assert.Less(t, position[n.ID()], position[consumer], "%s must precede %s", n, g.Node(consumer))
		}
	}
}

// TestGraph_CycleDetection injects a two-node cycle into the adjacency.
func TestGraph_CycleDetection(t *testing.T) {
	g := New()
	a := scalarVar(t, g, "a", 1)
	b := scalarVar(t, g, "b", 2)
	g.adjacency[a.ID()] = append(g.adjacency[a.ID()], b.ID())
	g.adjacency[b.ID()] = append(g.adjacency[b.ID()], a.ID())

	err := g.Forward()
	require.ErrorIs(t, err, ErrCycle)
	require.ErrorIs(t, err, tensor.ErrRuntime)
	assert.Equal(t, Uninitialized, g.State())
	assert.Empty(t, g.Order())
}

// TestGraph_CycleAmongOps leaves a valid prefix but cycles the tail.
func TestGraph_CycleAmongOps(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 1)
	p := must.M1(g.Add(x, x))
	q := must.M1(g.Add(p, x))
	g.adjacency[q.ID()] = append(g.adjacency[q.ID()], p.ID())

	require.ErrorIs(t, g.Forward(), ErrCycle)
	assert.Nil(t, q.Value(), "no silent partial evaluation")
}

// TestGraph_ForwardIdempotent runs Forward twice on unchanged variables.
func TestGraph_ForwardIdempotent(t *testing.T) {
	g := New()
	x := g.Input("x", tensor.Shape{2, 1, 3})
	w := g.Var("w", tensor.Shape{3, 3})
	require.NoError(t, x.SetValue(must.M1(tensor.FromSlice([]float64{1, -2, 3, 0.5, 0, -1}, tensor.Shape{2, 1, 3}))))
	require.NoError(t, w.SetValue(must.M1(must.M1(tensor.Arange(9, 0.1)).Reshape(tensor.Shape{3, 3}))))

	out := must.M1(g.Softmax(must.M1(g.ReLU(must.M1(g.BatchMatMul(x, w))))))
	require.NoError(t, g.Forward())
	first := out.Value().Clone()
	require.NoError(t, g.Forward())
	assert.True(t, first.Equal(out.Value()))
}

func TestGraph_UnknownNode(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 1)
	y := must.M1(g.Add(x, x))

	require.ErrorIs(t, g.Backward(y), ErrUnknownNode, "no forward yet")

	require.NoError(t, g.Forward())
	late := must.M1(g.Mul(y, x))
	err := g.Backward(late)
	require.ErrorIs(t, err, ErrUnknownNode)
	require.ErrorIs(t, err, tensor.ErrRuntime)
}

func TestGraph_ForeignNode(t *testing.T) {
	g1, g2 := New(), New()
	a := scalarVar(t, g1, "a", 1)
	b := scalarVar(t, g2, "b", 2)

	_, err := g1.Add(a, b)
	require.ErrorIs(t, err, ErrForeignNode)
	assert.Equal(t, 1, g1.Len(), "rejected builds add no node")

	_, err = g1.Mul(a, nil)
	require.ErrorIs(t, err, ErrForeignNode)

	require.NoError(t, g2.Forward())
	require.ErrorIs(t, g1.Backward(b), ErrForeignNode)
	assert.True(t, g1.Gradient(b).IsEmpty())
	assert.NotEqual(t, g1.ID(), g2.ID())
}

func TestGraph_MissingValue(t *testing.T) {
	g := New()
	x := g.Var("x", tensor.Shape{2})
	must.M1(g.ReLU(x))
	err := g.Forward()
	require.ErrorIs(t, err, ErrNoValue)
	assert.Contains(t, err.Error(), "x#0")
}

func TestGraph_ShapeErrorsPropagate(t *testing.T) {
	g := New()
	a := g.Input("a", nil)
	b := g.Input("b", nil)
	require.NoError(t, a.SetValue(must.M1(tensor.Ones(tensor.Shape{1, 2}))))
	require.NoError(t, b.SetValue(must.M1(tensor.Ones(tensor.Shape{3, 4}))))
	must.M1(g.MatMul(a, b))

	err := g.Forward()
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
	assert.Contains(t, err.Error(), "MatMul")
}

func TestVariable_SetValue(t *testing.T) {
	g := New()
	v := g.Var("v", tensor.Shape{2, 3})
	require.NoError(t, v.SetValue(must.M1(tensor.Ones(tensor.Shape{1, 3}))))
	require.ErrorIs(t, v.SetValue(must.M1(tensor.Ones(tensor.Shape{4}))), tensor.ErrIncompatibleShapes)
	assert.Equal(t, tensor.Shape{2, 3}, v.Shape())
	assert.True(t, v.RequiresGrad())
	assert.True(t, v.IsLeaf())
}

func TestGraph_GradientAbsent(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 1)
	unused := scalarVar(t, g, "unused", 2)
	in := g.Input("in", nil)
	require.NoError(t, in.SetValue(tensor.Scalar(4)))
	c := must.M1(g.Constant("c", tensor.Scalar(10)))

	y := must.M1(g.Mul(must.M1(g.Add(x, c)), in))
	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(y))

	assert.Equal(t, []float64{4}, g.Gradient(x).Data())
	assert.True(t, g.Gradient(unused).IsEmpty(), "unreachable")
	assert.True(t, g.Gradient(in).IsEmpty(), "inputs do not require a gradient")
	assert.True(t, g.Gradient(c).IsEmpty(), "constants do not require a gradient")
	assert.True(t, g.Gradient(y).IsEmpty(), "interior nodes have no leaf gradient")
}

// TestGraph_BackwardResets checks gradients are rebuilt, not accumulated,
// across Backward calls.
func TestGraph_BackwardResets(t *testing.T) {
	g := New()
	x1 := scalarVar(t, g, "x1", 2)
	x2 := scalarVar(t, g, "x2", 3)
	m := must.M1(g.Mul(x1, x2))
	z := must.M1(g.Add(m, x1))

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(z))
	require.NoError(t, g.Backward(z))
	assert.Equal(t, []float64{4}, g.Gradient(x1).Data())

	// Backward from an intermediate node ignores consumers later in the order.
	require.NoError(t, g.Backward(m))
	assert.Equal(t, []float64{3}, g.Gradient(x1).Data())
	assert.Nil(t, z.InputGradient(m.ID()))
}

func TestGraph_Logger(t *testing.T) {
	var buf bytes.Buffer
	g := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	x := scalarVar(t, g, "x", 1)
	y := must.M1(g.Add(x, x))

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(y))
	assert.Contains(t, buf.String(), `"message":"forward"`)
	assert.Contains(t, buf.String(), `"message":"backward"`)
	assert.Contains(t, buf.String(), g.ID().String())
}

func TestNode_String(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 1)
	y := must.M1(g.ReLU(x))
	assert.Equal(t, "x#0", x.String())
	assert.Equal(t, "ReLU#1", y.String())
	assert.Equal(t, []NodeID{x.ID()}, y.Inputs())
	assert.Same(t, g, y.Graph())
	assert.Equal(t, "ReLU", y.Kernel().Name())
	assert.Equal(t, "ForwardEvaluated", ForwardEvaluated.String())
}

// TestGraph_BackwardFailureDropsGradients checks a failed Backward leaves no
// gradients from the pass before it.
func TestGraph_BackwardFailureDropsGradients(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 2)
	k := &flakyKernel{}
	sq := must.M1(g.Mul(x, x))
	out := must.M1(g.Apply(k, sq))

	require.NoError(t, g.Forward())
	require.NoError(t, g.Backward(out))
	require.Equal(t, BackwardEvaluated, g.State())
	assert.Equal(t, []float64{4}, g.Gradient(x).Data())

	k.fail = true
	require.ErrorIs(t, g.Backward(out), tensor.ErrRuntime)
	assert.Equal(t, ForwardEvaluated, g.State())
	assert.True(t, g.Gradient(x).IsEmpty())
	assert.Nil(t, out.InputGradient(sq.ID()))

	k.fail = false
	require.NoError(t, g.Backward(out))
	assert.Equal(t, []float64{4}, g.Gradient(x).Data())
}

func TestGraph_GradientNil(t *testing.T) {
	g := New()
	assert.True(t, g.Gradient(nil).IsEmpty())

	var v *Variable
	assert.True(t, g.Gradient(v).IsEmpty())
}

// TestGraph_IsolatedVariableEvaluated checks Forward evaluates every node in
// the graph, including variables nothing consumes.
func TestGraph_IsolatedVariableEvaluated(t *testing.T) {
	g := New()
	x := scalarVar(t, g, "x", 1)
	must.M1(g.ReLU(x))
	g.Var("isolated", tensor.Shape{2})

	require.ErrorIs(t, g.Forward(), ErrNoValue)
	assert.Equal(t, Uninitialized, g.State())
}
