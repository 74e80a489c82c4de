package ops

import (
	"math/rand/v2"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// randTensor returns a tensor with deterministic values in [-1, 1).
func randTensor(seed uint64, shape tensor.Shape) *tensor.Tensor {
	return must.M1(tensor.RandUniform(shape, -1, 1, rand.NewPCG(seed, seed+1)))
}

// checkGradients compares k.Backward against central finite differences of
// L = Σ w ⊙ k(inputs) for every input in wrt.
func checkGradients(t *testing.T, k Kernel, inputs []*tensor.Tensor, wrt ...int) {
	t.Helper()

	out := must.M1(k.Forward(inputs))
	w := randTensor(99, out.Shape())

	for _, idx := range wrt {
		shape := inputs[idx].Shape()
		loss := func(x []float64) float64 {
			perturbed := make([]*tensor.Tensor, len(inputs))
			copy(perturbed, inputs)
			perturbed[idx] = must.M1(tensor.FromSlice(x, shape))
			y := must.M1(k.Forward(perturbed))
			return must.M1(must.M1(must.M1(y.Mul(w)).SumAll()).Item())
		}
		x := make([]float64, inputs[idx].NumElements())
		copy(x, inputs[idx].Data())
		numeric := fd.Gradient(nil, loss, x, &fd.Settings{Formula: fd.Central})

		// Re-run Forward on the unperturbed inputs to restore kernel caches.
		must.M1(k.Forward(inputs))
		grads, err := k.Backward(w, inputs)
		require.NoError(t, err)
		require.Len(t, grads, len(inputs))
		require.Equal(t, shape, grads[idx].Shape(), "%s: gradient shape of input %d", k.Name(), idx)
		assert.InDeltaSlice(t, numeric, grads[idx].Data(), 1e-6, "%s: gradient of input %d", k.Name(), idx)
	}
}

func TestAdd_Backward(t *testing.T) {
	tests := []struct {
		name string
		a, b tensor.Shape
	}{
		{"same shape", tensor.Shape{2, 3}, tensor.Shape{2, 3}},
		{"row broadcast", tensor.Shape{2, 3}, tensor.Shape{3}},
		{"column broadcast", tensor.Shape{3, 1}, tensor.Shape{3, 4}},
		{"scalar", tensor.Shape{1}, tensor.Shape{2, 2}},
		{"rank 3", tensor.Shape{2, 1, 3}, tensor.Shape{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := []*tensor.Tensor{randTensor(1, tt.a), randTensor(2, tt.b)}
			checkGradients(t, NewAdd(), inputs, 0, 1)
			checkGradients(t, NewSub(), inputs, 0, 1)
			checkGradients(t, NewMul(), inputs, 0, 1)
		})
	}
}

func TestSub_BackwardNegates(t *testing.T) {
	a := must.M1(tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}))
	up := must.M1(tensor.FromSlice([]float64{3, 4}, tensor.Shape{2}))
	grads := must.M1(NewSub().Backward(up, []*tensor.Tensor{a, a}))
	assert.Equal(t, []float64{3, 4}, grads[0].Data())
	assert.Equal(t, []float64{-3, -4}, grads[1].Data())
}

func TestMul_EmptyOperand(t *testing.T) {
	x := must.M1(tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}))
	k := NewMul()
	out := must.M1(k.Forward([]*tensor.Tensor{tensor.Empty(), x}))
	assert.Equal(t, []float64{0, 0}, out.Data())

	grads := must.M1(k.Backward(tensor.OnesLike(out), []*tensor.Tensor{tensor.Empty(), x}))
	assert.True(t, grads[0].IsEmpty())
	assert.Equal(t, []float64{0, 0}, grads[1].Data())
}

func TestDot_Backward(t *testing.T) {
	shapes := []tensor.Shape{{4}, {1, 4}, {4, 1}, {3, 1, 4}, {3, 4, 1}}
	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			checkGradients(t, NewDot(), []*tensor.Tensor{randTensor(3, s), randTensor(4, s)}, 0, 1)
		})
	}

	t.Run("degrades to mul", func(t *testing.T) {
		checkGradients(t, NewDot(), []*tensor.Tensor{randTensor(5, tensor.Shape{1}), randTensor(6, tensor.Shape{3})}, 0, 1)
	})
}

func TestMatMul_Backward(t *testing.T) {
	inputs := []*tensor.Tensor{randTensor(7, tensor.Shape{2, 3}), randTensor(8, tensor.Shape{3, 4})}
	checkGradients(t, NewMatMul(), inputs, 0, 1)

	_, err := NewMatMul().Forward([]*tensor.Tensor{randTensor(1, tensor.Shape{1, 2}), randTensor(2, tensor.Shape{3, 4})})
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
}

func TestBatchMatMul_Backward(t *testing.T) {
	tests := []struct {
		name string
		a, b tensor.Shape
	}{
		{"2d x 2d", tensor.Shape{2, 3}, tensor.Shape{3, 4}},
		{"3d x 2d", tensor.Shape{5, 2, 3}, tensor.Shape{3, 4}},
		{"2d x 3d", tensor.Shape{2, 3}, tensor.Shape{5, 3, 4}},
		{"3d x 3d", tensor.Shape{5, 2, 3}, tensor.Shape{5, 3, 4}},
		{"batch 1 x 3d", tensor.Shape{1, 2, 3}, tensor.Shape{5, 3, 4}},
		{"row vectors", tensor.Shape{6, 1, 3}, tensor.Shape{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := []*tensor.Tensor{randTensor(9, tt.a), randTensor(10, tt.b)}
			checkGradients(t, NewBatchMatMul(), inputs, 0, 1)
		})
	}
}

func TestReLU(t *testing.T) {
	x := must.M1(tensor.FromSlice([]float64{-1, 0, 2}, tensor.Shape{3}))
	k := NewReLU()

	out := must.M1(k.Forward([]*tensor.Tensor{x}))
	assert.Equal(t, []float64{0, 0, 2}, out.Data())

	grads := must.M1(k.Backward(tensor.OnesLike(x), []*tensor.Tensor{x}))
	assert.Equal(t, []float64{0, 0, 1}, grads[0].Data(), "subgradient at 0 is 0")
}

func TestValue(t *testing.T) {
	v := NewValue(tensor.Shape{2, 2})

	_, err := v.Forward(nil)
	require.ErrorIs(t, err, ErrNoValue)
	require.ErrorIs(t, err, tensor.ErrRuntime)

	require.NoError(t, v.Set(must.M1(tensor.Ones(tensor.Shape{2, 1}))), "broadcast-compatible")
	require.ErrorIs(t, v.Set(must.M1(tensor.Ones(tensor.Shape{3}))), tensor.ErrIncompatibleShapes)

	out := must.M1(v.Forward(nil))
	out.Data()[0] = 42
	assert.Equal(t, 1.0, v.Get().Data()[0], "Forward must hand out a copy")

	grads, err := v.Backward(out, nil)
	require.NoError(t, err)
	assert.Nil(t, grads)
}

func TestArity(t *testing.T) {
	_, err := NewAdd().Forward([]*tensor.Tensor{tensor.Scalar(1)})
	require.ErrorIs(t, err, tensor.ErrInvalidArgument)
}
