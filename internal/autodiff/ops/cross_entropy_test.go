package ops

import (
	"math"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// oneHot builds a (batch, 1, classes) target with 1 at each label.
func oneHot(labels []int, classes int) *tensor.Tensor {
	y := must.M1(tensor.Zeros(tensor.Shape{len(labels), 1, classes}))
	for b, l := range labels {
		y.Data()[b*classes+l] = 1
	}
	return y
}

func TestSoftmax_RowsSumToOne(t *testing.T) {
	shapes := []tensor.Shape{{1, 5}, {5, 1}, {4, 1, 5}, {4, 5, 1}}
	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			x := randTensor(11, s).ScaleInPlace(10)
			p := must.M1(NewSoftmax().Forward([]*tensor.Tensor{x}))
			require.Equal(t, s, p.Shape())

			axis := -1
			if !s.IsRowVector() {
				axis = -2
			}
			sums := must.M1(p.Sum(axis, false))
			for _, v := range sums.Data() {
				assert.InDelta(t, 1.0, v, 1e-12)
			}
		})
	}
}

func TestSoftmax_StableForLargeInputs(t *testing.T) {
	x := must.M1(tensor.FromSlice([]float64{1000, 1001, 1002}, tensor.Shape{1, 3}))
	p := must.M1(NewSoftmax().Forward([]*tensor.Tensor{x}))
	for _, v := range p.Data() {
		assert.False(t, math.IsNaN(v))
	}
	assert.InDelta(t, 1.0, floats.Sum(p.Data()), 1e-12)
}

func TestSoftmax_Jacobian(t *testing.T) {
	x := must.M1(tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}))
	k := NewSoftmax()
	p := must.M1(k.Forward([]*tensor.Tensor{x})).Data()

	jac := k.Jacobian()
	require.Equal(t, tensor.Shape{1, 3, 3}, jac.Shape())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := -p[i] * p[j]
			if i == j {
				want = p[i] * (1 - p[i])
			}
			assert.InDelta(t, want, must.M1(jac.At(0, i, j)), 1e-15, "J[%d,%d]", i, j)
		}
	}
}

func TestSoftmax_Backward(t *testing.T) {
	shapes := []tensor.Shape{{1, 4}, {4, 1}, {3, 1, 4}, {3, 4, 1}}
	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			checkGradients(t, NewSoftmax(), []*tensor.Tensor{randTensor(12, s)}, 0)
		})
	}
}

func TestSoftmax_RejectsMatrices(t *testing.T) {
	for _, s := range []tensor.Shape{{2, 3}, {3}, {2, 2, 3}, {1, 1, 1, 3}} {
		_, err := NewSoftmax().Forward([]*tensor.Tensor{must.M1(tensor.Ones(s))})
		assert.ErrorIs(t, err, tensor.ErrIncompatibleShapes, "shape %s", s)
	}
}

func TestSoftmaxCrossEntropy_Loss(t *testing.T) {
	// Uniform logits: loss = log(classes) for any one-hot target.
	x := must.M1(tensor.Zeros(tensor.Shape{2, 1, 4}))
	y := oneHot([]int{1, 3}, 4)
	loss := must.M1(NewSoftmaxCrossEntropy().Forward([]*tensor.Tensor{x, y}))
	require.Equal(t, tensor.Shape{1}, loss.Shape())
	assert.InDelta(t, math.Log(4), loss.Data()[0], 1e-12)
}

func TestSoftmaxCrossEntropy_DerivativeMatchesFiniteDifferences(t *testing.T) {
	shapes := []tensor.Shape{{3, 1, 5}, {3, 5, 1}, {1, 5}}
	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			x := randTensor(13, s).ScaleInPlace(3)
			batch := 1
			if len(s) == 3 {
				batch = s[0]
			}
			labels := make([]int, batch)
			for b := range labels {
				labels[b] = (2 * b) % 5
			}
			y := must.M1(oneHot(labels, 5).Reshape(s))

			k := NewSoftmaxCrossEntropy()
			must.M1(k.Forward([]*tensor.Tensor{x, y}))

			// (softmax(x) - y) / batch
			p := must.M1(NewSoftmax().Forward([]*tensor.Tensor{x}))
			want := must.M1(p.Sub(y)).ScaleInPlace(1 / float64(batch))
			assert.InDeltaSlice(t, want.Data(), k.Derivative().Data(), 1e-12)

			loss := func(v []float64) float64 {
				xv := must.M1(tensor.FromSlice(v, s))
				return must.M1(must.M1(NewSoftmaxCrossEntropy().Forward([]*tensor.Tensor{xv, y})).Item())
			}
			v := make([]float64, x.NumElements())
			copy(v, x.Data())
			numeric := fd.Gradient(nil, loss, v, &fd.Settings{Formula: fd.Central})
			assert.InDeltaSlice(t, numeric, k.Derivative().Data(), 1e-6)

			grads := must.M1(k.Backward(tensor.Scalar(2), []*tensor.Tensor{x, y}))
			assert.InDeltaSlice(t, must.M1(k.Derivative().Mul(tensor.Scalar(2))).Data(), grads[0].Data(), 1e-15)
			assert.Equal(t, make([]float64, y.NumElements()), grads[1].Data(), "targets get no gradient")
		})
	}
}

func TestSoftmaxCrossEntropy_ShapeMismatch(t *testing.T) {
	_, err := NewSoftmaxCrossEntropy().Forward([]*tensor.Tensor{
		must.M1(tensor.Zeros(tensor.Shape{2, 1, 4})),
		must.M1(tensor.Zeros(tensor.Shape{2, 1, 3})),
	})
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)

	_, err = NewSoftmaxCrossEntropy().Backward(tensor.Scalar(1), []*tensor.Tensor{tensor.Scalar(0), tensor.Scalar(0)})
	require.ErrorIs(t, err, ErrNoValue)
}
