package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/autodiff"
	"github.com/born-ml/ndgraph/tensor"
)

func TestPublicAPI_Square(t *testing.T) {
	g := autodiff.New()
	x := g.Var("x", tensor.Shape{1})
	require.NoError(t, x.SetValue(tensor.Scalar(3)))
	y, err := g.Mul(x, x)
	require.NoError(t, err)

	require.NoError(t, g.Forward())
	assert.Equal(t, []float64{9}, y.Value().Data())
	require.NoError(t, g.Backward(y))
	assert.Equal(t, autodiff.BackwardEvaluated, g.State())
	assert.Equal(t, []float64{6}, g.Gradient(x).Data())

	other := autodiff.New()
	require.ErrorIs(t, other.Backward(y), autodiff.ErrForeignNode)
	require.ErrorIs(t, other.Backward(y), tensor.ErrRuntime)
}
