package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/tensor"
)

func TestPublicAPI(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	y, err := tensor.Ones(tensor.Shape{1, 3})
	require.NoError(t, err)

	z, err := x.Add(y)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7}, z.Data())

	s, err := z.Sum(tensor.AllAxes, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{27}, s.Data())

	_, err = tensor.NewShape(-1)
	require.ErrorIs(t, err, tensor.ErrInvalidArgument)

	_, err = tensor.CommonShape(tensor.Shape{2}, tensor.Shape{3})
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
	assert.True(t, tensor.Empty().IsEmpty())
}
