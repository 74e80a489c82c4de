package ops

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/internal/tensor"
)

func TestReduceBroadcast(t *testing.T) {
	grad := must.M1(tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))

	tests := []struct {
		name   string
		target tensor.Shape
		want   []float64
	}{
		{"same shape", tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6}},
		{"leading dim", tensor.Shape{3}, []float64{5, 7, 9}},
		{"size-1 row", tensor.Shape{1, 3}, []float64{5, 7, 9}},
		{"size-1 column", tensor.Shape{2, 1}, []float64{6, 15}},
		{"scalar", tensor.Shape{1}, []float64{21}},
		{"all ones", tensor.Shape{1, 1}, []float64{21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reduceBroadcast(grad, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.Shape())
			assert.Equal(t, tt.want, got.Data())
		})
	}

	got := must.M1(reduceBroadcast(grad, nil))
	assert.True(t, got.IsEmpty())
}

func TestReduceBroadcast_DoesNotAlias(t *testing.T) {
	grad := must.M1(tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}))
	got := must.M1(reduceBroadcast(grad, tensor.Shape{2}))
	got.Data()[0] = 99
	assert.Equal(t, 1.0, grad.Data()[0])
}

func TestReduceBatch(t *testing.T) {
	grad := must.M1(tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 1, 2}))

	got := must.M1(reduceBatch(grad, tensor.Shape{1, 2}))
	assert.Equal(t, tensor.Shape{1, 2}, got.Shape())
	assert.Equal(t, []float64{4, 6}, got.Data())

	got = must.M1(reduceBatch(grad, tensor.Shape{1, 1, 2}))
	assert.Equal(t, tensor.Shape{1, 1, 2}, got.Shape())
	assert.Equal(t, []float64{4, 6}, got.Data())

	got = must.M1(reduceBatch(grad, tensor.Shape{2, 1, 2}))
	assert.Same(t, grad, got)
}
