package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// A nil src draws from a randomly seeded source.
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) (*tensor.Tensor, error) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.RandUniform(shape, -bound, bound, src)
}

// He (Kaiming) initialization for weights followed by ReLU: N(0, 2/fan_in).
func He(fanIn int, shape tensor.Shape, src rand.Source) (*tensor.Tensor, error) {
	return tensor.RandNormal(shape, 0, math.Sqrt(2.0/float64(fanIn)), src)
}
