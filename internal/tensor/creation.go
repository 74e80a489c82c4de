package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) (*Tensor, error) {
	return New(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) (*Tensor, error) {
	return New(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) (*Tensor, error) {
	return New(shape, value)
}

// ZerosLike returns a zero tensor with the shape of t.
func ZerosLike(t *Tensor) *Tensor {
	return newUnchecked(t.shape.Clone())
}

// OnesLike returns a tensor of ones with the shape of t.
func OnesLike(t *Tensor) *Tensor {
	out := newUnchecked(t.shape.Clone())
	for i := range out.data {
		out.data[i] = 1
	}
	return out
}

// Arange returns the 1-D tensor [0, step, 2*step, ...] with n elements.
func Arange(n int, step float64) (*Tensor, error) {
	t, err := New(Shape{n})
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = float64(i) * step
	}
	return t, nil
}

// RandUniform fills a tensor with samples from U(lo, hi) drawn from src.
// A nil src uses a fresh PCG source seeded from the runtime.
func RandUniform(shape Shape, lo, hi float64, src rand.Source) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if lo >= hi {
		return nil, invalidArgumentf("RandUniform: empty interval [%v, %v)", lo, hi)
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	dist := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for i := range t.data {
		t.data[i] = dist.Rand()
	}
	return t, nil
}

// RandNormal fills a tensor with samples from N(mean, std²) drawn from src.
func RandNormal(shape Shape, mean, std float64, src rand.Source) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if std <= 0 {
		return nil, invalidArgumentf("RandNormal: std must be positive, got %v", std)
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: src}
	for i := range t.data {
		t.data[i] = dist.Rand()
	}
	return t, nil
}
