package tensor

import "math"

// logFloor is the value log inputs are clamped to, keeping LogInPlace finite.
const logFloor = math.SmallestNonzeroFloat64

// Map returns a new tensor with fn applied to every element.
func (t *Tensor) Map(fn func(float64) float64) *Tensor {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = fn(v)
	}
	return out
}

// ExpInPlace replaces every element with e^x.
func (t *Tensor) ExpInPlace() *Tensor {
	for i, v := range t.data {
		t.data[i] = math.Exp(v)
	}
	return t
}

// Exp returns e^t.
func (t *Tensor) Exp() *Tensor {
	return t.Clone().ExpInPlace()
}

// LogInPlace replaces every element with its natural logarithm. Inputs are
// floored at the smallest positive float64 so the result never holds -Inf.
func (t *Tensor) LogInPlace() *Tensor {
	for i, v := range t.data {
		t.data[i] = math.Log(math.Max(v, logFloor))
	}
	return t
}

// Log returns log(t) with the same flooring as LogInPlace.
func (t *Tensor) Log() *Tensor {
	return t.Clone().LogInPlace()
}

// RecipInPlace replaces every element with 1/x.
func (t *Tensor) RecipInPlace() error {
	if t.IsEmpty() {
		return runtimeErrorf("Tensor.Recip on zero-size tensor")
	}
	for i, v := range t.data {
		t.data[i] = 1 / v
	}
	return nil
}

// Recip returns 1/t.
func (t *Tensor) Recip() (*Tensor, error) {
	out := t.Clone()
	if err := out.RecipInPlace(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClipInPlace clamps every element into [lo, hi].
func (t *Tensor) ClipInPlace(lo, hi float64) error {
	if t.IsEmpty() {
		return runtimeErrorf("Tensor.Clip on zero-size tensor")
	}
	if lo > hi {
		return invalidArgumentf("Tensor.Clip: lower bound %v above upper bound %v", lo, hi)
	}
	for i, v := range t.data {
		t.data[i] = math.Min(math.Max(v, lo), hi)
	}
	return nil
}

// MaxFilter returns max(t, x) element-wise.
func (t *Tensor) MaxFilter(x float64) (*Tensor, error) {
	if t.IsEmpty() {
		return nil, runtimeErrorf("Tensor.MaxFilter on zero-size tensor")
	}
	return t.Map(func(v float64) float64 {
		if v >= x {
			return v
		}
		return x
	}), nil
}
