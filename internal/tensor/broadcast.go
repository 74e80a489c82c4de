package tensor

// broadcastStrides returns the strides that read t as if it had shape target:
// dimensions that are being replicated (size 1 in t, or missing on the left)
// get stride 0.
func (t *Tensor) broadcastStrides(target Shape) []int {
	strides := make([]int, len(target))
	offs := len(target) - len(t.shape)
	for i := len(t.shape) - 1; i >= 0; i-- {
		if t.shape[i] == target[i+offs] {
			strides[i+offs] = t.strides[i]
		}
	}
	return strides
}

// canExpandTo reports whether every dimension of s either matches the
// right-aligned dimension of target or is 1.
func (s Shape) canExpandTo(target Shape) bool {
	if len(s) > len(target) {
		return false
	}
	offs := len(target) - len(s)
	for i, dim := range s {
		if dim != target[i+offs] && dim != 1 {
			return false
		}
	}
	return true
}

// Expand materializes t broadcast to shape into a new dense buffer.
// This is the only place broadcasting performs a real copy.
func (t *Tensor) Expand(shape Shape) (*Tensor, error) {
	if t.shape.Equal(shape) {
		return t.Clone(), nil
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if t.IsEmpty() || !t.shape.canExpandTo(shape) {
		return nil, incompatible("Tensor.Expand", t.shape, shape)
	}

	res := newUnchecked(shape.Clone())
	strides := t.broadcastStrides(shape)

	for pos := range res.data {
		src := 0
		rem := pos
		for i := len(shape) - 1; i >= 0; i-- {
			src += (rem % shape[i]) * strides[i]
			rem /= shape[i]
		}
		res.data[pos] = t.data[src]
	}
	return res, nil
}

// ExpandAs is Expand to the shape of other.
func (t *Tensor) ExpandAs(other *Tensor) (*Tensor, error) {
	return t.Expand(other.shape)
}
