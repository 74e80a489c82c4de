package tensor

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/ndgraph/internal/parallel"
)

// bmmMinWork is the number of multiply-adds below which batch slices are not
// worth a goroutine.
const bmmMinWork = 1 << 15

// gemm computes c = a·b for row-major a (m×n), b (n×k), c (m×k).
// c must be zeroed; degenerate sizes leave it untouched.
func gemm(m, n, k int, a, b, c []float64) {
	if m == 0 || n == 0 || k == 0 {
		return
	}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: a},
		blas64.General{Rows: n, Cols: k, Stride: k, Data: b},
		0,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: c},
	)
}

// MM is the strict 2-D matrix product: (m, n) × (n, k) → (m, k).
func (t *Tensor) MM(other *Tensor) (*Tensor, error) {
	a, b := t.shape, other.shape
	if len(a) != 2 || len(b) != 2 || a[1] != b[0] {
		return nil, incompatible("Tensor.MM", a, b)
	}

	m, n, k := a[0], a[1], b[1]
	res := newUnchecked(Shape{m, k})
	gemm(m, n, k, t.data, other.data, res.data)
	return res, nil
}

// BMM is the batched matrix product. Valid combinations:
//
//	(m, n)    × (n, k)    → (1, m, k)
//	(m, n)    × (b, n, k) → (b, m, k)
//	(b, m, n) × (n, k)    → (b, m, k)
//	(b, m, n) × (b, n, k) → (b, m, k)
//	(1, m, n) × (b, n, k) → (b, m, k), and symmetrically
//
// Each batch slice is an independent MM; a batch of 1 (or a 2-D operand) is
// reused for every output batch.
func (t *Tensor) BMM(other *Tensor) (*Tensor, error) {
	a, b := t.shape, other.shape
	ra, rb := len(a), len(b)

	ok := (ra == 2 || ra == 3) && (rb == 2 || rb == 3) && a[ra-1] == b[rb-2]
	if ok && ra == 3 && rb == 3 {
		ok = a[0] == b[0] || a[0] == 1 || b[0] == 1
	}
	if !ok {
		return nil, incompatible("Tensor.BMM", a, b)
	}

	m, n, k := a[ra-2], a[ra-1], b[rb-1]
	ca, cb := 1, 1
	if ra == 3 {
		ca = a[0]
	}
	if rb == 3 {
		cb = b[0]
	}
	count := maxInt(ca, cb)

	res := newUnchecked(Shape{count, m, k})
	parallel.ForWork(count, m*n*k, bmmMinWork, func(c int) {
		offA, offB := 0, 0
		if ca > 1 {
			offA = c * m * n
		}
		if cb > 1 {
			offB = c * n * k
		}
		gemm(m, n, k,
			t.data[offA:offA+m*n],
			other.data[offB:offB+n*k],
			res.data[c*m*k:(c+1)*m*k])
	}, parallel.DefaultConfig())
	return res, nil
}

// Dot contracts two row- or column-vector shaped tensors of equal shape.
//
// A single-element operand degrades to Mul. Rank-1 operands produce their
// inner product with shape (1). Otherwise both operands must have the same
// shape (..., 1, n) or (..., n, 1) and the result has shape (..., 1) holding
// one inner product per leading index.
func (t *Tensor) Dot(other *Tensor) (*Tensor, error) {
	if len(t.data) == 1 || len(other.data) == 1 {
		return t.Mul(other)
	}

	a, b := t.shape, other.shape
	if len(a) != len(b) || len(a) == 0 || !a.Equal(b) {
		return nil, incompatible("Tensor.Dot", a, b)
	}

	ndim := len(a)
	if ndim == 1 {
		var sum float64
		for i, v := range t.data {
			sum += v * other.data[i]
		}
		return Scalar(sum), nil
	}
	if a[ndim-1] != 1 && a[ndim-2] != 1 {
		return nil, incompatible("Tensor.Dot", a, b)
	}

	shape := dotShape(a)
	stride := a[ndim-1] * a[ndim-2]
	res := newUnchecked(shape)
	for c := range res.data {
		off := c * stride
		var sum float64
		for j := 0; j < stride; j++ {
			sum += t.data[off+j] * other.data[off+j]
		}
		res.data[c] = sum
	}
	return res, nil
}

// dotShape is the result shape of Dot on rank ≥ 2 vectors: the last two
// dimensions collapse into a single trailing 1.
func dotShape(s Shape) Shape {
	out := make(Shape, len(s)-1)
	copy(out, s[:len(s)-2])
	out[len(out)-1] = 1
	return out
}

// Transpose swaps the last two axes, batched over any leading dimensions.
func (t *Tensor) Transpose() (*Tensor, error) {
	if len(t.shape) < 2 {
		return nil, runtimeErrorf("cannot transpose tensor of shape %s", t.shape)
	}
	if t.IsEmpty() {
		return nil, runtimeErrorf("Tensor.Transpose on zero-size tensor")
	}

	i1, i2 := len(t.shape)-2, len(t.shape)-1
	d1, d2 := t.shape[i1], t.shape[i2]
	count := len(t.data) / (d1 * d2)

	shape := t.shape.Clone()
	shape[i1], shape[i2] = d2, d1
	res := newUnchecked(shape)

	for c := 0; c < count; c++ {
		src := t.data[c*d1*d2 : (c+1)*d1*d2]
		dst := res.data[c*d1*d2 : (c+1)*d1*d2]
		for i := 0; i < d1; i++ {
			for j := 0; j < d2; j++ {
				dst[j*d1+i] = src[i*d2+j]
			}
		}
	}
	return res, nil
}
