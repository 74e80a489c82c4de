package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Batch represents a mini-batch for training.
type Batch struct {
	Features *tensor.Tensor // (size, 1, num_features)
	Labels   []int
	Size     int
}

// Batcher iterates over a dataset in mini-batches.
//
// Example:
//
//	b, _ := dataset.NewBatcher(data, 64, true, rand.NewPCG(1, 2))
//	for epoch := range epochs {
//	    b.Reset()
//	    for batch, ok := b.Next(); ok; batch, ok = b.Next() {
//	        ...
//	    }
//	}
type Batcher struct {
	data    *Dataset
	size    int
	shuffle bool
	rng     *rand.Rand
	indices []int
	pos     int
}

// NewBatcher creates a batcher yielding batches of at most size samples.
// The last batch of an epoch may be smaller. With shuffle set, the sample
// order is permuted on every Reset; src may be nil for a random seed.
func NewBatcher(data *Dataset, size int, shuffle bool, src rand.Source) (*Batcher, error) {
	if data == nil || size <= 0 {
		return nil, fmt.Errorf("%w: batcher needs a dataset and a positive batch size, got %d", tensor.ErrInvalidArgument, size)
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	indices := make([]int, data.NumSamples())
	for i := range indices {
		indices[i] = i
	}
	b := &Batcher{data: data, size: size, shuffle: shuffle, rng: rand.New(src), indices: indices}
	b.Reset()
	return b, nil
}

// Reset starts a new epoch.
func (b *Batcher) Reset() {
	b.pos = 0
	if b.shuffle {
		b.rng.Shuffle(len(b.indices), func(i, j int) {
			b.indices[i], b.indices[j] = b.indices[j], b.indices[i]
		})
	}
}

// NumBatches returns the number of batches per epoch.
func (b *Batcher) NumBatches() int {
	return (len(b.indices) + b.size - 1) / b.size
}

// Next returns the next batch of the epoch, or false once it is exhausted.
func (b *Batcher) Next() (*Batch, bool) {
	if b.pos >= len(b.indices) {
		return nil, false
	}
	end := min(b.pos+b.size, len(b.indices))
	n := end - b.pos
	features := b.data.NumFeatures()

	flat := make([]float64, n*features)
	labels := make([]int, n)
	for i, idx := range b.indices[b.pos:end] {
		copy(flat[i*features:(i+1)*features], b.data.Features[idx])
		labels[i] = b.data.Labels[idx]
	}
	b.pos = end

	t, err := tensor.FromSlice(flat, tensor.Shape{n, 1, features})
	if err != nil {
		// Shapes are derived from validated data.
		panic(err)
	}
	return &Batch{Features: t, Labels: labels, Size: n}, true
}
