package dataset

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Synthetic generates n samples of Gaussian blobs, one blob per class.
//
// Class centers are drawn uniformly from [-3, 3] in every feature and
// samples scatter around them with unit variance, so classes overlap only a
// little. Labels cycle through the classes. The same seed yields the same
// dataset.
func Synthetic(n, features, classes int, seed uint64) (*Dataset, error) {
	if n < 0 || features <= 0 || classes <= 0 {
		return nil, fmt.Errorf("%w: synthetic dataset needs n >= 0, features > 0, classes > 0 (got %d, %d, %d)",
			tensor.ErrInvalidArgument, n, features, classes)
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	center := distuv.Uniform{Min: -3, Max: 3, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, features)
		for j := range centers[c] {
			centers[c][j] = center.Rand()
		}
	}

	data := make([][]float64, n)
	labels := make([]int, n)
	for i := range data {
		label := i % classes
		labels[i] = label
		data[i] = make([]float64, features)
		for j := range data[i] {
			data[i][j] = centers[label][j] + noise.Rand()
		}
	}
	return New(data, labels, classes)
}
