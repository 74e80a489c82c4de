// Package dataset loads classification data for training ndgraph models.
//
// A Dataset holds flat feature vectors and integer labels. A Batcher cuts it
// into shuffled mini-batches shaped (batch, 1, features), the batched
// row-vector layout nn.Linear and the softmax cross-entropy loss expect.
package dataset

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Dataset is an in-memory labeled dataset.
type Dataset struct {
	Features [][]float64 // [num_samples][num_features]
	Labels   []int       // [num_samples]
	Classes  int
}

// New validates features and labels and wraps them in a Dataset.
func New(features [][]float64, labels []int, classes int) (*Dataset, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("%w: %d samples but %d labels", tensor.ErrInvalidArgument, len(features), len(labels))
	}
	if classes <= 0 {
		return nil, fmt.Errorf("%w: classes must be positive, got %d", tensor.ErrInvalidArgument, classes)
	}
	width := -1
	for i, f := range features {
		if width >= 0 && len(f) != width {
			return nil, fmt.Errorf("%w: sample %d has %d features, want %d", tensor.ErrInvalidArgument, i, len(f), width)
		}
		width = len(f)
		if labels[i] < 0 || labels[i] >= classes {
			return nil, fmt.Errorf("%w: label out of range [0, %d) at sample %d: %d", tensor.ErrInvalidArgument, classes, i, labels[i])
		}
	}
	return &Dataset{Features: features, Labels: labels, Classes: classes}, nil
}

// NumSamples returns the total number of samples in the dataset.
func (d *Dataset) NumSamples() int {
	return len(d.Features)
}

// NumFeatures returns the length of each feature vector, 0 for an empty
// dataset.
func (d *Dataset) NumFeatures() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Split splits the dataset into train and validation sets.
//
// Parameters:
//   - validationRatio: Fraction of data to use for validation (e.g., 0.2 for 20%)
//
// Returns:
//   - trainData, validationData
func (d *Dataset) Split(validationRatio float64) (*Dataset, *Dataset) {
	splitIdx := int(float64(d.NumSamples()) * (1.0 - validationRatio))
	splitIdx = max(0, min(splitIdx, d.NumSamples()))

	return &Dataset{
			Features: d.Features[:splitIdx],
			Labels:   d.Labels[:splitIdx],
			Classes:  d.Classes,
		}, &Dataset{
			Features: d.Features[splitIdx:],
			Labels:   d.Labels[splitIdx:],
			Classes:  d.Classes,
		}
}
