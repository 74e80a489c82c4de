package nn

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// OneHot encodes labels as a (batch, 1, classes) batch of row vectors, the
// target layout SoftmaxCrossEntropy expects for Linear outputs.
func OneHot(labels []int, classes int) (*tensor.Tensor, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("%w: OneHot: classes must be positive, got %d", tensor.ErrInvalidArgument, classes)
	}
	y, err := tensor.Zeros(tensor.Shape{len(labels), 1, classes})
	if err != nil {
		return nil, err
	}
	data := y.Data()
	for b, l := range labels {
		if l < 0 || l >= classes {
			return nil, fmt.Errorf("%w: OneHot: label %d at %d outside [0, %d)", tensor.ErrInvalidArgument, l, b, classes)
		}
		data[b*classes+l] = 1
	}
	return y, nil
}

// Accuracy returns the fraction of rows of logits whose largest entry is at
// the expected label. logits is (batch, 1, classes) or (batch, classes).
func Accuracy(logits *tensor.Tensor, labels []int) (float64, error) {
	pred, err := logits.Argmax(-1, false)
	if err != nil {
		return 0, err
	}
	if pred.NumElements() != len(labels) {
		return 0, tensor.NewShapeError("Accuracy", logits.Shape(), tensor.Shape{len(labels)})
	}
	if len(labels) == 0 {
		return 0, nil
	}
	correct := 0
	for i, p := range pred.Data() {
		if int(p) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(labels)), nil
}
