package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// classifier is an MLP with its inputs and loss wired into one graph.
//
// Architecture for sizes {784, 128, 10}:
//
//	Input (batch, 1, 784) → Linear(784→128) → ReLU → Linear(128→10) → SoftmaxCrossEntropy
type classifier struct {
	g      *autodiff.Graph
	reg    *nn.Registry
	sizes  []int
	x, y   *autodiff.Variable
	logits *autodiff.Node
	loss   *autodiff.Node
}

func newClassifier(logger zerolog.Logger, sizes []int, src rand.Source) (*classifier, error) {
	g := autodiff.New(autodiff.WithLogger(logger))
	reg := nn.NewRegistry()
	model, err := nn.NewMLP(g, reg, "mlp", sizes, src)
	if err != nil {
		return nil, err
	}

	x := g.Input("x", nil)
	y := g.Input("y", nil)
	logits, err := model.Forward(x)
	if err != nil {
		return nil, err
	}
	loss, err := g.SoftmaxCrossEntropy(logits, y)
	if err != nil {
		return nil, err
	}
	return &classifier{g: g, reg: reg, sizes: sizes, x: x, y: y, logits: logits, loss: loss}, nil
}

// forward evaluates the loss and accuracy of a batch shaped (batch, 1, features).
func (c *classifier) forward(features *tensor.Tensor, labels []int) (loss, acc float64, err error) {
	target, err := nn.OneHot(labels, c.sizes[len(c.sizes)-1])
	if err != nil {
		return 0, 0, err
	}
	if err := c.x.SetValue(features); err != nil {
		return 0, 0, err
	}
	if err := c.y.SetValue(target); err != nil {
		return 0, 0, err
	}
	if err := c.g.Forward(); err != nil {
		return 0, 0, err
	}
	if loss, err = c.loss.Value().Item(); err != nil {
		return 0, 0, err
	}
	if acc, err = nn.Accuracy(c.logits.Value(), labels); err != nil {
		return 0, 0, err
	}
	return loss, acc, nil
}

// backward computes parameter gradients for the last forward.
func (c *classifier) backward() error {
	return c.g.Backward(c.loss)
}

// formatSizes and parseSizes carry the layer sizes in checkpoint metadata.
func formatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func parseSizes(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("checkpoint has no layer sizes")
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid layer size %q: %w", p, err)
		}
		sizes[i] = n
	}
	return sizes, nil
}
