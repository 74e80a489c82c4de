package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x has shape (batch, 1, in) (a batch of row vectors) or (1, in)
//   - W has shape (in, out)
//   - b has shape (1, out) and broadcasts over the batch
//   - y has shape (batch, 1, out)
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	reg := nn.NewRegistry()
//	layer, _ := nn.NewLinear(g, reg, "fc", 784, 128, nil)
//	h, _ := layer.Forward(x) // x: (32, 1, 784) → h: (32, 1, 128)
type Linear struct {
	g           *autodiff.Graph
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// NewLinear creates the layer's variables in g and registers them in reg as
// name.weight and name.bias.
func NewLinear(g *autodiff.Graph, reg *Registry, name string, inFeatures, outFeatures int, src rand.Source) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("%w: Linear %q: features must be positive, got %d→%d",
			tensor.ErrInvalidArgument, name, inFeatures, outFeatures)
	}

	w := g.Var(name+".weight", tensor.Shape{inFeatures, outFeatures})
	wInit, err := Xavier(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, src)
	if err != nil {
		return nil, err
	}
	if err := w.SetValue(wInit); err != nil {
		return nil, err
	}

	b := g.Var(name+".bias", tensor.Shape{1, outFeatures})
	bInit, err := tensor.Zeros(tensor.Shape{1, outFeatures})
	if err != nil {
		return nil, err
	}
	if err := b.SetValue(bInit); err != nil {
		return nil, err
	}

	weight, err := reg.Register(w.Name(), w)
	if err != nil {
		return nil, err
	}
	bias, err := reg.Register(b.Name(), b)
	if err != nil {
		return nil, err
	}

	return &Linear{
		g:           g,
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}, nil
}

// Forward adds x @ W + b to the graph.
func (l *Linear) Forward(x autodiff.Operand) (*autodiff.Node, error) {
	xw, err := l.g.BatchMatMul(x, l.weight.Variable())
	if err != nil {
		return nil, err
	}
	return l.g.Add(xw, l.bias.Variable())
}

// Weight returns the weight parameter (in, out).
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter (1, out).
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the input feature count.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output feature count.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
