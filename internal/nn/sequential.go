package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(l1, nn.NewReLU(g), l2)
//	logits, err := model.Forward(x)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(x autodiff.Operand) (*autodiff.Node, error) {
	if len(s.modules) == 0 {
		return nil, fmt.Errorf("%w: empty Sequential", tensor.ErrInvalidArgument)
	}
	var out *autodiff.Node
	input := x
	for i, m := range s.modules {
		var err error
		if out, err = m.Forward(input); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		input = out
	}
	return out, nil
}

// Modules returns the modules in order.
func (s *Sequential) Modules() []Module {
	return s.modules
}

// NewMLP builds Linear layers of the given sizes with ReLU between them and
// no activation after the last. sizes = {784, 128, 10} gives two layers named
// name.0 and name.1.
func NewMLP(g *autodiff.Graph, reg *Registry, name string, sizes []int, src rand.Source) (*Sequential, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: NewMLP needs at least two sizes, got %v", tensor.ErrInvalidArgument, sizes)
	}
	var modules []Module
	for i := 0; i+1 < len(sizes); i++ {
		l, err := NewLinear(g, reg, fmt.Sprintf("%s.%d", name, i), sizes[i], sizes[i+1], src)
		if err != nil {
			return nil, err
		}
		modules = append(modules, l)
		if i+2 < len(sizes) {
			modules = append(modules, NewReLU(g))
		}
	}
	return NewSequential(modules...), nil
}
