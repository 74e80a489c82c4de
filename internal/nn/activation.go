package nn

import (
	"github.com/born-ml/ndgraph/internal/autodiff"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct {
	g *autodiff.Graph
}

// NewReLU creates a ReLU module bound to g.
func NewReLU(g *autodiff.Graph) *ReLU {
	return &ReLU{g: g}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(x autodiff.Operand) (*autodiff.Node, error) {
	return r.g.ReLU(x)
}
