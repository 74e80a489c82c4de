// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read each registered parameter's gradient from the graph after
// Backward and write the updated value back with SetValue. State such as
// velocities is keyed by parameter name.
//
// Example usage:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//
//	for step := range steps {
//	    _ = x.SetValue(batch)
//	    _ = g.Forward()
//	    _ = g.Backward(loss)
//	    _ = opt.Step(g, reg)
//	}
package optim

import (
	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter in reg that received a
	// gradient in the last g.Backward. Parameters without one are skipped.
	Step(g *autodiff.Graph, reg *nn.Registry) error

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR changes the learning rate (for scheduling).
	SetLR(lr float64)
}

// gradientOf returns the parameter's gradient and value, or nil if the
// parameter was not reached by the last backward pass.
func gradientOf(g *autodiff.Graph, p *nn.Parameter) (grad, value *tensor.Tensor, err error) {
	grad = g.Gradient(p.Variable())
	if grad.IsEmpty() {
		return nil, nil, nil
	}
	value = p.Value()
	if value == nil {
		return nil, nil, autodiff.ErrNoValue
	}
	if !grad.Shape().Equal(value.Shape()) {
		return nil, nil, tensor.NewShapeError("optim: "+p.Name(), value.Shape(), grad.Shape())
	}
	return grad, value, nil
}
