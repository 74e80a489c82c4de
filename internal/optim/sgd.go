package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	opt := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//	err := opt.Step(g, reg)
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[string][]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[string][]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(g *autodiff.Graph, reg *nn.Registry) error {
	for _, p := range reg.Parameters() {
		grad, value, err := gradientOf(g, p)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		step := grad.Data()
		if s.momentum != 0 {
			velocity, ok := s.velocities[p.Name()]
			if !ok || len(velocity) != len(step) {
				velocity = make([]float64, len(step))
				s.velocities[p.Name()] = velocity
			}
			// velocity = momentum * velocity + grad
			floats.Scale(s.momentum, velocity)
			floats.Add(velocity, step)
			step = velocity
		}

		updated := value.Clone()
		floats.AddScaled(updated.Data(), -s.lr, step)
		if err := p.SetValue(updated); err != nil {
			return fmt.Errorf("sgd %s: %w", p.Name(), err)
		}
	}
	return nil
}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR sets the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
