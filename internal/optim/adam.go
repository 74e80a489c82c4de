package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int                  // Timestep for bias correction
	m     map[string][]float64 // First moment estimates
	v     map[string][]float64 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer, filling unset fields with the
// defaults above.
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     make(map[string][]float64),
		v:     make(map[string][]float64),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(g *autodiff.Graph, reg *nn.Registry) error {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, p := range reg.Parameters() {
		grad, value, err := gradientOf(g, p)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		gd := grad.Data()
		m, ok := a.m[p.Name()]
		if !ok || len(m) != len(gd) {
			m = make([]float64, len(gd))
			a.m[p.Name()] = m
		}
		v, ok := a.v[p.Name()]
		if !ok || len(v) != len(gd) {
			v = make([]float64, len(gd))
			a.v[p.Name()] = v
		}

		updated := value.Clone()
		data := updated.Data()
		for i, gi := range gd {
			m[i] = a.beta1*m[i] + (1-a.beta1)*gi
			v[i] = a.beta2*v[i] + (1-a.beta2)*gi*gi
			data[i] -= a.lr * (m[i] / c1) / (math.Sqrt(v[i]/c2) + a.eps)
		}
		if err := p.SetValue(updated); err != nil {
			return fmt.Errorf("adam %s: %w", p.Name(), err)
		}
	}
	return nil
}

// GetLR returns the learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR sets the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}
