package nn

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Parameter is a named trainable variable.
type Parameter struct {
	name     string
	variable *autodiff.Variable
}

// Name returns the parameter name (e.g. "fc.0.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Variable returns the underlying graph variable.
func (p *Parameter) Variable() *autodiff.Variable {
	return p.variable
}

// Value returns the parameter's current value.
func (p *Parameter) Value() *tensor.Tensor {
	return p.variable.Data()
}

// SetValue replaces the parameter's value.
func (p *Parameter) SetValue(t *tensor.Tensor) error {
	return p.variable.SetValue(t)
}

// Registry is an ordered set of parameters, owned by the caller and passed
// explicitly to optimizers and checkpoint code.
//
// Example:
//
//	reg := nn.NewRegistry()
//	fc, _ := nn.NewLinear(g, reg, "fc", 784, 10, nil)
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//	_ = opt.Step(g, reg)
type Registry struct {
	params []*Parameter
	byName map[string]*Parameter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Parameter)}
}

// Register adds v under name. Names must be unique.
func (r *Registry) Register(name string, v *autodiff.Variable) (*Parameter, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: parameter %q: nil variable", tensor.ErrInvalidArgument, name)
	}
	if _, dup := r.byName[name]; dup {
		return nil, fmt.Errorf("%w: parameter %q already registered", tensor.ErrInvalidArgument, name)
	}
	p := &Parameter{name: name, variable: v}
	r.params = append(r.params, p)
	r.byName[name] = p
	return p, nil
}

// Parameters returns the parameters in registration order.
func (r *Registry) Parameters() []*Parameter {
	out := make([]*Parameter, len(r.params))
	copy(out, r.params)
	return out
}

// Get looks a parameter up by name.
func (r *Registry) Get(name string) (*Parameter, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of parameters.
func (r *Registry) Len() int {
	return len(r.params)
}

// NumElements returns the total number of scalar values across parameters.
func (r *Registry) NumElements() int {
	total := 0
	for _, p := range r.params {
		if v := p.Value(); v != nil {
			total += v.NumElements()
		}
	}
	return total
}
