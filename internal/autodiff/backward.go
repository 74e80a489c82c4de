package autodiff

import (
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Backward computes the gradient of output with respect to every node that
// precedes it in the last topological order.
//
// Algorithm:
//  1. Clear every kernel's per-input gradients and the leaf gradients
//  2. Seed output with ones of its value's shape (ones of shape (1) for a
//     scalar loss)
//  3. Walk the order backwards from output. A node's upstream gradient is
//     the sum of what each distinct consumer recorded for it; consumers come
//     later in the order and have already run
//  4. Leaves requiring a gradient store the sum in the leaf map; interior
//     nodes pass it to their kernel, which records one gradient per input
//
// Nodes no consumer reached are skipped. Backward requires a successful
// Forward; output must be part of its order. On failure every gradient is
// dropped and the graph returns to ForwardEvaluated.
func (g *Graph) Backward(output Operand) error {
	start := time.Now()
	passesTotal.WithLabelValues(passBackward).Inc()

	err := g.backward(output)
	passDuration.WithLabelValues(passBackward).Observe(time.Since(start).Seconds())
	if err != nil {
		passFailures.WithLabelValues(passBackward).Inc()
		g.leafGrads = make(map[NodeID]*tensor.Tensor)
		for _, n := range g.nodes {
			clear(n.grads)
		}
		g.state = ForwardEvaluated
		g.logger.Debug().Err(err).Msg("backward failed")
		return err
	}

	g.state = BackwardEvaluated
	g.logger.Debug().
		Int("leaves", len(g.leafGrads)).
		Dur("elapsed", time.Since(start)).
		Msg("backward")
	return nil
}

func (g *Graph) backward(output Operand) error {
	if output == nil {
		return errors.Wrap(ErrUnknownNode, "backward: nil output")
	}
	out := output.node()
	if out == nil {
		return errors.Wrap(ErrUnknownNode, "backward: nil output")
	}
	if out.graph != g {
		return errors.Wrapf(ErrForeignNode, "backward %s", out)
	}

	pos := -1
	for i, id := range g.order {
		if id == out.id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return errors.Wrapf(ErrUnknownNode, "backward %s", out)
	}

	for _, n := range g.nodes {
		clear(n.grads)
	}
	g.leafGrads = make(map[NodeID]*tensor.Tensor)

	for i := pos; i >= 0; i-- {
		n := g.nodes[g.order[i]]

		var upstream *tensor.Tensor
		if n == out {
			upstream = tensor.OnesLike(n.value)
		} else {
			var err error
			if upstream, err = g.upstream(n); err != nil {
				return err
			}
			if upstream == nil {
				continue
			}
		}

		if n.IsLeaf() {
			if n.requiresGrad {
				g.leafGrads[n.id] = upstream
			}
			continue
		}

		grads, err := n.kernel.Backward(upstream, g.values(n.inputs))
		if err != nil {
			return errors.WithMessagef(err, "backward %s", n)
		}
		kernelEvaluations.WithLabelValues(n.kernel.Name(), passBackward).Inc()
		if len(grads) != len(n.inputs) {
			return errors.Wrapf(tensor.ErrRuntime, "backward %s: kernel returned %d gradients for %d inputs", n, len(grads), len(n.inputs))
		}
		for j, in := range n.inputs {
			if err := n.accumulate(in, grads[j]); err != nil {
				return errors.WithMessagef(err, "backward %s: accumulate into %s", n, g.nodes[in])
			}
		}
	}
	return nil
}

// upstream sums the gradients n's distinct consumers recorded for it, or
// returns nil if none did.
func (g *Graph) upstream(n *Node) (*tensor.Tensor, error) {
	var sum *tensor.Tensor
	seen := make(map[NodeID]bool, len(g.adjacency[n.id]))
	for _, c := range g.adjacency[n.id] {
		if seen[c] {
			continue
		}
		seen[c] = true

		grad, ok := g.nodes[c].grads[n.id]
		if !ok {
			continue
		}
		if sum == nil {
			sum = grad.Clone()
			continue
		}
		if err := sum.AddInPlace(grad); err != nil {
			return nil, errors.WithMessagef(err, "backward %s: sum consumer gradients", n)
		}
	}
	return sum, nil
}
