package autodiff

import (
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Forward evaluates every node, producers before consumers.
//
// Algorithm (Kahn):
//  1. Count incoming edges of every node from the adjacency
//  2. Seed a queue with the zero in-degree nodes, in id order
//  3. Pop a node, append it to the order, release its consumers
//  4. If fewer nodes were ordered than exist, the graph has a cycle
//
// Kernels then run in that order. Forward may be called any number of times;
// with unchanged variables it reproduces the same values. On failure the
// previous order is discarded and the graph returns to Uninitialized.
func (g *Graph) Forward() error {
	start := time.Now()
	passesTotal.WithLabelValues(passForward).Inc()

	err := g.forward()
	passDuration.WithLabelValues(passForward).Observe(time.Since(start).Seconds())
	if err != nil {
		passFailures.WithLabelValues(passForward).Inc()
		g.order = nil
		g.state = Uninitialized
		g.logger.Debug().Err(err).Msg("forward failed")
		return err
	}

	graphNodes.Set(float64(len(g.nodes)))
	g.state = ForwardEvaluated
	g.logger.Debug().
		Int("nodes", len(g.nodes)).
		Dur("elapsed", time.Since(start)).
		Msg("forward")
	return nil
}

func (g *Graph) forward() error {
	order, err := g.topologicalOrder()
	if err != nil {
		return err
	}
	for _, id := range order {
		n := g.nodes[id]
		value, err := n.kernel.Forward(g.values(n.inputs))
		if err != nil {
			return errors.WithMessagef(err, "forward %s", n)
		}
		kernelEvaluations.WithLabelValues(n.kernel.Name(), passForward).Inc()
		n.value = value
	}
	g.order = order
	return nil
}

// topologicalOrder runs Kahn's algorithm over the adjacency.
func (g *Graph) topologicalOrder() ([]NodeID, error) {
	inDegree := make([]int, len(g.nodes))
	for _, consumers := range g.adjacency {
		for _, c := range consumers {
			inDegree[c]++
		}
	}

	queue := make([]NodeID, 0, len(g.nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, NodeID(id))
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, c := range g.adjacency[id] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, errors.Wrapf(ErrCycle, "ordered %d of %d nodes", len(order), len(g.nodes))
	}
	return order, nil
}

// values gathers the current values of ids.
func (g *Graph) values(ids []NodeID) []*tensor.Tensor {
	out := make([]*tensor.Tensor, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id].value
	}
	return out
}
