package exchange

import (
	"math"

	"github.com/jdangerx/cyclus/sim/num"
)

// GreedyMatcher produces the timestep's trade schedule: a deterministic,
// single-pass constrained assignment over an ExchangeGraph.
//
// Request sets are visited in the order they were added to the graph,
// member nodes in insertion order, and each node's arcs in AddArc order.
// Preference and commodity priority are therefore encoded entirely by the
// graph builder; the matcher itself is order-faithful.
type GreedyMatcher struct{}

// NewGreedyMatcher returns a matcher. It carries no state between calls.
func NewGreedyMatcher() *GreedyMatcher { return &GreedyMatcher{} }

// Match appends (arc, quantity) assignments to g's match log, consuming
// endpoint capacities as it goes. A request set finishes when its quantity
// is exhausted within tolerance or all its arcs have zero residual;
// under-fulfillment is legal and silent.
//
// Errors propagate only from the capacity engine and indicate a malformed
// graph; the graph is then in an undefined state and must be discarded.
func (m *GreedyMatcher) Match(g *ExchangeGraph) error {
	for _, rs := range g.RequestSets {
		if err := m.matchSet(g, rs); err != nil {
			return err
		}
	}
	return nil
}

func (m *GreedyMatcher) matchSet(g *ExchangeGraph, rs *RequestSet) error {
	rem := rs.Qty
	for _, n := range rs.Nodes {
		for _, a := range g.NodeArcs[n] {
			if !num.DoublePos(rem) {
				return nil
			}
			cap, err := ArcCapacity(a)
			if err != nil {
				return err
			}
			if !num.DoublePos(cap) {
				continue
			}
			var q float64
			if n.Exclusive {
				// All-or-nothing: the full exemplar quantity or skip.
				q = n.ExclusiveQty
				if !num.DoublePos(q) || num.DoubleNeg(cap-q) || num.DoubleNeg(rem-q) {
					continue
				}
			} else {
				q = math.Min(cap, rem)
			}
			if err := UpdateArcCapacity(a, q); err != nil {
				return err
			}
			rem -= q
			g.AddMatch(a, q)
		}
	}
	return nil
}
