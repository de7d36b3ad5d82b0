package exchange

import (
	"fmt"
	"math"

	"github.com/jdangerx/cyclus/sim/num"
)

// Capacity returns the largest flow node n can still carry on arc a.
//
// Each capacity dimension is an independent budget and the node's unit
// capacities are rates (budget per unit flow), so the bound is the tightest
// budget divided by its rate. A zero rate leaves that dimension unbounded,
// and a set with no capacities at all imposes no constraint on this side.
func Capacity(n *Node, a Arc) (float64, error) {
	if n.Set == nil {
		return 0, fmt.Errorf("%w: node has no set", ErrState)
	}
	caps := n.Set.Capacities
	if len(caps) == 0 {
		return math.Inf(1), nil
	}
	ucaps := n.UnitCapacities[a]
	if len(ucaps) != len(caps) {
		return 0, fmt.Errorf("%w: unit capacity cardinality %d does not match set cardinality %d",
			ErrState, len(ucaps), len(caps))
	}
	min := math.Inf(1)
	for i, u := range ucaps {
		if u == 0 {
			continue
		}
		if r := caps[i] / u; r < min {
			min = r
		}
	}
	return min, nil
}

// ArcCapacity returns the flow a can still carry given both endpoints.
func ArcCapacity(a Arc) (float64, error) {
	ucap, err := Capacity(a.U, a)
	if err != nil {
		return 0, err
	}
	vcap, err := Capacity(a.V, a)
	if err != nil {
		return 0, err
	}
	return math.Min(ucap, vcap), nil
}

// UpdateCapacity subtracts qty units of flow on arc a from every capacity
// dimension of n's set. Residuals within tolerance of zero are clamped to
// zero; a residual negative beyond tolerance reports ErrValue and leaves
// the already-written dimensions in place. Callers must size qty to fit
// Capacity(n, a) first.
func UpdateCapacity(n *Node, a Arc, qty float64) error {
	if qty < 0 {
		return fmt.Errorf("%w: update quantity %v is negative", ErrValue, qty)
	}
	if n.Set == nil {
		return fmt.Errorf("%w: node has no set", ErrState)
	}
	caps := n.Set.Capacities
	if len(caps) == 0 {
		return nil
	}
	ucaps := n.UnitCapacities[a]
	if len(ucaps) != len(caps) {
		return fmt.Errorf("%w: unit capacity cardinality %d does not match set cardinality %d",
			ErrState, len(ucaps), len(caps))
	}
	for i, u := range ucaps {
		next := caps[i] - u*qty
		if num.DoubleNeg(next) {
			return fmt.Errorf("%w: insufficient capacity in dimension %d (%v - %v*%v)",
				ErrValue, i, caps[i], u, qty)
		}
		caps[i] = math.Max(0, next)
	}
	return nil
}

// UpdateArcCapacity applies qty to both endpoints of a, request side first.
// There is no rollback on failure; a failure here means the caller assigned
// a flow it never sized against ArcCapacity.
func UpdateArcCapacity(a Arc, qty float64) error {
	if err := UpdateCapacity(a.U, a, qty); err != nil {
		return err
	}
	return UpdateCapacity(a.V, a, qty)
}
