package exchange

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdangerx/cyclus/sim/num"
)

func TestNodeSet_AddNode_SetsBackReference(t *testing.T) {
	// GIVEN a fresh node and set
	n := NewNode()
	s := &NodeSet{}

	// WHEN the node is added
	require.NoError(t, s.AddNode(n))

	// THEN the node points back at its set
	assert.Same(t, s, n.Set)
	require.Len(t, s.Nodes, 1)
}

func TestNodeSet_AddNode_Twice_Fails(t *testing.T) {
	n := NewNode()
	s1 := &NodeSet{}
	s2 := &NodeSet{}
	require.NoError(t, s1.AddNode(n))

	err := s2.AddNode(n)
	if !errors.Is(err, ErrState) {
		t.Fatalf("second AddNode: got %v, want ErrState", err)
	}
}

func TestRequestSet_Qty(t *testing.T) {
	var zero RequestSet
	assert.Equal(t, 0.0, zero.Qty)

	r := NewRequestSet(1.5)
	assert.Equal(t, 1.5, r.Qty)
}

func TestCapacity_NoSet_Fails(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}

	_, err := Capacity(m, a)
	if !errors.Is(err, ErrState) {
		t.Fatalf("Capacity on setless node: got %v, want ErrState", err)
	}
}

func TestCapacity_EmptySetCapacities_Unbounded(t *testing.T) {
	// GIVEN a node in a set with no capacity dimensions
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	uset := &NodeSet{}
	require.NoError(t, uset.AddNode(m))

	// THEN no constraint applies on this side
	cap, err := Capacity(m, a)
	require.NoError(t, err)
	if !math.IsInf(cap, 1) {
		t.Errorf("Capacity with empty set capacities: got %v, want +Inf", cap)
	}
}

func TestCapacity_SingleConstraint(t *testing.T) {
	// GIVEN unit capacity 1.0 against a set budget of 1.5
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	s := &NodeSet{Capacities: []float64{1.5}}
	require.NoError(t, s.AddNode(n))
	n.UnitCapacities[a] = []float64{1.0}

	cap, err := Capacity(n, a)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cap)

	// WHEN one unit of flow is assigned
	require.NoError(t, UpdateCapacity(n, a, 1.0))

	// THEN half a unit of budget remains
	cap, err = Capacity(n, a)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cap, 1e-12)
}

func TestCapacity_MultiConstraint_MinRatio(t *testing.T) {
	qty := 1.5
	caps := []float64{10, 5, 3, 1}
	ucaps := []float64{2.1, 1.7, 0.07, 0.01}

	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = ucaps

	s := &NodeSet{Capacities: append([]float64(nil), caps...)}
	require.NoError(t, s.AddNode(n))

	// The binding dimension is 5/1.7.
	cap, err := Capacity(n, a)
	require.NoError(t, err)
	assert.Equal(t, 5/1.7, cap)

	require.NoError(t, UpdateCapacity(n, a, qty))

	exp := make([]float64, len(caps))
	for i := range caps {
		exp[i] = caps[i] - ucaps[i]*qty
	}
	assert.Equal(t, exp, s.Capacities)

	cap, err = Capacity(n, a)
	require.NoError(t, err)
	assert.InDelta(t, (5-qty*1.7)/1.7, cap, 1e-12)
}

func TestCapacity_ZeroUnitCoefficient_Unbounded(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{0}
	s := &NodeSet{Capacities: []float64{3}}
	require.NoError(t, s.AddNode(n))

	cap, err := Capacity(n, a)
	require.NoError(t, err)
	if !math.IsInf(cap, 1) {
		t.Errorf("zero unit coefficient: got %v, want +Inf", cap)
	}
}

func TestCapacity_ZeroBudget_Zero(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{2}
	s := &NodeSet{Capacities: []float64{0}}
	require.NoError(t, s.AddNode(n))

	cap, err := Capacity(n, a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cap)
}

func TestCapacity_CardinalityMismatch_Fails(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{1}
	s := &NodeSet{Capacities: []float64{1, 2}}
	require.NoError(t, s.AddNode(n))

	_, err := Capacity(n, a)
	if !errors.Is(err, ErrState) {
		t.Fatalf("cardinality mismatch: got %v, want ErrState", err)
	}
}

func TestUpdateCapacity_NoSet_Fails(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}

	err := UpdateCapacity(n, a, 5)
	if !errors.Is(err, ErrState) {
		t.Fatalf("update on setless node: got %v, want ErrState", err)
	}
}

func TestUpdateCapacity_NegativeQty_Fails(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	s := &NodeSet{Capacities: []float64{1}}
	require.NoError(t, s.AddNode(n))
	n.UnitCapacities[a] = []float64{1}

	err := UpdateCapacity(n, a, -1)
	if !errors.Is(err, ErrValue) {
		t.Fatalf("negative quantity: got %v, want ErrValue", err)
	}
}

func TestUpdateCapacity_OverAllocation_Fails(t *testing.T) {
	// GIVEN a budget short of qty*unit by more than the tolerance band
	qty := 10.0
	unit := 2.0
	minDiff := 3 * num.Eps() * (1 + num.Eps())
	cap := qty*unit - minDiff
	require.True(t, num.DoubleNeg(cap-qty*unit))

	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{unit}
	s := &NodeSet{Capacities: []float64{cap}}
	require.NoError(t, s.AddNode(n))

	// THEN the update reports insufficient capacity
	err := UpdateCapacity(n, a, qty)
	if !errors.Is(err, ErrValue) {
		t.Fatalf("over-allocation: got %v, want ErrValue", err)
	}
}

func TestUpdateCapacity_ResidualNoise_ClampedToZero(t *testing.T) {
	// GIVEN a budget within tolerance of qty*unit
	qty := 10.0
	unit := 2.0
	cap := qty*unit - num.Eps()/2

	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{unit}
	s := &NodeSet{Capacities: []float64{cap}}
	require.NoError(t, s.AddNode(n))

	// THEN the update succeeds and the residual clamps to zero
	require.NoError(t, UpdateCapacity(n, a, qty))
	assert.Equal(t, 0.0, s.Capacities[0])
}

func TestUpdateCapacity_ZeroFlow_NoOp(t *testing.T) {
	m := NewNode()
	n := NewNode()
	a := Arc{U: m, V: n}
	n.UnitCapacities[a] = []float64{1.3}
	s := &NodeSet{Capacities: []float64{4.2}}
	require.NoError(t, s.AddNode(n))

	require.NoError(t, UpdateCapacity(n, a, 0))
	assert.Equal(t, []float64{4.2}, s.Capacities)
}

func TestUpdateCapacity_LinearComposition(t *testing.T) {
	// GIVEN two identical constraint states
	build := func() (*Node, Arc, *NodeSet) {
		m := NewNode()
		n := NewNode()
		a := Arc{U: m, V: n}
		n.UnitCapacities[a] = []float64{1.1, 0.4}
		s := &NodeSet{Capacities: []float64{10, 7}}
		if err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
		return n, a, s
	}
	n1, a1, s1 := build()
	n2, a2, s2 := build()

	// WHEN one updates in two steps and the other in one
	require.NoError(t, UpdateCapacity(n1, a1, 1.5))
	require.NoError(t, UpdateCapacity(n1, a1, 2.5))
	require.NoError(t, UpdateCapacity(n2, a2, 4.0))

	// THEN final capacities agree within tolerance
	for i := range s1.Capacities {
		assert.InDelta(t, s2.Capacities[i], s1.Capacities[i], num.Eps())
	}
}

func TestArcCapacity_MinOfEndpoints(t *testing.T) {
	uval := 1.0
	vval := 0.5

	u := NewNode()
	v := NewNode()
	a := Arc{U: u, V: v}
	u.UnitCapacities[a] = []float64{uval}
	v.UnitCapacities[a] = []float64{vval}

	uset := &NodeSet{Capacities: []float64{uval * 1.5}}
	require.NoError(t, uset.AddNode(u))
	vset := &NodeSet{Capacities: []float64{vval}}
	require.NoError(t, vset.AddNode(v))

	cap, err := ArcCapacity(a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cap, 1e-12)

	require.NoError(t, UpdateCapacity(u, a, uval))
	cap, err = ArcCapacity(a)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cap, 1e-12)

	require.NoError(t, UpdateCapacity(v, a, 1.0))
	cap, err = ArcCapacity(a)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, cap, 1e-12)
}

func TestExchangeGraph_AddSets(t *testing.T) {
	g := NewExchangeGraph()

	rs := NewRequestSet(1)
	g.AddRequestSet(rs)
	require.Len(t, g.RequestSets, 1)
	assert.Same(t, rs, g.RequestSets[0])

	ns := &NodeSet{}
	g.AddSupplySet(ns)
	require.Len(t, g.SupplySets, 1)
	assert.Same(t, ns, g.SupplySets[0])
}

func TestExchangeGraph_AddArc_IndexesBothEndpoints(t *testing.T) {
	g := NewExchangeGraph()
	u := NewNode()
	v := NewNode()
	a := Arc{U: u, V: v}

	g.AddArc(a)

	assert.Equal(t, []Arc{a}, g.NodeArcs[u])
	assert.Equal(t, []Arc{a}, g.NodeArcs[v])
}

func TestExchangeGraph_AddArc_PreservesInsertionOrder(t *testing.T) {
	g := NewExchangeGraph()
	u := NewNode()
	v := NewNode()
	w := NewNode()
	x := NewNode()

	a1 := Arc{U: u, V: v}
	a2 := Arc{U: u, V: w}
	a3 := Arc{U: x, V: w}

	g.AddArc(a1)
	g.AddArc(a2)
	g.AddArc(a3)

	assert.Equal(t, []Arc{a1, a2}, g.NodeArcs[u])
	assert.Equal(t, []Arc{a1}, g.NodeArcs[v])
	assert.Equal(t, []Arc{a2, a3}, g.NodeArcs[w])
	assert.Equal(t, []Arc{a3}, g.NodeArcs[x])
}

func TestExchangeGraph_AddMatch_AppendsToLog(t *testing.T) {
	g := NewExchangeGraph()
	u := NewNode()
	v := NewNode()
	a := Arc{U: u, V: v}

	g.AddMatch(a, 50.0)

	assert.Equal(t, []Match{{A: a, Qty: 50.0}}, g.Matches)
}

func TestArc_ValueEquality(t *testing.T) {
	u := NewNode()
	v := NewNode()

	a1 := Arc{U: u, V: v}
	a2 := Arc{U: u, V: v}

	// Arcs with the same endpoints are the same key.
	assert.Equal(t, a1, a2)
	m := map[Arc]int{a1: 1}
	assert.Equal(t, 1, m[a2])
}
