package exchange

import "fmt"

// Node is a participant on one side of a potential trade. Its unit
// capacities record, per incident arc, how many units of each of its set's
// constraint dimensions one unit of flow on that arc consumes.
//
// A node belongs to at most one NodeSet; Set is a weak back-reference owned
// by the set.
type Node struct {
	// UnitCapacities maps each incident arc to the per-dimension
	// consumption rates. Each vector must have one entry per capacity of
	// the containing set.
	UnitCapacities map[Arc][]float64

	// Set is the containing group, assigned by NodeSet.AddNode.
	Set *NodeSet

	// Exclusive marks an all-or-nothing node: the matcher assigns either
	// ExclusiveQty or zero on any of its arcs.
	Exclusive    bool
	ExclusiveQty float64
}

// NewNode returns a node with an empty unit-capacity table.
func NewNode() *Node {
	return &Node{UnitCapacities: make(map[Arc][]float64)}
}

// NodeSet groups nodes that share a pool of constraint capacities, one
// entry per constraint dimension.
type NodeSet struct {
	Capacities []float64
	Nodes      []*Node
}

// AddNode attaches n to this set and records the back-reference. A node
// may belong to only one set.
func (s *NodeSet) AddNode(n *Node) error {
	if n.Set != nil {
		return fmt.Errorf("%w: node already belongs to a set", ErrState)
	}
	n.Set = s
	s.Nodes = append(s.Nodes, n)
	return nil
}

// RequestSet is a NodeSet with a bounded total quantity: across all arcs
// incident to its members, at most Qty units of flow may be assigned.
type RequestSet struct {
	NodeSet
	Qty float64
}

// NewRequestSet returns a request set demanding qty units in total.
func NewRequestSet(qty float64) *RequestSet {
	return &RequestSet{Qty: qty}
}

// Arc is a potential flow from a request-side node U to a bid-side node V.
// Arcs are values: two arcs with the same endpoints compare equal, and maps
// keyed on Arc use that equality. Arcs carry no capacity state of their
// own; residuals live on the endpoint sets.
type Arc struct {
	U *Node // request side
	V *Node // bid side
}

// Match is a committed trade quantity on an arc.
type Match struct {
	A   Arc
	Qty float64
}

// ExchangeGraph aggregates the request sets, supply sets, arcs, and the
// append-only match log for one resolution.
//
// Insertion order is part of the contract: the matcher visits request sets,
// member nodes, and per-node arcs in exactly the order they were added, so
// the match log is reproducible for identical construction order.
type ExchangeGraph struct {
	RequestSets []*RequestSet
	SupplySets  []*NodeSet

	// NodeArcs indexes, for each node, the incident arcs in AddArc order.
	NodeArcs map[*Node][]Arc

	// Matches is the append-only log produced by the matcher.
	Matches []Match
}

// NewExchangeGraph returns an empty graph.
func NewExchangeGraph() *ExchangeGraph {
	return &ExchangeGraph{NodeArcs: make(map[*Node][]Arc)}
}

// AddRequestSet appends rs to the demand side.
func (g *ExchangeGraph) AddRequestSet(rs *RequestSet) {
	g.RequestSets = append(g.RequestSets, rs)
}

// AddSupplySet appends ns to the supply side.
func (g *ExchangeGraph) AddSupplySet(ns *NodeSet) {
	g.SupplySets = append(g.SupplySets, ns)
}

// AddArc records a as incident to both endpoints, preserving insertion
// order.
func (g *ExchangeGraph) AddArc(a Arc) {
	g.NodeArcs[a.U] = append(g.NodeArcs[a.U], a)
	g.NodeArcs[a.V] = append(g.NodeArcs[a.V], a)
}

// AddMatch appends (a, qty) to the match log. Capacity bookkeeping is the
// caller's job; the log only records committed quantities.
func (g *ExchangeGraph) AddMatch(a Arc, qty float64) {
	g.Matches = append(g.Matches, Match{A: a, Qty: qty})
}
