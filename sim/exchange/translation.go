package exchange

import (
	"fmt"
	"sort"
)

// Translator builds an ExchangeGraph from request and bid portfolios and
// translates the match log back into trades. One translator serves one
// resolution; it keeps the node↔portfolio correspondence alive for the
// back-translation and is discarded with the graph.
//
// Ordering contract: request sets enter the graph in descending commodity
// solution priority (ties keep submission order); within a set, request
// nodes are ordered by descending preference (ties keep AddRequest order);
// a node's arcs follow bid-portfolio submission order. The matcher visits
// in exactly this order.
type Translator struct {
	priorities map[string]float64

	reqNodes map[*Node]*Request
	bidNodes map[*Node]*Bid
}

// NewTranslator returns a translator using the given commodity solution
// priorities. Commodities absent from the map have priority zero.
func NewTranslator(priorities map[string]float64) *Translator {
	return &Translator{
		priorities: priorities,
		reqNodes:   make(map[*Node]*Request),
		bidNodes:   make(map[*Node]*Bid),
	}
}

// Translate builds the bipartite graph for one resolution.
func (t *Translator) Translate(requests []*RequestPortfolio, bids []*BidPortfolio) (*ExchangeGraph, error) {
	g := NewExchangeGraph()

	ordered := make([]*RequestPortfolio, len(requests))
	copy(ordered, requests)
	sort.SliceStable(ordered, func(i, j int) bool {
		return t.portfolioPriority(ordered[i]) > t.portfolioPriority(ordered[j])
	})

	// Demand side: one request set per portfolio, one node per request.
	nodeOf := make(map[*Request]*Node)
	for _, p := range ordered {
		for i, c := range p.constraints {
			if len(c.Rates) != len(p.requests) {
				return nil, fmt.Errorf("%w: constraint %d has %d rates for %d requests",
					ErrState, i, len(c.Rates), len(p.requests))
			}
		}
		rs := NewRequestSet(p.qty)
		for _, c := range p.constraints {
			rs.Capacities = append(rs.Capacities, c.Capacity)
		}
		members := make([]*Request, len(p.requests))
		copy(members, p.requests)
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Preference > members[j].Preference
		})
		for _, r := range members {
			u := NewNode()
			if p.exclusive {
				u.Exclusive = true
				u.ExclusiveQty = r.Target.Quantity()
			}
			if err := rs.AddNode(u); err != nil {
				return nil, err
			}
			t.reqNodes[u] = r
			nodeOf[r] = u
		}
		g.AddRequestSet(rs)
	}

	// Supply side: one node set per bid portfolio, one node per bid.
	for _, p := range bids {
		ns := &NodeSet{}
		for _, c := range p.constraints {
			ns.Capacities = append(ns.Capacities, c.Capacity)
		}
		for _, b := range p.bids {
			u, ok := nodeOf[b.Request]
			if !ok {
				return nil, fmt.Errorf("%w: bid references a request outside this resolution", ErrState)
			}
			v := NewNode()
			if err := ns.AddNode(v); err != nil {
				return nil, err
			}
			t.bidNodes[v] = b

			a := Arc{U: u, V: v}
			u.UnitCapacities[a] = t.requestRates(b.Request)
			v.UnitCapacities[a] = bidRates(p, b)
			g.AddArc(a)
		}
		g.AddSupplySet(ns)
	}

	return g, nil
}

// BackTranslate converts the graph's match log into trade records, in match
// order.
func (t *Translator) BackTranslate(g *ExchangeGraph) []Trade {
	trades := make([]Trade, 0, len(g.Matches))
	for _, m := range g.Matches {
		r := t.reqNodes[m.A.U]
		b := t.bidNodes[m.A.V]
		trades = append(trades, Trade{
			Requester: r.portfolio.requester,
			Bidder:    b.portfolio.bidder,
			Commodity: r.Commodity,
			Qty:       m.Qty,
		})
	}
	return trades
}

func (t *Translator) portfolioPriority(p *RequestPortfolio) float64 {
	best := 0.0
	for i, r := range p.requests {
		if pr := t.priorities[r.Commodity]; i == 0 || pr > best {
			best = pr
		}
	}
	return best
}

func (t *Translator) requestRates(r *Request) []float64 {
	p := r.portfolio
	if len(p.constraints) == 0 {
		return nil
	}
	j := -1
	for i, req := range p.requests {
		if req == r {
			j = i
			break
		}
	}
	rates := make([]float64, len(p.constraints))
	for i, c := range p.constraints {
		rates[i] = c.Rates[j]
	}
	return rates
}

func bidRates(p *BidPortfolio, b *Bid) []float64 {
	if len(p.constraints) == 0 {
		return nil
	}
	rates := make([]float64, len(p.constraints))
	for i, c := range p.constraints {
		conv := c.Converter
		if conv == nil {
			conv = QuantityConverter
		}
		rates[i] = conv(b.Offer)
	}
	return rates
}

// Resolve is the one-call façade for a timestep: translate the portfolios,
// run the greedy matcher, and return the resulting trades in match order.
func Resolve(requests []*RequestPortfolio, bids []*BidPortfolio, priorities map[string]float64) ([]Trade, error) {
	t := NewTranslator(priorities)
	g, err := t.Translate(requests, bids)
	if err != nil {
		return nil, err
	}
	if err := NewGreedyMatcher().Match(g); err != nil {
		return nil, err
	}
	return t.BackTranslate(g), nil
}
