package exchange

import "fmt"

// Bid is an offer to supply Offer against a specific request.
type Bid struct {
	Request *Request
	Offer   Resource

	portfolio *BidPortfolio
}

// CapacityConstraint is a supply-side budget. Capacity is the budget for
// the timestep; Converter gives the budget consumed per unit traded of a
// candidate resource. A nil Converter means plain quantity (one budget
// unit per unit traded).
type CapacityConstraint struct {
	Capacity  float64
	Converter Converter
}

// BidPortfolio groups the bids a single bidder publishes in one timestep.
// All bids must come from the same bidder, and a given request may be bid
// on at most once per portfolio; violations report ErrKey.
type BidPortfolio struct {
	bidder      Trader
	bids        []*Bid
	bidded      map[*Request]bool
	constraints []CapacityConstraint
}

// NewBidPortfolio returns an empty portfolio. The bidder is pinned by the
// first AddBid.
func NewBidPortfolio() *BidPortfolio {
	return &BidPortfolio{bidded: make(map[*Request]bool)}
}

// AddBid appends an offer of offer against req from bidder.
func (p *BidPortfolio) AddBid(req *Request, offer Resource, bidder Trader) (*Bid, error) {
	if p.bidder == nil {
		p.bidder = bidder
	} else if p.bidder != bidder {
		return nil, fmt.Errorf("%w: bid from %s on a portfolio owned by %s",
			ErrKey, bidder.TraderID(), p.bidder.TraderID())
	}
	if p.bidded[req] {
		return nil, fmt.Errorf("%w: request for %s already bid on in this portfolio",
			ErrKey, req.Commodity)
	}
	p.bidded[req] = true
	b := &Bid{Request: req, Offer: offer, portfolio: p}
	p.bids = append(p.bids, b)
	return b, nil
}

// AddConstraint appends a supply-side budget.
func (p *BidPortfolio) AddConstraint(c CapacityConstraint) {
	p.constraints = append(p.constraints, c)
}

// Bidder returns the publishing agent, nil before the first bid.
func (p *BidPortfolio) Bidder() Trader { return p.bidder }

// Bids returns the bids in AddBid order.
func (p *BidPortfolio) Bids() []*Bid { return p.bids }

// Constraints returns the constraints in AddConstraint order.
func (p *BidPortfolio) Constraints() []CapacityConstraint { return p.constraints }
