package exchange

// Request is a demand for a resource of one commodity. Target is an
// exemplar of what is wanted; its quantity sizes the request. Preference
// orders this request's node within its portfolio's request set, higher
// first.
type Request struct {
	Commodity  string
	Target     Resource
	Preference float64

	portfolio *RequestPortfolio
}

// RequestConstraint is a demand-side budget shared by all requests in a
// portfolio. Rates[j] is the amount of this budget one unit of flow to the
// portfolio's j-th request consumes (j in AddRequest order).
type RequestConstraint struct {
	Capacity float64
	Rates    []float64
}

// RequestPortfolio groups the requests a single requester publishes in one
// timestep, together with an overall target quantity and any shared
// constraints. The target quantity accumulates from each added request's
// exemplar.
type RequestPortfolio struct {
	requester   Trader
	qty         float64
	requests    []*Request
	constraints []RequestConstraint
	exclusive   bool
}

// NewRequestPortfolio returns an empty portfolio for requester.
func NewRequestPortfolio(requester Trader) *RequestPortfolio {
	return &RequestPortfolio{requester: requester}
}

// AddRequest appends a request for commodity sized by the exemplar target.
func (p *RequestPortfolio) AddRequest(commodity string, target Resource, pref float64) *Request {
	r := &Request{
		Commodity:  commodity,
		Target:     target,
		Preference: pref,
		portfolio:  p,
	}
	p.requests = append(p.requests, r)
	p.qty += target.Quantity()
	return r
}

// AddConstraint appends a shared demand-side budget.
func (p *RequestPortfolio) AddConstraint(c RequestConstraint) {
	p.constraints = append(p.constraints, c)
}

// SetExclusive marks the portfolio's requests mutually exclusive: the
// matcher fills each either at its full exemplar quantity or not at all.
func (p *RequestPortfolio) SetExclusive(on bool) { p.exclusive = on }

// Requester returns the publishing agent.
func (p *RequestPortfolio) Requester() Trader { return p.requester }

// Qty returns the overall target quantity.
func (p *RequestPortfolio) Qty() float64 { return p.qty }

// Requests returns the requests in AddRequest order.
func (p *RequestPortfolio) Requests() []*Request { return p.requests }

// Constraints returns the shared constraints in AddConstraint order.
func (p *RequestPortfolio) Constraints() []RequestConstraint { return p.constraints }

// Exclusive reports whether the portfolio's requests are all-or-nothing.
func (p *RequestPortfolio) Exclusive() bool { return p.exclusive }
