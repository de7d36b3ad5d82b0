package exchange

// Trade is a matched quantity emitted back to the simulator. The bidder is
// responsible for producing the actual resource and the requester for
// absorbing it; the exchange only names the parties and the amount.
type Trade struct {
	Requester Trader
	Bidder    Trader
	Commodity string
	Qty       float64
}
