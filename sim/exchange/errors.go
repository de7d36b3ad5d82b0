package exchange

import "errors"

// Error kinds surfaced at the exchange boundary. Callers classify with
// errors.Is; none are caught inside the package.
var (
	// ErrState marks a violated structural invariant: a node queried
	// without a containing set, or mismatched constraint cardinality.
	// Indicates a graph-construction bug, not a recoverable condition.
	ErrState = errors.New("invalid exchange state")

	// ErrValue marks an illegal quantity: a negative flow, or an update
	// that would drive a capacity below zero beyond tolerance.
	ErrValue = errors.New("invalid value")

	// ErrKey marks a portfolio construction violation: a request bid on
	// twice in one portfolio, or bids from more than one bidder.
	ErrKey = errors.New("invalid key")
)
