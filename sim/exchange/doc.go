// Package exchange implements the dynamic resource exchange: the bipartite
// graph of requests and bids, the capacity algebra over it, and the greedy
// matcher that produces each timestep's trade schedule.
//
// # Reading Guide
//
// Start with these three files to understand the resolution kernel:
//   - graph.go: Node/NodeSet/RequestSet/Arc topology and the match log
//   - capacity.go: residual-capacity queries and in-place updates
//   - matcher.go: the greedy, insertion-ordered constrained assignment
//
// Portfolios are the domain-facing surface. Agents publish
// RequestPortfolio and BidPortfolio values; Translator turns them into a
// graph, and after matching turns the match log into Trade records.
// Resolve composes the whole round trip.
//
// # Ordering
//
// Everything downstream of graph construction is order-faithful: request
// sets, member nodes, and per-node arcs are visited in insertion order, so
// two graphs built in the same order yield identical match logs. The
// Translator encodes commodity solution priority and request preference
// into that insertion order; nothing else in the package reorders.
//
// The package is pure in-memory computation. One matcher invocation runs
// per timestep, single-threaded; a graph is never shared across timesteps.
package exchange
