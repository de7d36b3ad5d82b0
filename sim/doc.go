// Package sim provides the timestep kernel of the Cyclus simulator.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - agent.go: the region/institution/facility hierarchy and the Trader
//     interface facilities implement to join the exchange
//   - simulator.go: the timestep loop (timer events, Tick, exchange,
//     settlement, Tock)
//   - context.go: shared state — clock, agents, recipes, priorities
//
// # Architecture
//
// The sim package defines the kernel and bridge types; the hard parts live
// in sub-packages:
//   - sim/exchange: the dynamic resource exchange — graph, capacity
//     algebra, greedy matcher, portfolio translation
//   - sim/scenario: XML scenario input
//   - sim/num: the floating-point tolerance shared by quantity arithmetic
//
// Archetypes register builders in the package registry (archetypes.go);
// the scenario loader resolves prototype config blocks against it. The
// built-in source and sink archetypes are enough to run a complete
// scenario; external archetypes register the same way.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Agent: lifecycle hooks (EnterNotify, Tick, Tock)
//   - Trader: portfolio publication and trade settlement
//   - exchange.Resource: quantity view of a tradeable object
//   - exchange.Converter: constraint consumption per unit traded
package sim
