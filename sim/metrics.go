// Tracks simulation-wide trade metrics for final reporting.

package sim

import (
	"fmt"
	"sort"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Timesteps      int                // Number of timesteps executed
	TotalTrades    int                // Number of trades settled
	TotalQuantity  float64            // Total quantity moved across all trades
	QtyByCommodity map[string]float64 // Quantity moved per commodity
	PeakStepTrades int                // Max trades settled in a single step
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{QtyByCommodity: make(map[string]float64)}
}

// RecordStep folds one timestep's settled trade count and quantities in.
func (m *Metrics) RecordStep(trades int, qtyByCommodity map[string]float64) {
	m.Timesteps++
	m.TotalTrades += trades
	if trades > m.PeakStepTrades {
		m.PeakStepTrades = trades
	}
	for commod, qty := range qtyByCommodity {
		m.QtyByCommodity[commod] += qty
		m.TotalQuantity += qty
	}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Timesteps            : %d\n", m.Timesteps)
	fmt.Printf("Trades Settled       : %d\n", m.TotalTrades)
	fmt.Printf("Total Quantity Moved : %.3f\n", m.TotalQuantity)
	fmt.Printf("Peak Trades per Step : %d\n", m.PeakStepTrades)
	commods := make([]string, 0, len(m.QtyByCommodity))
	for c := range m.QtyByCommodity {
		commods = append(commods, c)
	}
	sort.Strings(commods)
	for _, c := range commods {
		fmt.Printf("  %-20s : %.3f\n", c, m.QtyByCommodity[c])
	}
}
