package exchange

import "gonum.org/v1/gonum/stat"

// Summary aggregates statistics over one resolution's trades.
type Summary struct {
	TotalTrades    int
	TotalQuantity  float64
	MeanTradeQty   float64
	MaxTradeQty    float64
	UniqueBidders  int
	QtyByCommodity map[string]float64
}

// Summarize computes aggregate statistics from a trade sequence. Safe for
// nil or empty input (returns zero-value fields).
func Summarize(trades []Trade) *Summary {
	s := &Summary{QtyByCommodity: make(map[string]float64)}
	if len(trades) == 0 {
		return s
	}

	qtys := make([]float64, len(trades))
	bidders := make(map[string]bool)
	for i, tr := range trades {
		qtys[i] = tr.Qty
		s.QtyByCommodity[tr.Commodity] += tr.Qty
		s.TotalQuantity += tr.Qty
		if tr.Bidder != nil {
			bidders[tr.Bidder.TraderID()] = true
		}
		if tr.Qty > s.MaxTradeQty {
			s.MaxTradeQty = tr.Qty
		}
	}

	s.TotalTrades = len(trades)
	s.MeanTradeQty = stat.Mean(qtys, nil)
	s.UniqueBidders = len(bidders)
	return s
}
