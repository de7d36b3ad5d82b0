package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jdangerx/cyclus/sim/exchange"
)

// Simulator drives the timestep loop. Each step runs, in order: pending
// timer events (builds, decommissions), every agent's Tick, one resource
// exchange resolution, trade settlement, and every agent's Tock.
type Simulator struct {
	Ctx     *Context
	Control ControlConfig
	Metrics *Metrics
}

// NewSimulator returns a simulator over ctx with the given control
// parameters.
func NewSimulator(ctx *Context, control ControlConfig) *Simulator {
	return &Simulator{Ctx: ctx, Control: control, Metrics: NewMetrics()}
}

// Run executes the configured number of timesteps.
func (s *Simulator) Run() error {
	if s.Control.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", s.Control.Duration)
	}
	for t := 0; t < s.Control.Duration; t++ {
		s.Ctx.time = t
		s.Ctx.timer.RunUpTo(s.Ctx, t)

		logrus.Debugf("[step %04d] %d agents", t, len(s.Ctx.agents))
		for _, a := range s.Ctx.Agents() {
			a.Tick(s.Ctx, t)
		}

		trades, err := s.resolveExchange()
		if err != nil {
			return fmt.Errorf("exchange failed at step %d: %w", t, err)
		}
		stepQty := make(map[string]float64)
		for _, tr := range trades {
			if err := s.settle(tr); err != nil {
				return fmt.Errorf("settlement failed at step %d: %w", t, err)
			}
			stepQty[tr.Commodity] += tr.Qty
		}
		s.Metrics.RecordStep(len(trades), stepQty)

		for _, a := range s.Ctx.Agents() {
			a.Tock(s.Ctx, t)
		}
	}
	logrus.Infof("[step %04d] simulation ended", s.Control.Duration)
	return nil
}

// resolveExchange gathers portfolios from the traders in registration
// order and runs one exchange resolution.
func (s *Simulator) resolveExchange() ([]exchange.Trade, error) {
	var requests []*exchange.RequestPortfolio
	traders := s.Ctx.Traders()
	for _, tr := range traders {
		requests = append(requests, tr.Requests(s.Ctx)...)
	}
	var bids []*exchange.BidPortfolio
	for _, tr := range traders {
		bids = append(bids, tr.Bids(s.Ctx, requests)...)
	}
	trades, err := exchange.Resolve(requests, bids, s.Ctx.Priorities())
	if err != nil {
		return nil, err
	}
	logrus.Debugf("[step %04d] exchange matched %d trades", s.Ctx.time, len(trades))
	return trades, nil
}

// settle moves the traded resource from bidder to requester.
func (s *Simulator) settle(tr exchange.Trade) error {
	bidder, ok := tr.Bidder.(Trader)
	if !ok {
		return fmt.Errorf("bidder %s is not a trader", tr.Bidder.TraderID())
	}
	requester, ok := tr.Requester.(Trader)
	if !ok {
		return fmt.Errorf("requester %s is not a trader", tr.Requester.TraderID())
	}
	res := bidder.Offer(tr)
	if res == nil {
		return fmt.Errorf("bidder %s offered nothing for %s", tr.Bidder.TraderID(), tr.Commodity)
	}
	requester.Accept(tr, res)
	logrus.Debugf("trade settled: %s -> %s, %.3f %s",
		tr.Bidder.TraderID(), tr.Requester.TraderID(), tr.Qty, tr.Commodity)
	return nil
}
