package sim

import (
	"encoding/xml"
	"fmt"
	"math"

	"github.com/jdangerx/cyclus/sim/exchange"
)

// ProtoBuilder constructs an agent of one archetype from the raw XML of a
// prototype's config block.
type ProtoBuilder func(id string, parent Agent, cfg []byte) (Agent, error)

// archetypes is the registry of builders keyed by archetype name. The
// built-in archetypes register in init; scenario archetype specs must
// resolve to a registered name.
var archetypes = map[string]ProtoBuilder{}

// RegisterArchetype installs a builder under name, replacing any previous
// registration.
func RegisterArchetype(name string, b ProtoBuilder) {
	archetypes[name] = b
}

// BuildAgent constructs an agent of the named archetype.
func BuildAgent(archetype, id string, parent Agent, cfg []byte) (Agent, error) {
	b, ok := archetypes[archetype]
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q", archetype)
	}
	return b(id, parent, cfg)
}

// ArchetypeRegistered reports whether name has a builder.
func ArchetypeRegistered(name string) bool {
	_, ok := archetypes[name]
	return ok
}

func init() {
	RegisterArchetype("region", func(id string, parent Agent, cfg []byte) (Agent, error) {
		return NewRegion(id, "region"), nil
	})
	RegisterArchetype("institution", func(id string, parent Agent, cfg []byte) (Agent, error) {
		return NewInstitution(id, "institution", parent), nil
	})
	RegisterArchetype("source", newSource)
	RegisterArchetype("sink", newSink)
}

// SourceConfig is the scenario config for the source archetype.
type SourceConfig struct {
	XMLName    xml.Name `xml:"source"`
	Commodity  string   `xml:"commodity"`
	Recipe     string   `xml:"recipe"`
	Throughput float64  `xml:"throughput"`
}

// Source is a facility that offers one commodity up to a per-step
// throughput, producing material of a fixed recipe on demand.
type Source struct {
	AgentBase
	Commodity  string
	RecipeName string
	Throughput float64

	comp *Composition
}

func newSource(id string, parent Agent, cfg []byte) (Agent, error) {
	var sc SourceConfig
	if err := xml.Unmarshal(cfg, &sc); err != nil {
		return nil, fmt.Errorf("bad source config for %s: %w", id, err)
	}
	if sc.Commodity == "" {
		return nil, fmt.Errorf("source %s has no commodity", id)
	}
	if sc.Throughput <= 0 {
		sc.Throughput = math.Inf(1)
	}
	s := &Source{
		AgentBase:  NewAgentBase(id, KindFacility, "source", parent),
		Commodity:  sc.Commodity,
		RecipeName: sc.Recipe,
		Throughput: sc.Throughput,
	}
	return s, nil
}

// EnterNotify resolves the recipe reference.
func (s *Source) EnterNotify(ctx *Context) error {
	if s.RecipeName == "" {
		return nil
	}
	comp, err := ctx.Recipe(s.RecipeName)
	if err != nil {
		return err
	}
	s.comp = comp
	return nil
}

// Requests: a source demands nothing.
func (s *Source) Requests(ctx *Context) []*exchange.RequestPortfolio { return nil }

// Bids offers against every open request for the source's commodity, all
// in one portfolio constrained by the per-step throughput.
func (s *Source) Bids(ctx *Context, requests []*exchange.RequestPortfolio) []*exchange.BidPortfolio {
	bp := exchange.NewBidPortfolio()
	n := 0
	for _, rp := range requests {
		for _, r := range rp.Requests() {
			if r.Commodity != s.Commodity {
				continue
			}
			offer := s.produce(r.Target.Quantity())
			if _, err := bp.AddBid(r, offer, s); err != nil {
				// One bid per request per portfolio by construction.
				continue
			}
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if !math.IsInf(s.Throughput, 1) {
		bp.AddConstraint(exchange.CapacityConstraint{Capacity: s.Throughput})
	}
	return []*exchange.BidPortfolio{bp}
}

// Offer produces the traded material.
func (s *Source) Offer(tr exchange.Trade) exchange.Resource {
	return s.produce(tr.Qty)
}

// Accept is never called: a source requests nothing.
func (s *Source) Accept(tr exchange.Trade, r exchange.Resource) {}

func (s *Source) produce(qty float64) exchange.Resource {
	if s.comp != nil {
		return NewMaterial(qty, s.comp)
	}
	return NewProduct(qty, s.Commodity)
}

// SinkConfig is the scenario config for the sink archetype.
type SinkConfig struct {
	XMLName   xml.Name `xml:"sink"`
	Commodity string   `xml:"commodity"`
	Capacity  float64  `xml:"capacity"`
}

// Sink is a facility that requests one commodity up to a per-step capacity
// and accumulates whatever it receives.
type Sink struct {
	AgentBase
	Commodity string
	Capacity  float64

	inventory float64
}

func newSink(id string, parent Agent, cfg []byte) (Agent, error) {
	var sc SinkConfig
	if err := xml.Unmarshal(cfg, &sc); err != nil {
		return nil, fmt.Errorf("bad sink config for %s: %w", id, err)
	}
	if sc.Commodity == "" {
		return nil, fmt.Errorf("sink %s has no commodity", id)
	}
	if sc.Capacity <= 0 {
		return nil, fmt.Errorf("sink %s needs a positive capacity, got %v", id, sc.Capacity)
	}
	return &Sink{
		AgentBase: NewAgentBase(id, KindFacility, "sink", parent),
		Commodity: sc.Commodity,
		Capacity:  sc.Capacity,
	}, nil
}

// Requests demands up to Capacity units of the sink's commodity.
func (s *Sink) Requests(ctx *Context) []*exchange.RequestPortfolio {
	rp := exchange.NewRequestPortfolio(s)
	rp.AddRequest(s.Commodity, NewProduct(s.Capacity, s.Commodity), 1.0)
	return []*exchange.RequestPortfolio{rp}
}

// Bids: a sink offers nothing.
func (s *Sink) Bids(ctx *Context, requests []*exchange.RequestPortfolio) []*exchange.BidPortfolio {
	return nil
}

// Offer is never called: a sink bids nothing.
func (s *Sink) Offer(tr exchange.Trade) exchange.Resource { return nil }

// Accept absorbs the traded resource.
func (s *Sink) Accept(tr exchange.Trade, r exchange.Resource) {
	s.inventory += r.Quantity()
}

// Inventory returns the total quantity absorbed so far.
func (s *Sink) Inventory() float64 { return s.inventory }

var (
	_ Trader = (*Source)(nil)
	_ Trader = (*Sink)(nil)
)
