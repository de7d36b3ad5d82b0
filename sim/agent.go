package sim

import "github.com/jdangerx/cyclus/sim/exchange"

// Kind distinguishes the three tiers of the agent hierarchy.
type Kind string

const (
	KindRegion      Kind = "region"
	KindInstitution Kind = "institution"
	KindFacility    Kind = "facility"
)

// Agent is a participant in the simulation hierarchy. Regions contain
// institutions, institutions contain facilities; only facilities trade.
type Agent interface {
	ID() string
	Kind() Kind
	Prototype() string
	Parent() Agent

	// EnterNotify runs when the agent is registered with the context,
	// after construction and parenting. Agents resolve recipe and
	// commodity references here.
	EnterNotify(ctx *Context) error

	// Tick runs at the start of timestep t, before the exchange.
	Tick(ctx *Context, t int)

	// Tock runs at the end of timestep t, after trades settle.
	Tock(ctx *Context, t int)
}

// Trader is implemented by facilities that participate in the exchange.
// Requests and Bids publish portfolios; Offer and Accept settle the
// resulting trades.
type Trader interface {
	exchange.Trader

	Requests(ctx *Context) []*exchange.RequestPortfolio
	Bids(ctx *Context, requests []*exchange.RequestPortfolio) []*exchange.BidPortfolio

	// Offer produces the resource for a trade in which this agent is the
	// bidder.
	Offer(tr exchange.Trade) exchange.Resource

	// Accept absorbs the resource for a trade in which this agent is the
	// requester.
	Accept(tr exchange.Trade, r exchange.Resource)
}

// AgentBase carries the identity and lifecycle state shared by all agents.
// Archetypes embed it and override the hooks they need.
type AgentBase struct {
	id        string
	kind      Kind
	prototype string
	parent    Agent

	// Lifetime is the number of timesteps the agent lives after entering,
	// or -1 for unbounded. Decommission is scheduled by the build event.
	Lifetime int

	// EnterTime is the timestep the agent entered the simulation.
	EnterTime int
}

// NewAgentBase returns a base for an agent of the given identity.
func NewAgentBase(id string, kind Kind, prototype string, parent Agent) AgentBase {
	return AgentBase{id: id, kind: kind, prototype: prototype, parent: parent, Lifetime: -1}
}

func (b *AgentBase) base() *AgentBase { return b }

func (b *AgentBase) ID() string        { return b.id }
func (b *AgentBase) Kind() Kind        { return b.kind }
func (b *AgentBase) Prototype() string { return b.prototype }
func (b *AgentBase) Parent() Agent     { return b.parent }

// TraderID implements exchange.Trader for embedding facilities.
func (b *AgentBase) TraderID() string { return b.id }

func (b *AgentBase) EnterNotify(ctx *Context) error { return nil }
func (b *AgentBase) Tick(ctx *Context, t int)       {}
func (b *AgentBase) Tock(ctx *Context, t int)       {}

// Region is a passive top-tier container.
type Region struct {
	AgentBase
}

// NewRegion returns a region agent.
func NewRegion(id, prototype string) *Region {
	return &Region{AgentBase: NewAgentBase(id, KindRegion, prototype, nil)}
}

// Institution is a passive middle-tier container parented to a region.
type Institution struct {
	AgentBase
}

// NewInstitution returns an institution agent under parent.
func NewInstitution(id, prototype string, parent Agent) *Institution {
	return &Institution{AgentBase: NewAgentBase(id, KindInstitution, prototype, parent)}
}
