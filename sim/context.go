package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Context is the shared simulation state: the clock, the registered agents
// in registration order, recipes, commodity solution priorities, and the
// timer for scheduled lifecycle events.
//
// Registration order is load-bearing: it fixes the order agents tick and
// the order their portfolios enter the exchange, which in turn fixes the
// match log. Nothing in the context reorders agents.
type Context struct {
	time       int
	agents     []Agent
	recipes    map[string]*Composition
	priorities map[string]float64
	timer      *Timer
}

// NewContext returns an empty context at time zero.
func NewContext() *Context {
	return &Context{
		recipes:    make(map[string]*Composition),
		priorities: make(map[string]float64),
		timer:      NewTimer(),
	}
}

// Time returns the current timestep.
func (c *Context) Time() int { return c.time }

// Timer returns the event timer.
func (c *Context) Timer() *Timer { return c.timer }

// AddRecipe registers a named composition.
func (c *Context) AddRecipe(name string, comp *Composition) {
	c.recipes[name] = comp
}

// Recipe returns the named composition.
func (c *Context) Recipe(name string) (*Composition, error) {
	comp, ok := c.recipes[name]
	if !ok {
		return nil, fmt.Errorf("unknown recipe %q", name)
	}
	return comp, nil
}

// SetPriority records a commodity's solution priority.
func (c *Context) SetPriority(commodity string, priority float64) {
	c.priorities[commodity] = priority
}

// Priorities returns the commodity → solution priority map.
func (c *Context) Priorities() map[string]float64 { return c.priorities }

// Register adds a to the simulation and runs its EnterNotify hook.
func (c *Context) Register(a Agent) error {
	if err := a.EnterNotify(c); err != nil {
		return fmt.Errorf("agent %s failed to enter: %w", a.ID(), err)
	}
	c.agents = append(c.agents, a)
	logrus.Debugf("agent %s (%s %s) entered at t=%d", a.ID(), a.Kind(), a.Prototype(), c.time)
	return nil
}

// Deregister removes a from the simulation. Unknown agents are ignored.
func (c *Context) Deregister(a Agent) {
	for i, reg := range c.agents {
		if reg == a {
			c.agents = append(c.agents[:i], c.agents[i+1:]...)
			logrus.Debugf("agent %s decommissioned at t=%d", a.ID(), c.time)
			return
		}
	}
}

// Agents returns the registered agents in registration order.
func (c *Context) Agents() []Agent { return c.agents }

// Traders returns the registered agents that trade, in registration order.
func (c *Context) Traders() []Trader {
	var ts []Trader
	for _, a := range c.agents {
		if t, ok := a.(Trader); ok {
			ts = append(ts, t)
		}
	}
	return ts
}
