package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for scheduled lifecycle events. Each event
// has a Timestamp (in timesteps) and an Execute method that mutates the
// context when the timer reaches it.
type Event interface {
	Timestamp() int
	Execute(ctx *Context)
}

// BuildEvent brings an agent into the simulation at its scheduled step and
// schedules its decommission if the agent has a bounded lifetime.
type BuildEvent struct {
	time  int
	Agent Agent

	// Base gives access to lifecycle fields; nil for agents built outside
	// the prototype system.
	Base *AgentBase
}

// NewBuildEvent schedules agent (with base b) for construction at time t.
func NewBuildEvent(t int, agent Agent, b *AgentBase) *BuildEvent {
	return &BuildEvent{time: t, Agent: agent, Base: b}
}

// Timestamp returns the scheduled build step.
func (e *BuildEvent) Timestamp() int { return e.time }

// Execute registers the agent and schedules decommission at the end of its
// lifetime.
func (e *BuildEvent) Execute(ctx *Context) {
	if err := ctx.Register(e.Agent); err != nil {
		logrus.Errorf("build of %s failed: %v", e.Agent.ID(), err)
		return
	}
	if e.Base != nil {
		e.Base.EnterTime = e.time
		if e.Base.Lifetime >= 0 {
			ctx.Timer().Schedule(&DecommissionEvent{
				time:  e.time + e.Base.Lifetime,
				Agent: e.Agent,
			})
		}
	}
}

// DecommissionEvent removes an agent from the simulation.
type DecommissionEvent struct {
	time  int
	Agent Agent
}

// Timestamp returns the scheduled decommission step.
func (e *DecommissionEvent) Timestamp() int { return e.time }

// Execute deregisters the agent.
func (e *DecommissionEvent) Execute(ctx *Context) {
	ctx.Deregister(e.Agent)
}
