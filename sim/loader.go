package sim

import (
	"fmt"

	"github.com/jdangerx/cyclus/sim/scenario"
)

// FromScenario wires a parsed scenario into a ready-to-run simulator:
// commodity priorities and recipes go into the context, prototypes resolve
// to archetype builders, and every declared agent is scheduled for
// construction at step zero in declaration order.
func FromScenario(doc *scenario.Simulation) (*Simulator, error) {
	ctx := NewContext()

	for _, c := range doc.Commodities {
		ctx.SetPriority(c.Name, c.SolutionPriority)
	}

	for _, r := range doc.Recipes {
		fracs := make(map[string]float64, len(r.Nuclides))
		for _, n := range r.Nuclides {
			fracs[n.ID] += n.Comp
		}
		comp, err := NewComposition(Basis(r.Basis), fracs)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", r.Name, err)
		}
		ctx.AddRecipe(r.Name, comp)
	}

	// Archetype aliases from the archetypes block; a prototype's config
	// element names either an alias or a registered archetype directly.
	aliases := make(map[string]string)
	for _, spec := range doc.Archetypes.Specs {
		if !ArchetypeRegistered(spec.Name) {
			return nil, fmt.Errorf("archetype spec %q is not registered", spec.Name)
		}
		if spec.Alias != "" {
			aliases[spec.Alias] = spec.Name
		}
	}

	protos := make(map[string]scenario.Prototype, len(doc.Prototypes))
	for _, p := range doc.Prototypes {
		name := p.Config.Any.XMLName.Local
		if resolved, ok := aliases[name]; ok {
			name = resolved
		}
		if !ArchetypeRegistered(name) {
			return nil, fmt.Errorf("prototype %s configures unknown archetype %q", p.Name, name)
		}
		protos[p.Name] = p
	}

	built := make(map[string]Agent, len(doc.Agents))
	for _, decl := range doc.Agents {
		proto := protos[decl.Prototype]
		var parent Agent
		if decl.Parent != "" {
			parent = built[decl.Parent]
		}

		archetype := proto.Config.Any.XMLName.Local
		if resolved, ok := aliases[archetype]; ok {
			archetype = resolved
		}
		cfg := fmt.Sprintf("<%s>%s</%s>", archetype, proto.Config.Any.Inner, archetype)
		a, err := BuildAgent(archetype, decl.Name, parent, []byte(cfg))
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", decl.Name, err)
		}

		base := agentBase(a)
		if base != nil {
			base.prototype = decl.Prototype
			if proto.Lifetime != nil {
				base.Lifetime = *proto.Lifetime
			}
		}
		ctx.Timer().Schedule(NewBuildEvent(0, a, base))
		built[decl.Name] = a
	}

	control := ControlConfig{
		Duration:   doc.Control.Duration,
		StartMonth: doc.Control.StartMonth,
		StartYear:  doc.Control.StartYear,
		SimHandle:  doc.Control.SimHandle,
		Decay:      DecayMode(doc.Control.Decay),
	}
	if control.Decay == "" {
		control.Decay = DecayNever
	}
	return NewSimulator(ctx, control), nil
}

// hasBase is satisfied by every agent that embeds AgentBase.
type hasBase interface {
	base() *AgentBase
}

func agentBase(a Agent) *AgentBase {
	if hb, ok := a.(hasBase); ok {
		return hb.base()
	}
	return nil
}
