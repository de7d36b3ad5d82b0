// Package scenario parses the XML simulation input document.
//
// A scenario is a <simulation> element with one <control> block, commodity
// declarations carrying solution priorities, an <archetypes> listing,
// <prototype> blocks whose <config> child names an archetype, <agent>
// deployment blocks, and <recipe> blocks. Parsing is strict about the
// fields the exchange depends on: the legacy solution_order spelling is
// rejected rather than silently translated.
package scenario

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Simulation is the root scenario document.
type Simulation struct {
	XMLName     xml.Name    `xml:"simulation"`
	Control     Control     `xml:"control"`
	Commodities []Commodity `xml:"commodity"`
	Archetypes  Archetypes  `xml:"archetypes"`
	Prototypes  []Prototype `xml:"prototype"`
	Agents      []AgentDecl `xml:"agent"`
	Recipes     []Recipe    `xml:"recipe"`
}

// Control carries the run parameters.
type Control struct {
	Duration   int    `xml:"duration"`
	StartMonth int    `xml:"startmonth"`
	StartYear  int    `xml:"startyear"`
	SimHandle  string `xml:"simhandle"`
	Decay      string `xml:"decay"`
}

// Commodity declares a traded commodity and its solution priority, which
// orders request sets in the exchange (higher first).
type Commodity struct {
	Name             string   `xml:"name"`
	SolutionPriority float64  `xml:"solution_priority"`
	SolutionOrder    *float64 `xml:"solution_order"` // legacy, rejected
}

// Archetypes lists the archetype specs a scenario may instantiate.
type Archetypes struct {
	Specs []Spec `xml:"spec"`
}

// Spec names one archetype. Path and Lib locate external archetype
// libraries; built-ins need only Name. Alias renames the archetype for
// prototype config blocks.
type Spec struct {
	Path  string `xml:"path"`
	Lib   string `xml:"lib"`
	Name  string `xml:"name"`
	Alias string `xml:"alias"`
}

// Prototype binds a name to an archetype configuration. The config child
// holds exactly one element whose name selects the archetype.
type Prototype struct {
	Name     string `xml:"name"`
	Lifetime *int   `xml:"lifetime"`
	Config   Config `xml:"config"`
}

// Config captures the archetype choice element and its raw contents for
// archetype-specific decoding.
type Config struct {
	Any ConfigChoice `xml:",any"`
}

// ConfigChoice is the single child of a config block.
type ConfigChoice struct {
	XMLName xml.Name
	Inner   string `xml:",innerxml"`
}

// AgentDecl deploys one prototype, optionally under a parent agent.
type AgentDecl struct {
	Name      string `xml:"name"`
	Prototype string `xml:"prototype"`
	Parent    string `xml:"parent"`
}

// Recipe declares a named composition.
type Recipe struct {
	Name     string    `xml:"name"`
	Basis    string    `xml:"basis"`
	Nuclides []Nuclide `xml:"nuclide"`
}

// Nuclide pairs a nuclide id with its mass or atom fraction.
type Nuclide struct {
	ID   string  `xml:"id"`
	Comp float64 `xml:"comp"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Simulation, error) {
	var s Simulation
	if err := xml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("malformed scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

func (s *Simulation) validate() error {
	if s.Control.Duration <= 0 {
		return fmt.Errorf("control/duration must be positive, got %d", s.Control.Duration)
	}
	if m := s.Control.StartMonth; m != 0 && (m < 1 || m > 12) {
		return fmt.Errorf("control/startmonth must be in 1-12, got %d", m)
	}
	switch s.Control.Decay {
	case "", "never", "lazy":
	default:
		return fmt.Errorf("control/decay must be never or lazy, got %q", s.Control.Decay)
	}
	for _, c := range s.Commodities {
		if c.Name == "" {
			return fmt.Errorf("commodity with no name")
		}
		if c.SolutionOrder != nil {
			return fmt.Errorf("commodity %s uses the legacy solution_order field; use solution_priority", c.Name)
		}
	}
	if len(s.Prototypes) == 0 {
		return fmt.Errorf("scenario declares no prototypes")
	}
	protos := make(map[string]bool)
	for _, p := range s.Prototypes {
		if p.Name == "" {
			return fmt.Errorf("prototype with no name")
		}
		if protos[p.Name] {
			return fmt.Errorf("duplicate prototype %s", p.Name)
		}
		if p.Config.Any.XMLName.Local == "" {
			return fmt.Errorf("prototype %s has an empty config block", p.Name)
		}
		if p.Lifetime != nil && *p.Lifetime < 0 {
			return fmt.Errorf("prototype %s has negative lifetime %d", p.Name, *p.Lifetime)
		}
		protos[p.Name] = true
	}
	if len(s.Agents) == 0 {
		return fmt.Errorf("scenario deploys no agents")
	}
	agents := make(map[string]bool)
	for _, a := range s.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent with no name")
		}
		if agents[a.Name] {
			return fmt.Errorf("duplicate agent %s", a.Name)
		}
		if !protos[a.Prototype] {
			return fmt.Errorf("agent %s references unknown prototype %q", a.Name, a.Prototype)
		}
		if a.Parent != "" && !agents[a.Parent] {
			return fmt.Errorf("agent %s references parent %q before its declaration", a.Name, a.Parent)
		}
		agents[a.Name] = true
	}
	for _, r := range s.Recipes {
		if r.Name == "" {
			return fmt.Errorf("recipe with no name")
		}
		if r.Basis != "mass" && r.Basis != "atom" {
			return fmt.Errorf("recipe %s basis must be mass or atom, got %q", r.Name, r.Basis)
		}
		if len(r.Nuclides) == 0 {
			return fmt.Errorf("recipe %s has no nuclides", r.Name)
		}
		for _, n := range r.Nuclides {
			if n.Comp <= 0 {
				return fmt.Errorf("recipe %s nuclide %s has non-positive comp %v", r.Name, n.ID, n.Comp)
			}
		}
	}
	return nil
}
