package sim

// DecayMode selects how (whether) isotopic decay is treated. Only lazy and
// never are recognized; neither performs decay arithmetic in this core.
type DecayMode string

const (
	DecayNever DecayMode = "never"
	DecayLazy  DecayMode = "lazy"
)

// ControlConfig groups the simulation control parameters from a scenario's
// control block.
type ControlConfig struct {
	Duration   int       // number of timesteps to run (must be > 0)
	StartMonth int       // 1-12
	StartYear  int       // calendar year of step 0
	SimHandle  string    // free-form label for the run (optional)
	Decay      DecayMode // decay treatment (default never)
}
