package sim

// Phase is a traffic light phase. At most one GREEN is active at a time
// for a conflicting lane-group set.
type Phase uint8

const (
	PhaseNSGreen Phase = iota
	PhaseNSYellow
	PhaseEWGreen
	PhaseEWYellow
	PhaseAllRed
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseNSGreen:
		return "ns_green"
	case PhaseNSYellow:
		return "ns_yellow"
	case PhaseEWGreen:
		return "ew_green"
	case PhaseEWYellow:
		return "ew_yellow"
	case PhaseAllRed:
		return "all_red"
	default:
		return "unknown"
	}
}

// PhaseDurations configures the fixed cycle. Durations are seconds;
// Green must be positive, Yellow and AllRed may be zero.
type PhaseDurations struct {
	Green  float64
	Yellow float64
	AllRed float64
}

// timedPhase is one entry of the expanded cycle.
type timedPhase struct {
	phase    Phase
	duration float64
}

// LightController is the per-intersection timed state machine. Transitions
// are cyclic and time-driven only; the controller runs indefinitely and
// cannot fail after construction.
type LightController struct {
	cycle     []timedPhase
	idx       int
	remaining float64
}

// NewLightController builds the fixed cycle
// NS_GREEN -> NS_YELLOW -> ALL_RED -> EW_GREEN -> EW_YELLOW -> ALL_RED.
// A malformed duration table is a construction-time ConfigError.
func NewLightController(d PhaseDurations) (*LightController, error) {
	if d.Green < 0 || d.Yellow < 0 || d.AllRed < 0 {
		return nil, ConfigError{Code: "PHASE_NEGATIVE", Message: "phase durations must be non-negative"}
	}
	total := 2 * (d.Green + d.Yellow + d.AllRed)
	if total <= 0 {
		return nil, ConfigError{Code: "PHASE_CYCLE", Message: "total light cycle duration is zero"}
	}

	c := &LightController{
		cycle: []timedPhase{
			{PhaseNSGreen, d.Green},
			{PhaseNSYellow, d.Yellow},
			{PhaseAllRed, d.AllRed},
			{PhaseEWGreen, d.Green},
			{PhaseEWYellow, d.Yellow},
			{PhaseAllRed, d.AllRed},
		},
	}
	c.idx = 0
	c.remaining = c.cycle[0].duration
	c.skipEmpty()
	return c, nil
}

// Advance moves the cycle forward by elapsed seconds.
func (c *LightController) Advance(elapsed float64) {
	c.remaining -= elapsed
	for c.remaining <= 0 {
		c.idx = (c.idx + 1) % len(c.cycle)
		c.remaining += c.cycle[c.idx].duration
	}
}

// skipEmpty moves past zero-duration phases at construction so the
// initial state is the first phase with actual duration.
func (c *LightController) skipEmpty() {
	for c.cycle[c.idx].duration <= 0 {
		c.idx = (c.idx + 1) % len(c.cycle)
		c.remaining = c.cycle[c.idx].duration
	}
}

// Phase returns the current phase.
func (c *LightController) Phase() Phase {
	return c.cycle[c.idx].phase
}

// Remaining returns the time left in the current phase.
func (c *LightController) Remaining() float64 {
	return c.remaining
}

// Allows reports whether the lane group may enter the intersection.
// Only the group's GREEN phase permits entry; yellow lets vehicles
// already past the stop line clear (the engine never gates those), and
// ALL_RED permits nothing.
func (c *LightController) Allows(g LaneGroup) bool {
	switch c.Phase() {
	case PhaseNSGreen:
		return g == GroupNS
	case PhaseEWGreen:
		return g == GroupEW
	default:
		return false
	}
}
