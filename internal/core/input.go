package core

// Action represents a semantic control action, abstracted from physical
// key presses. The view reacts to intents, never to raw keys.
type Action int

const (
	ActionNone        Action = iota
	ActionPause              // Space - freeze/resume the simulation
	ActionStats              // S - toggle the statistics overlay
	ActionClear              // C - remove all vehicles
	ActionDensityLow         // 1 - switch to low density
	ActionDensityMed         // 2 - switch to medium density
	ActionDensityHigh        // 3 - switch to high density
	ActionDensityPeak        // 4 - switch to peak-hour density
	ActionQuit               // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionStats:
		return "Stats"
	case ActionClear:
		return "Clear"
	case ActionDensityLow:
		return "DensityLow"
	case ActionDensityMed:
		return "DensityMedium"
	case ActionDensityHigh:
		return "DensityHigh"
	case ActionDensityPeak:
		return "DensityPeakHour"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two frames.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
