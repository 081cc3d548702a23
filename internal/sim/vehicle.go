package sim

// VehicleID uniquely identifies a live vehicle. IDs are monotonically
// assigned and never reused for the lifetime of a simulation.
type VehicleID int64

// LaneChange tracks a multi-tick lateral transition. While Active, the
// vehicle is checked against lead vehicles in both its current and target
// lane; the lane reference switches atomically when Progress reaches 1.
type LaneChange struct {
	Active   bool
	Target   LaneID
	Progress float64 // 0 -> 1
	dir      float64 // -1 toward left neighbor, +1 toward right
}

// Vehicle is a single simulated vehicle. Position is the progress of the
// vehicle FRONT along its lane; the rear trails by the type's length.
// Vehicles are owned exclusively by the Registry; the engine borrows
// mutable access for the duration of one tick only.
type Vehicle struct {
	ID    VehicleID
	Type  VehicleType
	Lane  LaneID
	Pos   float64
	Speed float64

	// Jitter is a per-vehicle factor in [0.8, 1.0] applied to the
	// free-flow target speed, drawn once at spawn.
	Jitter float64

	Change LaneChange

	exited bool
}

// Front returns the position of the vehicle's front bumper.
func (v *Vehicle) Front() float64 {
	return v.Pos
}

// Rear returns the position of the vehicle's rear bumper.
func (v *Vehicle) Rear(spec *VehicleSpec) float64 {
	return v.Pos - spec.Length
}

// LateralOffset is the signed fraction of a lane width the vehicle has
// shifted toward its lane-change target, for rendering. Zero when no
// change is in progress.
func (v *Vehicle) LateralOffset() float64 {
	if !v.Change.Active {
		return 0
	}
	return v.Change.dir * v.Change.Progress
}

// beginLaneChange starts a transition toward the target lane.
func (v *Vehicle) beginLaneChange(target LaneID, towardRight bool) {
	dir := -1.0
	if towardRight {
		dir = 1.0
	}
	v.Change = LaneChange{Active: true, Target: target, dir: dir}
}

// completeLaneChange atomically switches the lane reference and resets
// the lane-change state.
func (v *Vehicle) completeLaneChange() {
	v.Lane = v.Change.Target
	v.Change = LaneChange{}
}
