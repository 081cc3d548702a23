package sim

import "sort"

// VehicleSnapshot is one vehicle's state frozen at a tick boundary, safe
// for the presentation layer to hold between frames.
type VehicleSnapshot struct {
	ID            VehicleID
	Type          VehicleType
	Lane          LaneID
	Progress      float64 // front position along the lane, meters
	LateralOffset float64 // signed lane-width fraction during a lane change
	Speed         float64 // meters/second
}

// IntersectionState is the current signal state of one intersection.
type IntersectionState struct {
	ID        IntersectionID
	Phase     Phase
	Remaining float64
}

// Stats aggregates counters for the stats overlay and session records.
type Stats struct {
	Tick          uint64
	Elapsed       float64
	Live          int
	Spawned       uint64
	Exited        uint64
	CapacitySkips uint64
	ClampEvents   uint64
	AvgSpeed      float64
	Density       Density
	ByType        [NumVehicleTypes]int
}

// Snapshot returns the live vehicles in ascending id order. The returned
// slice is freshly allocated and detached from simulation state.
func (s *Simulation) Snapshot() []VehicleSnapshot {
	live := s.registry.All()
	out := make([]VehicleSnapshot, 0, len(live))
	for _, v := range live {
		out = append(out, VehicleSnapshot{
			ID:            v.ID,
			Type:          v.Type,
			Lane:          v.Lane,
			Progress:      v.Pos,
			LateralOffset: v.LateralOffset(),
			Speed:         v.Speed,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IntersectionStates reports the signal phase at every intersection.
func (s *Simulation) IntersectionStates() []IntersectionState {
	out := make([]IntersectionState, 0, len(s.net.Intersections))
	for i := range s.net.Intersections {
		n := &s.net.Intersections[i]
		out = append(out, IntersectionState{
			ID:        n.ID,
			Phase:     n.Lights.Phase(),
			Remaining: n.Lights.Remaining(),
		})
	}
	return out
}

// Stats computes the aggregate counters as of the last tick boundary.
func (s *Simulation) Stats() Stats {
	st := Stats{
		Tick:          s.tick,
		Elapsed:       s.elapsed,
		Spawned:       s.spawner.Spawned(),
		Exited:        s.exited,
		CapacitySkips: s.spawner.CapacitySkips(),
		ClampEvents:   s.engine.ClampEvents(),
		Density:       s.density,
	}
	live := s.registry.All()
	st.Live = len(live)
	total := 0.0
	for _, v := range live {
		total += v.Speed
		st.ByType[v.Type]++
	}
	if st.Live > 0 {
		st.AvgSpeed = total / float64(st.Live)
	}
	return st
}
