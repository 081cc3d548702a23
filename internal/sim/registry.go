package sim

import "errors"

// ErrCapacityExceeded is returned by Registry.Add when the configured
// maximum live-vehicle count is reached. The spawner treats it as "skip
// this tick", never as a fatal failure.
var ErrCapacityExceeded = errors.New("sim: vehicle capacity exceeded")

// Registry owns the set of live vehicles. The live slice is stable for
// the duration of a tick: additions and removals are staged and applied
// by Commit between ticks, so the engine's iteration never invalidates.
type Registry struct {
	capacity int
	nextID   VehicleID

	live          []*Vehicle
	pendingAdd    []*Vehicle
	pendingRemove map[VehicleID]bool
	pendingClear  bool
}

// NewRegistry creates a registry with the given capacity.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		capacity:      capacity,
		nextID:        1,
		pendingRemove: make(map[VehicleID]bool),
	}
}

// Len returns the number of live vehicles, excluding staged mutations.
func (r *Registry) Len() int {
	return len(r.live)
}

// Add stages a vehicle for admission and assigns its id. Capacity counts
// both live and already-staged vehicles.
func (r *Registry) Add(v *Vehicle) (VehicleID, error) {
	if len(r.live)+len(r.pendingAdd)-len(r.pendingRemove) >= r.capacity {
		return 0, ErrCapacityExceeded
	}
	v.ID = r.nextID
	r.nextID++
	r.pendingAdd = append(r.pendingAdd, v)
	return v.ID, nil
}

// Remove stages a vehicle for removal after the current tick.
func (r *Registry) Remove(id VehicleID) {
	r.pendingRemove[id] = true
}

// Clear stages removal of every live vehicle.
func (r *Registry) Clear() {
	r.pendingClear = true
}

// All returns the live vehicle slice. Callers must not retain it across
// ticks; Commit replaces it.
func (r *Registry) All() []*Vehicle {
	return r.live
}

// Commit applies staged mutations. Removals run before additions so a
// vehicle exiting at full capacity frees its slot the same tick boundary.
// IDs are never reset, so no external reference can alias a new vehicle.
func (r *Registry) Commit() {
	if r.pendingClear {
		r.live = r.live[:0]
		r.pendingClear = false
		r.pendingAdd = r.pendingAdd[:0]
		for id := range r.pendingRemove {
			delete(r.pendingRemove, id)
		}
		return
	}

	if len(r.pendingRemove) > 0 {
		kept := r.live[:0]
		for _, v := range r.live {
			if !r.pendingRemove[v.ID] {
				kept = append(kept, v)
			}
		}
		r.live = kept
		for id := range r.pendingRemove {
			delete(r.pendingRemove, id)
		}
	}

	if len(r.pendingAdd) > 0 {
		r.live = append(r.live, r.pendingAdd...)
		r.pendingAdd = r.pendingAdd[:0]
	}
}
