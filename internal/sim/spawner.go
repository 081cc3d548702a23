package sim

import (
	"math"
	"math/rand"
)

// Spawner is the stochastic arrival process. Each tick it rolls one
// arrival draw per entry lane; a blocked entry or a full registry simply
// skips that lane for the tick — spawning is opportunistic, never queued.
type Spawner struct {
	rng   *rand.Rand
	net   *Network
	specs *[NumVehicleTypes]VehicleSpec
	cfg   *Config

	spawned       uint64
	capacitySkips uint64
}

// NewSpawner creates a spawner with its own seeded RNG, the only source
// of randomness in the simulation.
func NewSpawner(seed int64, net *Network, specs *[NumVehicleTypes]VehicleSpec, cfg *Config) *Spawner {
	return &Spawner{
		rng:   rand.New(rand.NewSource(seed)),
		net:   net,
		specs: specs,
		cfg:   cfg,
	}
}

// Spawned returns the total number of vehicles admitted.
func (s *Spawner) Spawned() uint64 {
	return s.spawned
}

// CapacitySkips returns how many spawn draws were dropped because the
// registry was full. These are soft events, not failures.
func (s *Spawner) CapacitySkips() uint64 {
	return s.capacitySkips
}

// Step runs one spawn round. Entry lanes are visited in ascending id
// order so the RNG consumption sequence is deterministic.
func (s *Spawner) Step(dt float64, prof DensityProfile, reg *Registry) {
	p := s.cfg.SpawnRate * prof.SpawnMultiplier * dt
	if p > 1 {
		p = 1
	}
	for _, laneID := range s.net.EntryLanes() {
		if s.rng.Float64() >= p {
			continue
		}
		if !s.entryClear(laneID, reg) {
			continue
		}
		t := s.drawType()
		spec := &s.specs[t]
		v := &Vehicle{
			Type: t,
			Lane: laneID,
			// Front placed one body length in so the rear sits at the
			// lane entry.
			Pos:    spec.Length,
			Speed:  0,
			Jitter: 0.8 + 0.2*s.rng.Float64(),
		}
		if _, err := reg.Add(v); err != nil {
			s.capacitySkips++
			continue
		}
		s.spawned++
	}
}

// drawType picks a vehicle type by walking the cumulative spawn weights,
// falling back to Car against rounding residue.
func (s *Spawner) drawType() VehicleType {
	r := s.rng.Float64()
	cum := 0.0
	for t := 0; t < NumVehicleTypes; t++ {
		cum += s.specs[t].SpawnWeight
		if r <= cum {
			return VehicleType(t)
		}
	}
	return Car
}

// entryClear reports whether the lane's entry point has the configured
// clear distance to the nearest vehicle, counting vehicles staged for
// admission this tick so two spawns never stack.
func (s *Spawner) entryClear(lane LaneID, reg *Registry) bool {
	blocked := func(v *Vehicle) bool {
		if v.Lane != lane && !(v.Change.Active && v.Change.Target == lane) {
			return false
		}
		spec := &s.specs[v.Type]
		return v.Rear(spec) < s.cfg.SpawnClearance
	}
	for _, v := range reg.All() {
		if blocked(v) {
			return false
		}
	}
	for _, v := range reg.pendingAdd {
		if blocked(v) {
			return false
		}
	}
	return true
}

// validateWeights checks that the spawn weights form a probability table.
func validateWeights(specs *[NumVehicleTypes]VehicleSpec) error {
	sum := 0.0
	for t := 0; t < NumVehicleTypes; t++ {
		w := specs[t].SpawnWeight
		if w < 0 {
			return ConfigError{Code: "SPAWN_WEIGHT", Message: "spawn weights must be non-negative"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 0.01 {
		return ConfigError{Code: "SPAWN_WEIGHT_SUM", Message: "spawn weights must sum to 1.0"}
	}
	return nil
}
