package sim

// Config carries every in-memory definition the simulation needs at
// construction time. No file formats or ambient state belong here; the
// config package bridges YAML into this structure.
type Config struct {
	// Road layout: one main road crossed by one side road.
	MainRoad  RoadType
	CrossRoad RoadType
	ArmLength float64 // meters from network edge to the stop line
	StopZone  float64 // meters before the stop line where gating applies

	RoadTypes [NumRoadTypes]RoadTypeSpec
	Vehicles  [NumVehicleTypes]VehicleSpec
	Densities [NumDensities]DensityProfile
	Phases    PhaseDurations

	MaxVehicles int
	SpawnRate   float64 // base arrival rate per entry lane, vehicles/second

	// Motion tuning.
	StandstillGap      float64 // meters of clear road a stopped vehicle keeps
	HeadwayTime        float64 // seconds of headway in the safe-gap law
	SpawnClearance     float64 // meters of clear entry required to spawn
	LaneChangeDuration float64 // seconds for the lateral transition
	LaneChangeTrigger  float64 // change considered below this fraction of free flow
	LaneChangeRearGap  float64 // base rear safety margin, meters

	Seed    int64
	Density Density
}

// DefaultConfig returns a configuration mirroring the stock Indian
// crossroad scenario: a city main road crossed by a side road.
func DefaultConfig() Config {
	return Config{
		MainRoad:  CityMain,
		CrossRoad: CitySide,
		ArmLength: 250,
		StopZone:  60,

		RoadTypes: DefaultRoadTypeSpecs(),
		Vehicles:  DefaultVehicleSpecs(),
		Densities: DefaultDensityProfiles(),
		Phases:    PhaseDurations{Green: 15, Yellow: 3, AllRed: 2},

		MaxVehicles: 120,
		SpawnRate:   0.25,

		StandstillGap:      2.0,
		HeadwayTime:        1.5,
		SpawnClearance:     12.0,
		LaneChangeDuration: 2.0,
		LaneChangeTrigger:  0.6,
		LaneChangeRearGap:  6.0,

		Density: DensityMedium,
	}
}

// command is a control mutation queued by the UI and applied between
// ticks, never mid-pass.
type command struct {
	density *Density
	paused  *bool
	clear   bool
}

// Simulation is the facade the presentation layer drives: one Tick per
// frame, Snapshot/Stats/IntersectionStates to read back.
type Simulation struct {
	cfg      Config
	net      *Network
	registry *Registry
	engine   *Engine
	spawner  *Spawner

	density Density
	paused  bool
	tick    uint64
	elapsed float64
	exited  uint64

	pending []command
}

// New validates the configuration and assembles the simulation. Any
// configuration error is fatal: the core refuses to start rather than
// run with undefined geometry.
func New(cfg Config) (*Simulation, error) {
	if cfg.ArmLength <= 0 {
		return nil, ConfigError{Code: "ARM_LENGTH", Message: "arm length must be positive"}
	}
	if cfg.StopZone <= 0 {
		return nil, ConfigError{Code: "STOP_ZONE", Message: "stop zone must be positive"}
	}
	if cfg.MaxVehicles <= 0 {
		return nil, ConfigError{Code: "CAPACITY", Message: "max vehicle count must be positive"}
	}
	if cfg.SpawnRate < 0 {
		return nil, ConfigError{Code: "SPAWN_RATE", Message: "spawn rate must be non-negative"}
	}
	if cfg.LaneChangeDuration <= 0 || cfg.HeadwayTime <= 0 {
		return nil, ConfigError{Code: "MOTION_TUNING", Message: "lane change duration and headway time must be positive"}
	}
	if int(cfg.MainRoad) >= NumRoadTypes || int(cfg.CrossRoad) >= NumRoadTypes {
		return nil, ConfigError{Code: "ROAD_TYPE", Message: "unknown road type"}
	}
	for t := 0; t < NumVehicleTypes; t++ {
		spec := cfg.Vehicles[t]
		if spec.Length <= 0 || spec.MaxSpeed <= 0 || spec.Accel <= 0 || spec.Decel <= 0 {
			return nil, ConfigError{Code: "VEHICLE_SPEC", Message: VehicleType(t).String() + " spec has non-positive parameters"}
		}
	}
	if err := validateWeights(&cfg.Vehicles); err != nil {
		return nil, err
	}
	for d := 0; d < NumDensities; d++ {
		prof := cfg.Densities[d]
		if prof.SpeedFraction <= 0 || prof.SpeedFraction > 1 || prof.SpawnMultiplier < 0 {
			return nil, ConfigError{Code: "DENSITY_PROFILE", Message: Density(d).String() + " profile out of range"}
		}
	}

	net, err := buildCrossroad(&cfg)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		net:      net,
		registry: NewRegistry(cfg.MaxVehicles),
		density:  cfg.Density,
	}
	s.engine = NewEngine(net, &s.cfg.Vehicles, &s.cfg)
	s.spawner = NewSpawner(cfg.Seed, net, &s.cfg.Vehicles, &s.cfg)
	return s, nil
}

// Network exposes the static road description for rendering.
func (s *Simulation) Network() *Network {
	return s.net
}

// Tick advances the simulation by dt seconds. Queued control commands
// apply first; while paused the world stays frozen but commands still
// take effect.
func (s *Simulation) Tick(dt float64) {
	s.applyPending()
	if s.paused || dt <= 0 {
		return
	}
	s.tick++
	s.elapsed += dt

	for i := range s.net.Intersections {
		s.net.Intersections[i].Lights.Advance(dt)
	}

	prof := s.cfg.Densities[s.density]
	s.spawner.Step(dt, prof, s.registry)
	s.engine.Step(dt, prof, s.registry)

	for _, v := range s.registry.All() {
		if v.exited {
			s.exited++
		}
	}

	s.registry.Commit()
}

func (s *Simulation) applyPending() {
	for _, c := range s.pending {
		if c.density != nil {
			s.density = *c.density
		}
		if c.paused != nil {
			s.paused = *c.paused
		}
		if c.clear {
			s.registry.Clear()
			s.registry.Commit()
		}
	}
	s.pending = s.pending[:0]
}

// SetDensity queues a density change for the next tick boundary.
func (s *Simulation) SetDensity(d Density) {
	s.pending = append(s.pending, command{density: &d})
}

// ClearVehicles queues removal of all live vehicles.
func (s *Simulation) ClearVehicles() {
	s.pending = append(s.pending, command{clear: true})
}

// SetPaused queues a pause state change.
func (s *Simulation) SetPaused(p bool) {
	s.pending = append(s.pending, command{paused: &p})
}

// VehicleSpecFor returns the configured spec of a vehicle type.
func (s *Simulation) VehicleSpecFor(t VehicleType) VehicleSpec {
	return s.cfg.Vehicles[t]
}

// Paused reports the pause state as of the last tick boundary.
func (s *Simulation) Paused() bool {
	return s.paused
}

// Density reports the active density level as of the last tick boundary.
func (s *Simulation) Density() Density {
	return s.density
}

// TickCount returns the number of completed ticks.
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// Elapsed returns simulated seconds.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}
