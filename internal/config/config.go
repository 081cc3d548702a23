// Package config provides YAML-based simulation configuration loading
// for the traffic platform.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-traffic/internal/sim"
)

// TrafficConfig contains all tunable parameters of the simulation.
type TrafficConfig struct {
	Road      RoadConfig                `yaml:"road"`
	RoadTypes map[string]RoadTypeParams `yaml:"road_types"`
	Vehicles  map[string]VehicleParams  `yaml:"vehicles"`
	Densities map[string]DensityParams  `yaml:"densities"`
	Lights    LightConfig               `yaml:"lights"`
	Engine    EngineConfig              `yaml:"engine"`
}

// RoadConfig selects the crossroad layout.
type RoadConfig struct {
	MainType  string  `yaml:"main_type"`
	CrossType string  `yaml:"cross_type"`
	ArmLength float64 `yaml:"arm_length"`
	StopZone  float64 `yaml:"stop_zone"`
}

// RoadTypeParams overrides one road-type entry.
type RoadTypeParams struct {
	LanesPerDirection int     `yaml:"lanes_per_direction"`
	SpeedLimit        float64 `yaml:"speed_limit"`
}

// VehicleParams overrides one vehicle-type entry. Lengths are meters,
// speeds m/s.
type VehicleParams struct {
	Length      float64 `yaml:"length"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Accel       float64 `yaml:"accel"`
	Decel       float64 `yaml:"decel"`
	GapFactor   float64 `yaml:"gap_factor"`
	SpawnWeight float64 `yaml:"spawn_weight"`
}

// DensityParams overrides one density level.
type DensityParams struct {
	SpeedFraction   float64 `yaml:"speed_fraction"`
	SpawnMultiplier float64 `yaml:"spawn_multiplier"`
}

// LightConfig sets the signal cycle durations in seconds.
type LightConfig struct {
	Green  float64 `yaml:"green"`
	Yellow float64 `yaml:"yellow"`
	AllRed float64 `yaml:"all_red"`
}

// EngineConfig sets capacity, arrival and motion tuning.
type EngineConfig struct {
	MaxVehicles        int     `yaml:"max_vehicles"`
	SpawnRate          float64 `yaml:"spawn_rate"`
	SpawnClearance     float64 `yaml:"spawn_clearance"`
	StandstillGap      float64 `yaml:"standstill_gap"`
	HeadwayTime        float64 `yaml:"headway_time"`
	LaneChangeDuration float64 `yaml:"lane_change_duration"`
	LaneChangeTrigger  float64 `yaml:"lane_change_trigger"`
	LaneChangeRearGap  float64 `yaml:"lane_change_rear_gap"`
	InitialDensity     string  `yaml:"initial_density"`
}

// ToSimConfig resolves the YAML document against the built-in defaults
// and returns a ready simulation configuration. Unknown type or density
// names are errors; omitted sections keep their defaults.
func (c TrafficConfig) ToSimConfig() (sim.Config, error) {
	cfg := sim.DefaultConfig()

	if c.Road.MainType != "" {
		rt, err := ParseRoadType(c.Road.MainType)
		if err != nil {
			return cfg, err
		}
		cfg.MainRoad = rt
	}
	if c.Road.CrossType != "" {
		rt, err := ParseRoadType(c.Road.CrossType)
		if err != nil {
			return cfg, err
		}
		cfg.CrossRoad = rt
	}
	if c.Road.ArmLength > 0 {
		cfg.ArmLength = c.Road.ArmLength
	}
	if c.Road.StopZone > 0 {
		cfg.StopZone = c.Road.StopZone
	}

	for name, p := range c.RoadTypes {
		rt, err := ParseRoadType(name)
		if err != nil {
			return cfg, err
		}
		if p.LanesPerDirection > 0 {
			cfg.RoadTypes[rt].LanesPerDirection = p.LanesPerDirection
		}
		if p.SpeedLimit > 0 {
			cfg.RoadTypes[rt].SpeedLimit = p.SpeedLimit
		}
	}

	for name, p := range c.Vehicles {
		vt, err := ParseVehicleType(name)
		if err != nil {
			return cfg, err
		}
		spec := &cfg.Vehicles[vt]
		if p.Length > 0 {
			spec.Length = p.Length
		}
		if p.MaxSpeed > 0 {
			spec.MaxSpeed = p.MaxSpeed
		}
		if p.Accel > 0 {
			spec.Accel = p.Accel
		}
		if p.Decel > 0 {
			spec.Decel = p.Decel
		}
		if p.GapFactor > 0 {
			spec.GapFactor = p.GapFactor
		}
		if p.SpawnWeight > 0 {
			spec.SpawnWeight = p.SpawnWeight
		}
	}

	for name, p := range c.Densities {
		d, err := ParseDensity(name)
		if err != nil {
			return cfg, err
		}
		if p.SpeedFraction > 0 {
			cfg.Densities[d].SpeedFraction = p.SpeedFraction
		}
		if p.SpawnMultiplier > 0 {
			cfg.Densities[d].SpawnMultiplier = p.SpawnMultiplier
		}
	}

	if c.Lights.Green > 0 {
		cfg.Phases.Green = c.Lights.Green
	}
	if c.Lights.Yellow > 0 {
		cfg.Phases.Yellow = c.Lights.Yellow
	}
	if c.Lights.AllRed > 0 {
		cfg.Phases.AllRed = c.Lights.AllRed
	}

	e := c.Engine
	if e.MaxVehicles > 0 {
		cfg.MaxVehicles = e.MaxVehicles
	}
	if e.SpawnRate > 0 {
		cfg.SpawnRate = e.SpawnRate
	}
	if e.SpawnClearance > 0 {
		cfg.SpawnClearance = e.SpawnClearance
	}
	if e.StandstillGap > 0 {
		cfg.StandstillGap = e.StandstillGap
	}
	if e.HeadwayTime > 0 {
		cfg.HeadwayTime = e.HeadwayTime
	}
	if e.LaneChangeDuration > 0 {
		cfg.LaneChangeDuration = e.LaneChangeDuration
	}
	if e.LaneChangeTrigger > 0 {
		cfg.LaneChangeTrigger = e.LaneChangeTrigger
	}
	if e.LaneChangeRearGap > 0 {
		cfg.LaneChangeRearGap = e.LaneChangeRearGap
	}
	if e.InitialDensity != "" {
		d, err := ParseDensity(e.InitialDensity)
		if err != nil {
			return cfg, err
		}
		cfg.Density = d
	}

	return cfg, nil
}

// ParseRoadType resolves a road-type name from YAML or a CLI flag.
func ParseRoadType(name string) (sim.RoadType, error) {
	for rt := sim.RoadType(0); int(rt) < sim.NumRoadTypes; rt++ {
		if rt.String() == name {
			return rt, nil
		}
	}
	return 0, fmt.Errorf("unknown road type %q", name)
}

// ParseVehicleType resolves a vehicle-type name from YAML.
func ParseVehicleType(name string) (sim.VehicleType, error) {
	for vt := sim.VehicleType(0); int(vt) < sim.NumVehicleTypes; vt++ {
		if vt.String() == name {
			return vt, nil
		}
	}
	return 0, fmt.Errorf("unknown vehicle type %q", name)
}

// ParseDensity resolves a density name from YAML or a CLI flag.
func ParseDensity(name string) (sim.Density, error) {
	for d := sim.Density(0); int(d) < sim.NumDensities; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown density %q", name)
}
