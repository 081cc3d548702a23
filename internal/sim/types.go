// Package sim provides the core traffic simulation engine.
// This package is UI-agnostic and deterministic: given the same
// configuration, seed and tick sequence, two simulations produce
// identical snapshots.
package sim

// VehicleType identifies one of the fixed vehicle classes on the road.
// All per-type behavior is driven by the VehicleSpec table; the engine
// never branches on the type beyond the table lookup.
type VehicleType uint8

const (
	Car VehicleType = iota
	Bus
	Truck
	Motorcycle
	AutoRickshaw
	Bicycle
	Tempo

	NumVehicleTypes = int(Tempo) + 1
)

// String returns the string representation of a vehicle type.
func (t VehicleType) String() string {
	switch t {
	case Car:
		return "car"
	case Bus:
		return "bus"
	case Truck:
		return "truck"
	case Motorcycle:
		return "motorcycle"
	case AutoRickshaw:
		return "auto_rickshaw"
	case Bicycle:
		return "bicycle"
	case Tempo:
		return "tempo"
	default:
		return "unknown"
	}
}

// VehicleSpec holds the fixed physical parameters of a vehicle type.
// Lengths are meters, speeds m/s, accelerations m/s².
type VehicleSpec struct {
	Length      float64
	MaxSpeed    float64
	Accel       float64
	Decel       float64 // braking capability, positive magnitude, >= Accel
	GapFactor   float64 // scales safe following distance; <1 models lane-splitting two-wheelers
	SpawnWeight float64 // relative spawn probability, weights sum to 1.0
}

// DefaultVehicleSpecs returns the stock spec table for Indian mixed traffic.
func DefaultVehicleSpecs() [NumVehicleTypes]VehicleSpec {
	return [NumVehicleTypes]VehicleSpec{
		Car:          {Length: 4.2, MaxSpeed: 22.2, Accel: 2.5, Decel: 4.5, GapFactor: 1.0, SpawnWeight: 0.35},
		Bus:          {Length: 11.0, MaxSpeed: 16.7, Accel: 1.0, Decel: 2.5, GapFactor: 1.6, SpawnWeight: 0.15},
		Truck:        {Length: 8.5, MaxSpeed: 19.4, Accel: 1.2, Decel: 2.8, GapFactor: 1.5, SpawnWeight: 0.20},
		Motorcycle:   {Length: 2.0, MaxSpeed: 25.0, Accel: 3.0, Decel: 5.0, GapFactor: 0.6, SpawnWeight: 0.15},
		AutoRickshaw: {Length: 2.8, MaxSpeed: 13.9, Accel: 1.8, Decel: 3.5, GapFactor: 0.9, SpawnWeight: 0.10},
		Bicycle:      {Length: 1.8, MaxSpeed: 6.9, Accel: 1.0, Decel: 2.5, GapFactor: 0.6, SpawnWeight: 0.03},
		Tempo:        {Length: 5.0, MaxSpeed: 15.3, Accel: 1.5, Decel: 3.0, GapFactor: 1.1, SpawnWeight: 0.02},
	}
}

// Density is the configured congestion level. It is injected into the
// simulation as a value, never read from ambient state, so it can change
// between ticks without invalidating in-flight vehicles.
type Density uint8

const (
	DensityLow Density = iota
	DensityMedium
	DensityHigh
	DensityPeakHour

	NumDensities = int(DensityPeakHour) + 1
)

// String returns the string representation of a density level.
func (d Density) String() string {
	switch d {
	case DensityLow:
		return "low"
	case DensityMedium:
		return "medium"
	case DensityHigh:
		return "high"
	case DensityPeakHour:
		return "peak_hour"
	default:
		return "unknown"
	}
}

// DensityProfile maps a density level to its multipliers. SpeedFraction
// scales every vehicle's free-flow target speed; SpawnMultiplier scales
// the per-lane arrival rate.
type DensityProfile struct {
	SpeedFraction   float64
	SpawnMultiplier float64
}

// DefaultDensityProfiles returns the stock density table.
func DefaultDensityProfiles() [NumDensities]DensityProfile {
	return [NumDensities]DensityProfile{
		DensityLow:      {SpeedFraction: 0.8, SpawnMultiplier: 0.5},
		DensityMedium:   {SpeedFraction: 0.7, SpawnMultiplier: 1.0},
		DensityHigh:     {SpeedFraction: 0.6, SpawnMultiplier: 1.6},
		DensityPeakHour: {SpeedFraction: 0.4, SpawnMultiplier: 2.5},
	}
}
