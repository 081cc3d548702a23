package config

import (
	_ "embed"
)

//go:embed defaults/traffic.yaml
var defaultTrafficYAML []byte

// DefaultTrafficConfig returns the built-in configuration, used when the
// embedded YAML cannot be parsed.
func DefaultTrafficConfig() TrafficConfig {
	return TrafficConfig{
		Road: RoadConfig{
			MainType:  "city_main",
			CrossType: "city_side",
			ArmLength: 250,
			StopZone:  60,
		},
		Lights: LightConfig{
			Green:  15,
			Yellow: 3,
			AllRed: 2,
		},
		Engine: EngineConfig{
			MaxVehicles:        120,
			SpawnRate:          0.25,
			SpawnClearance:     12,
			StandstillGap:      2,
			HeadwayTime:        1.5,
			LaneChangeDuration: 2,
			LaneChangeTrigger:  0.6,
			LaneChangeRearGap:  6,
			InitialDensity:     "medium",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML document.
func GetDefaultYAML() []byte {
	return defaultTrafficYAML
}
