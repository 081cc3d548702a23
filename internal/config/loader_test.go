package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-traffic/internal/sim"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Road.MainType != "city_main" {
		t.Errorf("main type = %q, want city_main", cfg.Road.MainType)
	}
	if cfg.Engine.MaxVehicles != 120 {
		t.Errorf("max vehicles = %d, want 120", cfg.Engine.MaxVehicles)
	}
	if len(cfg.Vehicles) != sim.NumVehicleTypes {
		t.Errorf("vehicle entries = %d, want %d", len(cfg.Vehicles), sim.NumVehicleTypes)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traffic.yaml")
	doc := []byte("road:\n  main_type: highway\nengine:\n  max_vehicles: 40\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Road.MainType != "highway" {
		t.Errorf("main type = %q, want highway", cfg.Road.MainType)
	}
	if cfg.Engine.MaxVehicles != 40 {
		t.Errorf("max vehicles = %d, want 40", cfg.Engine.MaxVehicles)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}
}

func TestToSimConfigDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	simCfg, err := cfg.ToSimConfig()
	if err != nil {
		t.Fatalf("ToSimConfig failed: %v", err)
	}
	// The embedded document restates the built-in defaults.
	want := sim.DefaultConfig()
	if simCfg != want {
		t.Errorf("resolved config differs from defaults:\n got %+v\nwant %+v", simCfg, want)
	}

	// The resolved config must construct a simulation.
	if _, err := sim.New(simCfg); err != nil {
		t.Errorf("sim.New rejected resolved defaults: %v", err)
	}
}

func TestToSimConfigOverrides(t *testing.T) {
	cfg := TrafficConfig{
		Road: RoadConfig{MainType: "expressway", ArmLength: 400},
		Vehicles: map[string]VehicleParams{
			"bus": {MaxSpeed: 20},
		},
		Densities: map[string]DensityParams{
			"low": {SpawnMultiplier: 0.1},
		},
		Engine: EngineConfig{InitialDensity: "peak_hour"},
	}
	simCfg, err := cfg.ToSimConfig()
	if err != nil {
		t.Fatalf("ToSimConfig failed: %v", err)
	}
	if simCfg.MainRoad != sim.Expressway {
		t.Errorf("main road = %v, want expressway", simCfg.MainRoad)
	}
	if simCfg.ArmLength != 400 {
		t.Errorf("arm length = %.0f, want 400", simCfg.ArmLength)
	}
	if simCfg.Vehicles[sim.Bus].MaxSpeed != 20 {
		t.Errorf("bus max speed = %.1f, want 20", simCfg.Vehicles[sim.Bus].MaxSpeed)
	}
	// Untouched fields keep their defaults.
	if simCfg.Vehicles[sim.Bus].Length != sim.DefaultVehicleSpecs()[sim.Bus].Length {
		t.Error("bus length should keep its default")
	}
	if simCfg.Densities[sim.DensityLow].SpawnMultiplier != 0.1 {
		t.Error("low density multiplier override lost")
	}
	if simCfg.Density != sim.DensityPeakHour {
		t.Errorf("initial density = %v, want peak_hour", simCfg.Density)
	}
}

func TestToSimConfigRejectsUnknownNames(t *testing.T) {
	cases := []TrafficConfig{
		{Road: RoadConfig{MainType: "dirt_track"}},
		{Vehicles: map[string]VehicleParams{"horse_cart": {Length: 3}}},
		{Densities: map[string]DensityParams{"gridlock": {SpeedFraction: 0.1}}},
		{Engine: EngineConfig{InitialDensity: "extreme"}},
	}
	for i, c := range cases {
		if _, err := c.ToSimConfig(); err == nil {
			t.Errorf("case %d: expected error for unknown name", i)
		}
	}
}
