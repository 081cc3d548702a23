package sim

import (
	"errors"
	"testing"
)

func newSpawnerWorld(t *testing.T, seed int64) (*Spawner, *Registry, Config) {
	t.Helper()
	cfg := DefaultConfig()
	net, err := buildCrossroad(&cfg)
	if err != nil {
		t.Fatalf("buildCrossroad failed: %v", err)
	}
	reg := NewRegistry(cfg.MaxVehicles)
	sp := NewSpawner(seed, net, &cfg.Vehicles, &cfg)
	return sp, reg, cfg
}

func TestSpawnerFillsClearEntries(t *testing.T) {
	sp, reg, cfg := newSpawnerWorld(t, 1)

	// Drive the arrival probability to 1 so every clear entry spawns.
	prof := DensityProfile{SpeedFraction: 0.7, SpawnMultiplier: 1 / cfg.SpawnRate}
	sp.Step(1.0, prof, reg)
	reg.Commit()

	if reg.Len() != 6 {
		t.Fatalf("spawned %d vehicles, want one per entry lane", reg.Len())
	}
	if sp.Spawned() != 6 {
		t.Errorf("Spawned() = %d, want 6", sp.Spawned())
	}
	for _, v := range reg.All() {
		spec := cfg.Vehicles[v.Type]
		if v.Pos != spec.Length {
			t.Errorf("vehicle %d front at %.2f, want %.2f", v.ID, v.Pos, spec.Length)
		}
		if v.Speed != 0 {
			t.Errorf("vehicle %d spawned moving", v.ID)
		}
		if v.Jitter < 0.8 || v.Jitter > 1.0 {
			t.Errorf("vehicle %d jitter %.3f outside [0.8, 1.0]", v.ID, v.Jitter)
		}
	}

	// The entries are now occupied at the spawn point: the next round
	// must skip every lane.
	sp.Step(1.0, prof, reg)
	reg.Commit()
	if reg.Len() != 6 {
		t.Errorf("occupied entries respawned: live = %d", reg.Len())
	}
}

func TestSpawnerDeterminism(t *testing.T) {
	spA, regA, cfg := newSpawnerWorld(t, 99)
	spB, regB, _ := newSpawnerWorld(t, 99)
	prof := cfg.Densities[DensityHigh]

	for i := 0; i < 200; i++ {
		spA.Step(0.1, prof, regA)
		regA.Commit()
		spB.Step(0.1, prof, regB)
		regB.Commit()
	}

	a, b := regA.All(), regB.All()
	if len(a) != len(b) {
		t.Fatalf("spawn counts diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Type != b[i].Type || a[i].Lane != b[i].Lane || a[i].Jitter != b[i].Jitter {
			t.Fatalf("vehicle %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpawnerCapacitySkips(t *testing.T) {
	cfg := DefaultConfig()
	net, err := buildCrossroad(&cfg)
	if err != nil {
		t.Fatalf("buildCrossroad failed: %v", err)
	}
	reg := NewRegistry(2)
	sp := NewSpawner(3, net, &cfg.Vehicles, &cfg)

	prof := DensityProfile{SpeedFraction: 0.7, SpawnMultiplier: 1 / cfg.SpawnRate}
	sp.Step(1.0, prof, reg)
	reg.Commit()

	if reg.Len() != 2 {
		t.Fatalf("live = %d, want capacity 2", reg.Len())
	}
	if sp.CapacitySkips() != 4 {
		t.Errorf("CapacitySkips() = %d, want 4", sp.CapacitySkips())
	}
}

func TestSpawnWeightValidation(t *testing.T) {
	specs := DefaultVehicleSpecs()
	if err := validateWeights(&specs); err != nil {
		t.Errorf("stock weights should validate: %v", err)
	}

	var cfgErr ConfigError

	bad := specs
	bad[Car].SpawnWeight = -0.1
	if err := validateWeights(&bad); err == nil {
		t.Error("negative weight should fail")
	} else if !errors.As(err, &cfgErr) || cfgErr.Code != "SPAWN_WEIGHT" {
		t.Errorf("unexpected error: %v", err)
	}

	bad = specs
	bad[Car].SpawnWeight = 0.5
	if err := validateWeights(&bad); err == nil {
		t.Error("weights summing past 1 should fail")
	} else if !errors.As(err, &cfgErr) || cfgErr.Code != "SPAWN_WEIGHT_SUM" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDrawTypeCoversTable(t *testing.T) {
	sp, _, _ := newSpawnerWorld(t, 7)

	counts := map[VehicleType]int{}
	for i := 0; i < 10000; i++ {
		counts[sp.drawType()]++
	}
	// Every type with meaningful weight should appear over 10k draws.
	for _, vt := range []VehicleType{Car, Bus, Truck, Motorcycle, AutoRickshaw} {
		if counts[vt] == 0 {
			t.Errorf("type %v never drawn", vt)
		}
	}
	// Car carries the largest weight and should dominate.
	if counts[Car] < counts[Bus] {
		t.Error("car should be drawn more often than bus")
	}
}
