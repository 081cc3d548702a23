package sim

import (
	"math"
	"testing"
)

// newTestWorld builds the default crossroad with lights frozen in their
// initial phase (NS green, EW red) because nothing advances them.
func newTestWorld(t *testing.T) (*Network, *Engine, *Registry, Config) {
	t.Helper()
	cfg := DefaultConfig()
	net, err := buildCrossroad(&cfg)
	if err != nil {
		t.Fatalf("buildCrossroad failed: %v", err)
	}
	reg := NewRegistry(cfg.MaxVehicles)
	eng := NewEngine(net, &cfg.Vehicles, &cfg)
	return net, eng, reg, cfg
}

func TestStationaryLeaderHoldsGap(t *testing.T) {
	_, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	// Lane 0 is EW, held at red. The leader sits exactly on the stop line
	// and cannot move; the follower closes in from 100m behind and must
	// come to rest without ever touching the leader's rear bumper.
	leader := &Vehicle{Type: Car, Lane: 0, Pos: cfg.ArmLength, Jitter: 1}
	follower := &Vehicle{Type: Car, Lane: 0, Pos: cfg.ArmLength - 100, Jitter: 1}
	if _, err := reg.Add(leader); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := reg.Add(follower); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()

	for i := 0; i < 600; i++ {
		eng.Step(0.1, prof, reg)
		reg.Commit()
	}

	leaderRear := leader.Pos - cfg.Vehicles[Car].Length
	if follower.Pos > leaderRear {
		t.Errorf("follower front %.2f overlaps leader rear %.2f", follower.Pos, leaderRear)
	}
	if follower.Pos < leaderRear-10 {
		t.Errorf("follower stopped %.2f short of the leader, want within the standstill gap", leaderRear-follower.Pos)
	}
	if follower.Speed > 0.1 {
		t.Errorf("follower speed = %.2f, want near 0", follower.Speed)
	}
	if leader.Pos != cfg.ArmLength {
		t.Errorf("leader moved to %.2f under red", leader.Pos)
	}
	if eng.ClampEvents() != 0 {
		t.Errorf("overlap clamp fired %d times", eng.ClampEvents())
	}
}

func TestRedLightStopsTraffic(t *testing.T) {
	_, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	v := &Vehicle{Type: Car, Lane: 0, Pos: cfg.ArmLength - 60, Speed: 10, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()

	for i := 0; i < 300; i++ {
		eng.Step(0.1, prof, reg)
		reg.Commit()
		if v.Pos > cfg.ArmLength {
			t.Fatalf("tick %d: front %.3f crossed the stop line under red", i, v.Pos)
		}
	}
	if v.Pos < cfg.ArmLength-2 {
		t.Errorf("vehicle stopped %.2f short of the line", cfg.ArmLength-v.Pos)
	}
	if v.Speed > 0.3 {
		t.Errorf("speed at the line = %.2f, want near 0", v.Speed)
	}
}

func TestGreenLaneVehicleExits(t *testing.T) {
	net, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	// Lane 4 is NS and the frozen phase is NS green: the vehicle rolls
	// through and leaves the network at the lane end.
	nsLane := LaneID(4)
	if net.Lanes[nsLane].Group != GroupNS {
		t.Fatalf("lane 4 group = %v, want ns", net.Lanes[nsLane].Group)
	}
	v := &Vehicle{Type: Car, Lane: nsLane, Pos: net.Lanes[nsLane].Length - 10, Speed: 8, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()

	for i := 0; i < 100; i++ {
		eng.Step(0.1, prof, reg)
		reg.Commit()
	}
	if !v.exited {
		t.Error("vehicle should have exited")
	}
	if reg.Len() != 0 {
		t.Errorf("live count = %d, want 0 after exit", reg.Len())
	}
}

func TestAccelerationBounded(t *testing.T) {
	_, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	v := &Vehicle{Type: Bus, Lane: 4, Pos: 10, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()

	spec := cfg.Vehicles[Bus]
	dt := 0.1
	prev := v.Speed
	for i := 0; i < 200; i++ {
		eng.Step(dt, prof, reg)
		reg.Commit()
		if v.exited {
			break
		}
		if gain := v.Speed - prev; gain > spec.Accel*dt+1e-9 {
			t.Fatalf("tick %d: speed gained %.3f, max %.3f", i, gain, spec.Accel*dt)
		}
		if v.Speed < 0 || v.Speed > spec.MaxSpeed {
			t.Fatalf("tick %d: speed %.3f out of [0, %.1f]", i, v.Speed, spec.MaxSpeed)
		}
		prev = v.Speed
	}
}

func TestLaneChangeProgression(t *testing.T) {
	_, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	v := &Vehicle{Type: Car, Lane: 0, Pos: 50, Speed: 10, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()
	v.beginLaneChange(1, true)

	// LaneChangeDuration 2s, dt 0.5s: three partial steps, then the
	// fourth completes the transition atomically.
	for i := 0; i < 3; i++ {
		eng.Step(0.5, prof, reg)
		reg.Commit()
		if !v.Change.Active {
			t.Fatalf("step %d: transition ended early", i)
		}
		if v.Lane != 0 {
			t.Fatalf("step %d: lane switched mid-transition", i)
		}
	}
	if off := v.LateralOffset(); math.Abs(off-0.75) > 1e-9 {
		t.Errorf("lateral offset = %.3f, want 0.75", off)
	}

	eng.Step(0.5, prof, reg)
	reg.Commit()
	if v.Change.Active {
		t.Error("transition should be complete")
	}
	if v.Lane != 1 {
		t.Errorf("lane = %d, want 1", v.Lane)
	}
	if v.LateralOffset() != 0 {
		t.Errorf("lateral offset = %.3f, want 0 after completion", v.LateralOffset())
	}
}

func TestLaneChangeEvaluation(t *testing.T) {
	_, eng, reg, cfg := newTestWorld(t)
	free := 11.69
	spec := &cfg.Vehicles[Car]

	v := &Vehicle{Type: Car, Lane: 0, Pos: 100, Speed: 8, Jitter: 1}
	slow := &Vehicle{Type: Bus, Lane: 0, Pos: 120, Speed: 2, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := reg.Add(slow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()

	// Empty neighbor lane: the change starts toward lane 1.
	eng.buildSnapshot(reg.All())
	eng.evaluateLaneChange(v, spec, 9, 0, free, true)
	if !v.Change.Active || v.Change.Target != 1 {
		t.Fatalf("expected change into lane 1, got %+v", v.Change)
	}

	// A vehicle alongside in the target lane leaves no rear margin.
	v.Change = LaneChange{}
	blocker := &Vehicle{Type: Car, Lane: 1, Pos: 98, Speed: 8, Jitter: 1}
	if _, err := reg.Add(blocker); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()
	eng.buildSnapshot(reg.All())
	eng.evaluateLaneChange(v, spec, 9, 0, free, true)
	if v.Change.Active {
		t.Error("change should be rejected with a vehicle alongside")
	}

	// A target-lane leader closer than the current one offers no benefit.
	blocker.Lane = 1
	blocker.Pos = 105
	eng.buildSnapshot(reg.All())
	eng.evaluateLaneChange(v, spec, 9, 0, free, true)
	if v.Change.Active {
		t.Error("change should be rejected when the target gap is smaller")
	}
}

func TestLaneChangeCancelledAtLaneEnd(t *testing.T) {
	net, eng, reg, cfg := newTestWorld(t)
	prof := cfg.Densities[DensityMedium]

	// NS green: the vehicle runs off the end of lane 4 mid-transition and
	// the transition must not survive the routing boundary.
	v := &Vehicle{Type: Motorcycle, Lane: 4, Pos: net.Lanes[4].Length - 2, Speed: 7, Jitter: 1}
	if _, err := reg.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reg.Commit()
	v.beginLaneChange(5, true)

	for i := 0; i < 20 && !v.exited; i++ {
		eng.Step(0.1, prof, reg)
		reg.Commit()
	}
	if !v.exited {
		t.Fatal("vehicle should have left the network")
	}
	if v.Change.Active {
		t.Error("transition should be cancelled at the lane end")
	}
}
