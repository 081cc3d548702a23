package sim

import (
	"math"
	"sort"
)

// ghost is the previous-tick view of one vehicle's extent in a lane.
// The engine reads only ghosts for cross-vehicle lookups, so follower
// behavior never depends on intra-tick processing order.
type ghost struct {
	id    VehicleID
	front float64
	rear  float64
	speed float64
}

// Engine performs the per-tick kinematic update: gap keeping, traffic
// light gating, bounded acceleration, lane changing and integration.
type Engine struct {
	net   *Network
	specs *[NumVehicleTypes]VehicleSpec
	cfg   *Config

	// prevLanes holds the previous-tick snapshot, rebuilt each Step.
	// A vehicle mid lane-change appears in both its current and target
	// lane so it is tracked against both lanes' traffic.
	prevLanes map[LaneID][]ghost

	clampEvents uint64
}

// NewEngine creates an engine over the given network and spec table.
func NewEngine(net *Network, specs *[NumVehicleTypes]VehicleSpec, cfg *Config) *Engine {
	return &Engine{
		net:       net,
		specs:     specs,
		cfg:       cfg,
		prevLanes: make(map[LaneID][]ghost),
	}
}

// ClampEvents returns how many times the defensive overlap clamp fired.
// A non-zero count indicates the deceleration law failed to keep the
// no-overlap invariant on its own and should be treated as a defect.
func (e *Engine) ClampEvents() uint64 {
	return e.clampEvents
}

// Step advances every live vehicle by dt seconds under the given density
// profile. Vehicles that leave the network are staged for removal on the
// registry; the registry's live set itself is not mutated here.
func (e *Engine) Step(dt float64, prof DensityProfile, reg *Registry) {
	vehicles := reg.All()
	e.buildSnapshot(vehicles)

	// Leaders before followers: ascending lane, descending progress.
	order := make([]*Vehicle, len(vehicles))
	copy(order, vehicles)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Lane != order[j].Lane {
			return order[i].Lane < order[j].Lane
		}
		return order[i].Pos > order[j].Pos
	})

	for _, v := range order {
		if v.exited {
			continue
		}
		e.stepVehicle(v, dt, prof, reg)
	}
}

// buildSnapshot captures the previous-tick lane occupancy.
func (e *Engine) buildSnapshot(vehicles []*Vehicle) {
	for k := range e.prevLanes {
		delete(e.prevLanes, k)
	}
	for _, v := range vehicles {
		spec := &e.specs[v.Type]
		g := ghost{id: v.ID, front: v.Pos, rear: v.Pos - spec.Length, speed: v.Speed}
		e.prevLanes[v.Lane] = append(e.prevLanes[v.Lane], g)
		if v.Change.Active {
			e.prevLanes[v.Change.Target] = append(e.prevLanes[v.Change.Target], g)
		}
	}
	for id := range e.prevLanes {
		gs := e.prevLanes[id]
		sort.Slice(gs, func(i, j int) bool { return gs[i].front > gs[j].front })
	}
}

// leaderAhead returns the gap to the nearest vehicle ahead of pos in the
// lane and that vehicle's speed. ok is false when the lane is clear ahead.
func (e *Engine) leaderAhead(lane LaneID, pos float64, self VehicleID) (gap, speed float64, ok bool) {
	gs := e.prevLanes[lane]
	// Sorted descending by front: walk from the tail to find the
	// closest vehicle strictly ahead.
	for i := len(gs) - 1; i >= 0; i-- {
		g := gs[i]
		if g.id == self || g.front <= pos {
			continue
		}
		return g.rear - pos, g.speed, true
	}
	return 0, 0, false
}

// followerBehind returns the gap between rear and the front of the
// nearest vehicle not ahead of front in the lane. The gap is negative
// when that vehicle overlaps the caller's body, so margin checks reject
// side-by-side conflicts. ok is false when the lane is clear behind.
func (e *Engine) followerBehind(lane LaneID, front, rear float64, self VehicleID) (gap float64, ok bool) {
	gs := e.prevLanes[lane]
	for _, g := range gs {
		if g.id == self || g.front > front {
			continue
		}
		return rear - g.front, true
	}
	return 0, false
}

// safeGap is the minimum following distance for a vehicle of the given
// spec at the given speed. Longer, heavier types carry a larger factor.
func safeGap(spec *VehicleSpec, speed float64, cfg *Config) float64 {
	return spec.GapFactor * (cfg.StandstillGap + cfg.HeadwayTime*speed)
}

func (e *Engine) stepVehicle(v *Vehicle, dt float64, prof DensityProfile, reg *Registry) {
	spec := &e.specs[v.Type]
	lane := e.net.Lane(v.Lane)

	limit := e.net.SpeedLimitAt(v.Lane, v.Pos)
	free := math.Min(limit, spec.MaxSpeed) * prof.SpeedFraction * v.Jitter
	desired := free

	// 1. Gap assessment. During a lane change the stricter of the two
	// lanes' leaders governs.
	gap, leadSpeed, hasLeader := e.leaderAhead(v.Lane, v.Pos, v.ID)
	var leaderRear float64
	if hasLeader {
		leaderRear = v.Pos + gap
	}
	if v.Change.Active {
		if tGap, tSpeed, ok := e.leaderAhead(v.Change.Target, v.Pos, v.ID); ok && (!hasLeader || tGap < gap) {
			gap, leadSpeed = tGap, tSpeed
			hasLeader = true
			leaderRear = v.Pos + tGap
		}
	}

	// 2. Desired speed under the following-distance law: hold the
	// type-scaled safe gap, converging to the standstill gap behind a
	// stopped leader.
	if hasLeader {
		safe := safeGap(spec, v.Speed, e.cfg)
		approach := leadSpeed + (gap-safe)/e.cfg.HeadwayTime
		if approach < desired {
			desired = approach
		}
		if desired < 0 {
			desired = 0
		}
	}
	gapDesired := desired

	// 3. Traffic-light gating. Applies only while the front is at or
	// before the stop line; a vehicle already past it always clears.
	gated := false
	var stopPos float64
	if stop := lane.Stop; stop != nil && v.Pos <= stop.Position && stop.Position-v.Pos <= stop.Zone {
		if !e.net.Intersections[stop.Intersection].Lights.Allows(lane.Group) {
			gated = true
			stopPos = stop.Position
			// Braking envelope that reaches zero exactly at the line.
			envelope := math.Sqrt(2 * spec.Decel * (stop.Position - v.Pos))
			if envelope < desired {
				desired = envelope
			}
		}
	}

	// 4. Bounded acceleration: speed moves toward desired, never jumps.
	delta := desired - v.Speed
	if delta > spec.Accel*dt {
		delta = spec.Accel * dt
	}
	if delta < -spec.Decel*dt {
		delta = -spec.Decel * dt
	}
	v.Speed += delta
	if v.Speed < 0 {
		v.Speed = 0
	}
	if v.Speed > spec.MaxSpeed {
		v.Speed = spec.MaxSpeed
	}

	// 7 (position part). Integrate, with hard guards that the clamps in
	// steps 3 and 4 normally make unreachable.
	newPos := v.Pos + v.Speed*dt
	if gated && newPos > stopPos {
		newPos = stopPos
		v.Speed = 0
	}
	if hasLeader && newPos > leaderRear {
		// Defensive: the deceleration law should have prevented this.
		newPos = leaderRear
		v.Speed = 0
		e.clampEvents++
	}
	v.Pos = newPos

	// 5–6. Lane changing: advance an active transition, or evaluate a
	// new one when the current lane is holding the vehicle back.
	if v.Change.Active {
		v.Change.Progress += dt / e.cfg.LaneChangeDuration
		if v.Change.Progress >= 1 {
			v.completeLaneChange()
		}
	} else if !gated {
		e.evaluateLaneChange(v, spec, gap, gapDesired, free, hasLeader)
	}

	// 7 (routing part). Cross into the next lane or leave the network.
	lane = e.net.Lane(v.Lane)
	for v.Pos > lane.Length {
		if lane.Next == NoLane {
			v.exited = true
			v.Change = LaneChange{}
			reg.Remove(v.ID)
			return
		}
		v.Pos -= lane.Length
		v.Lane = lane.Next
		// A transition cannot survive a routing boundary; the neighbor
		// relationship it was based on no longer exists.
		v.Change = LaneChange{}
		lane = e.net.Lane(v.Lane)
	}
}

// evaluateLaneChange opportunistically starts a transition into the
// first adjacent lane (nearest first) offering a strictly larger gap
// ahead and a sufficient gap behind. Two-wheelers accept tighter margins
// through their smaller gap factor.
func (e *Engine) evaluateLaneChange(v *Vehicle, spec *VehicleSpec, gap, gapDesired, free float64, hasLeader bool) {
	if !hasLeader || gapDesired >= e.cfg.LaneChangeTrigger*free {
		return
	}
	lane := e.net.Lane(v.Lane)
	margin := spec.GapFactor * e.cfg.LaneChangeRearGap

	for _, target := range e.net.AdjacentLanes(v.Lane) {
		aheadGap := math.Inf(1)
		if g, _, ok := e.leaderAhead(target, v.Pos, v.ID); ok {
			aheadGap = g
		}
		if aheadGap <= gap {
			continue
		}
		behindGap := math.Inf(1)
		if g, ok := e.followerBehind(target, v.Pos, v.Pos-spec.Length, v.ID); ok {
			behindGap = g
		}
		if behindGap <= margin {
			continue
		}
		v.beginLaneChange(target, target == lane.Right)
		return
	}
}
