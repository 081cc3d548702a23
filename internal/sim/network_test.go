package sim

import (
	"errors"
	"testing"
)

func TestBuildCrossroadGeometry(t *testing.T) {
	cfg := DefaultConfig()
	net, err := buildCrossroad(&cfg)
	if err != nil {
		t.Fatalf("buildCrossroad failed: %v", err)
	}

	// CityMain main road: 2 lanes per direction -> 4 EW lanes.
	// CitySide cross road: 1 lane per direction -> 2 NS lanes.
	if len(net.Lanes) != 6 {
		t.Fatalf("lane count = %d, want 6", len(net.Lanes))
	}
	if len(net.Intersections) != 1 {
		t.Fatalf("intersection count = %d, want 1", len(net.Intersections))
	}

	for i := range net.Lanes {
		lane := &net.Lanes[i]
		if lane.Length != 2*cfg.ArmLength {
			t.Errorf("lane %d length = %.1f, want %.1f", i, lane.Length, 2*cfg.ArmLength)
		}
		if lane.Stop == nil {
			t.Fatalf("lane %d has no stop line", i)
		}
		if lane.Stop.Position != cfg.ArmLength {
			t.Errorf("lane %d stop at %.1f, want %.1f", i, lane.Stop.Position, cfg.ArmLength)
		}
	}

	// EW lanes first (main road), then NS.
	for i := 0; i < 4; i++ {
		if net.Lanes[i].Group != GroupEW {
			t.Errorf("lane %d group = %v, want ew", i, net.Lanes[i].Group)
		}
	}
	for i := 4; i < 6; i++ {
		if net.Lanes[i].Group != GroupNS {
			t.Errorf("lane %d group = %v, want ns", i, net.Lanes[i].Group)
		}
	}

	// Same-direction main road lanes are mutual neighbors.
	if net.Lanes[0].Right != 1 || net.Lanes[1].Left != 0 {
		t.Error("main road direction 0 lanes should be neighbors")
	}
	if net.Lanes[2].Right != 3 || net.Lanes[3].Left != 2 {
		t.Error("main road direction 1 lanes should be neighbors")
	}
	// Single-lane cross road has no neighbors.
	if net.Lanes[4].Left != NoLane || net.Lanes[4].Right != NoLane {
		t.Error("cross road lane should have no neighbors")
	}

	// Every lane is an entry (no lane feeds another in this layout).
	if len(net.EntryLanes()) != 6 {
		t.Errorf("entry lanes = %d, want 6", len(net.EntryLanes()))
	}
}

func TestNetworkValidationErrors(t *testing.T) {
	lights, err := NewLightController(PhaseDurations{Green: 10, Yellow: 3, AllRed: 2})
	if err != nil {
		t.Fatalf("NewLightController failed: %v", err)
	}
	intersections := []Intersection{{ID: 0, Lights: lights}}
	seg := func() []Segment {
		return []Segment{{ID: 0, Length: 100, SpeedLimit: 14, Road: CityMain}}
	}
	lane := func() []Lane {
		return []Lane{{LaneID: 0, Segments: []SegmentID{0}, Left: NoLane, Right: NoLane, Next: NoLane}}
	}

	cases := []struct {
		name     string
		segments []Segment
		lanes    []Lane
		ins      []Intersection
		code     string
	}{
		{
			name:     "segment id mismatch",
			segments: []Segment{{ID: 5, Length: 100, SpeedLimit: 14}},
			lanes:    lane(),
			ins:      intersections,
			code:     "SEGMENT_ID",
		},
		{
			name:     "non-positive segment length",
			segments: []Segment{{ID: 0, Length: 0, SpeedLimit: 14}},
			lanes:    lane(),
			ins:      intersections,
			code:     "SEGMENT_LENGTH",
		},
		{
			name:     "lane references missing segment",
			segments: seg(),
			lanes:    []Lane{{LaneID: 0, Segments: []SegmentID{7}, Left: NoLane, Right: NoLane, Next: NoLane}},
			ins:      intersections,
			code:     "LANE_SEGMENT",
		},
		{
			name:     "asymmetric adjacency",
			segments: []Segment{{ID: 0, Length: 100, SpeedLimit: 14}, {ID: 1, Length: 100, SpeedLimit: 14}},
			lanes: []Lane{
				{LaneID: 0, Segments: []SegmentID{0}, Left: NoLane, Right: 1, Next: NoLane},
				{LaneID: 1, Segments: []SegmentID{1}, Left: NoLane, Right: NoLane, Next: NoLane},
			},
			ins:  intersections,
			code: "LANE_ADJACENCY",
		},
		{
			name:     "stop line past lane end",
			segments: seg(),
			lanes: []Lane{{
				LaneID: 0, Segments: []SegmentID{0}, Left: NoLane, Right: NoLane, Next: NoLane,
				Stop: &StopLine{Intersection: 0, Position: 150, Zone: 30},
			}},
			ins:  intersections,
			code: "STOP_POSITION",
		},
		{
			name:     "intersection without lights",
			segments: seg(),
			lanes:    lane(),
			ins:      []Intersection{{ID: 0}},
			code:     "INTERSECTION_LIGHTS",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNetwork(tc.segments, tc.lanes, tc.ins)
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Errorf("error = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestNetworkQueries(t *testing.T) {
	cfg := DefaultConfig()
	net, err := buildCrossroad(&cfg)
	if err != nil {
		t.Fatalf("buildCrossroad failed: %v", err)
	}

	limit := cfg.RoadTypes[CityMain].SpeedLimit
	if got := net.SpeedLimitAt(0, 10); got != limit {
		t.Errorf("SpeedLimitAt(0, 10) = %.1f, want %.1f", got, limit)
	}
	if got := net.SpeedLimitAt(0, cfg.ArmLength+10); got != limit {
		t.Errorf("SpeedLimitAt past stop line = %.1f, want %.1f", got, limit)
	}

	// Stop zone covers [Position-Zone, Position].
	if _, in := net.InStopZone(0, cfg.ArmLength-cfg.StopZone-1); in {
		t.Error("position before zone should not be in stop zone")
	}
	if _, in := net.InStopZone(0, cfg.ArmLength-1); !in {
		t.Error("position just before stop line should be in stop zone")
	}
	if _, in := net.InStopZone(0, cfg.ArmLength+1); in {
		t.Error("position past stop line should not be in stop zone")
	}

	// Adjacency queries: lane 1 has lane 0 on its left only.
	adj := net.AdjacentLanes(1)
	if len(adj) != 1 || adj[0] != 0 {
		t.Errorf("AdjacentLanes(1) = %v, want [0]", adj)
	}
	opts := net.NextLaneOptions(1)
	if len(opts) != 1 || !opts[0].IsAdjacent || opts[0].Lane != 0 {
		t.Errorf("NextLaneOptions(1) = %v, want one adjacent option for lane 0", opts)
	}
}
