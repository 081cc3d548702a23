package sim

import "fmt"

// ConfigError describes a fatal construction-time configuration problem.
// The simulation refuses to start rather than run with undefined geometry.
type ConfigError struct {
	Code    string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// RoadType classifies a road, selecting its lane count and speed limit.
type RoadType uint8

const (
	Highway RoadType = iota
	CityMain
	CitySide
	Rural
	Expressway

	NumRoadTypes = int(Expressway) + 1
)

// String returns the string representation of a road type.
func (r RoadType) String() string {
	switch r {
	case Highway:
		return "highway"
	case CityMain:
		return "city_main"
	case CitySide:
		return "city_side"
	case Rural:
		return "rural"
	case Expressway:
		return "expressway"
	default:
		return "unknown"
	}
}

// RoadTypeSpec holds the per-road-type geometry parameters.
// Speed limits are m/s.
type RoadTypeSpec struct {
	LanesPerDirection int
	SpeedLimit        float64
}

// DefaultRoadTypeSpecs returns the stock road-type table.
func DefaultRoadTypeSpecs() [NumRoadTypes]RoadTypeSpec {
	return [NumRoadTypes]RoadTypeSpec{
		Highway:    {LanesPerDirection: 3, SpeedLimit: 27.8},
		CityMain:   {LanesPerDirection: 2, SpeedLimit: 16.7},
		CitySide:   {LanesPerDirection: 1, SpeedLimit: 11.1},
		Rural:      {LanesPerDirection: 1, SpeedLimit: 13.9},
		Expressway: {LanesPerDirection: 4, SpeedLimit: 33.3},
	}
}

// LaneGroup is the set of lanes sharing one traffic-light phase.
type LaneGroup uint8

const (
	GroupNS LaneGroup = iota
	GroupEW
)

// String returns the string representation of a lane group.
func (g LaneGroup) String() string {
	if g == GroupNS {
		return "ns"
	}
	return "ew"
}

// SegmentID, LaneID and IntersectionID index into the network's dense slices.
type (
	SegmentID      int
	LaneID         int
	IntersectionID int
)

// NoLane marks the absence of a lane reference (no neighbor, network exit).
const NoLane LaneID = -1

// Segment is a directed stretch of road with uniform attributes.
type Segment struct {
	ID         SegmentID
	Length     float64
	SpeedLimit float64
	Road       RoadType
}

// StopLine gates a lane at an intersection. Light gating applies to
// vehicles whose front is within Zone meters before Position; a vehicle
// whose front is past Position is always permitted to clear.
type StopLine struct {
	Intersection IntersectionID
	Position     float64
	Zone         float64
}

// Lane is an ordered sequence of segments from entry to exit.
// Geometry is immutable after construction.
type Lane struct {
	LaneID   LaneID
	Segments []SegmentID
	Length   float64 // cached sum of segment lengths
	Group    LaneGroup
	Index    int // position within its direction, 0 = innermost
	Left     LaneID
	Right    LaneID
	Next     LaneID // continuation after Length, NoLane = network exit
	Stop     *StopLine
}

// Intersection owns one traffic light controller.
type Intersection struct {
	ID     IntersectionID
	Lights *LightController
}

// LaneOption is one routing/lane-change candidate returned by
// NextLaneOptions.
type LaneOption struct {
	Lane       LaneID
	IsAdjacent bool
}

// Network is the static road description: pure data plus geometry queries.
type Network struct {
	Segments      []Segment
	Lanes         []Lane
	Intersections []Intersection

	entries []LaneID
}

// NewNetwork validates and assembles a network. Any inconsistency is a
// fatal ConfigError: the caller must not retry.
func NewNetwork(segments []Segment, lanes []Lane, intersections []Intersection) (*Network, error) {
	n := &Network{Segments: segments, Lanes: lanes, Intersections: intersections}

	for i, seg := range segments {
		if SegmentID(i) != seg.ID {
			return nil, ConfigError{Code: "SEGMENT_ID", Message: fmt.Sprintf("segment at index %d has id %d", i, seg.ID)}
		}
		if seg.Length <= 0 {
			return nil, ConfigError{Code: "SEGMENT_LENGTH", Message: fmt.Sprintf("segment %d has non-positive length %.2f", seg.ID, seg.Length)}
		}
		if seg.SpeedLimit <= 0 {
			return nil, ConfigError{Code: "SEGMENT_LIMIT", Message: fmt.Sprintf("segment %d has non-positive speed limit %.2f", seg.ID, seg.SpeedLimit)}
		}
	}

	hasPred := make([]bool, len(lanes))
	for i := range lanes {
		lane := &n.Lanes[i]
		if LaneID(i) != lane.LaneID {
			return nil, ConfigError{Code: "LANE_ID", Message: fmt.Sprintf("lane at index %d has id %d", i, lane.LaneID)}
		}
		if len(lane.Segments) == 0 {
			return nil, ConfigError{Code: "LANE_EMPTY", Message: fmt.Sprintf("lane %d has no segments", lane.LaneID)}
		}
		total := 0.0
		for _, sid := range lane.Segments {
			if int(sid) < 0 || int(sid) >= len(segments) {
				return nil, ConfigError{Code: "LANE_SEGMENT", Message: fmt.Sprintf("lane %d references nonexistent segment %d", lane.LaneID, sid)}
			}
			total += segments[sid].Length
		}
		lane.Length = total

		for _, ref := range []LaneID{lane.Left, lane.Right, lane.Next} {
			if ref != NoLane && (int(ref) < 0 || int(ref) >= len(lanes)) {
				return nil, ConfigError{Code: "LANE_REF", Message: fmt.Sprintf("lane %d references nonexistent lane %d", lane.LaneID, ref)}
			}
		}
		if lane.Next != NoLane {
			hasPred[lane.Next] = true
		}

		if lane.Stop != nil {
			if int(lane.Stop.Intersection) < 0 || int(lane.Stop.Intersection) >= len(intersections) {
				return nil, ConfigError{Code: "STOP_INTERSECTION", Message: fmt.Sprintf("lane %d stop line references nonexistent intersection %d", lane.LaneID, lane.Stop.Intersection)}
			}
			if lane.Stop.Position <= 0 || lane.Stop.Position > lane.Length {
				return nil, ConfigError{Code: "STOP_POSITION", Message: fmt.Sprintf("lane %d stop line at %.2f outside (0, %.2f]", lane.LaneID, lane.Stop.Position, lane.Length)}
			}
			if lane.Stop.Zone <= 0 {
				return nil, ConfigError{Code: "STOP_ZONE", Message: fmt.Sprintf("lane %d stop zone must be positive", lane.LaneID)}
			}
		}
	}

	// Neighbor references must be symmetric or lane changes would not be
	// reversible between the pair.
	for i := range n.Lanes {
		lane := &n.Lanes[i]
		if lane.Left != NoLane && n.Lanes[lane.Left].Right != lane.LaneID {
			return nil, ConfigError{Code: "LANE_ADJACENCY", Message: fmt.Sprintf("lane %d left neighbor %d does not point back", lane.LaneID, lane.Left)}
		}
		if lane.Right != NoLane && n.Lanes[lane.Right].Left != lane.LaneID {
			return nil, ConfigError{Code: "LANE_ADJACENCY", Message: fmt.Sprintf("lane %d right neighbor %d does not point back", lane.LaneID, lane.Right)}
		}
	}

	for i, ins := range intersections {
		if IntersectionID(i) != ins.ID {
			return nil, ConfigError{Code: "INTERSECTION_ID", Message: fmt.Sprintf("intersection at index %d has id %d", i, ins.ID)}
		}
		if ins.Lights == nil {
			return nil, ConfigError{Code: "INTERSECTION_LIGHTS", Message: fmt.Sprintf("intersection %d has no light controller", ins.ID)}
		}
	}

	for i := range n.Lanes {
		if !hasPred[i] {
			n.entries = append(n.entries, LaneID(i))
		}
	}

	return n, nil
}

// Lane returns the lane with the given id.
func (n *Network) Lane(id LaneID) *Lane {
	return &n.Lanes[id]
}

// SegmentAt returns the segment containing the given progress along a lane.
// Progress beyond the lane length maps to the last segment.
func (n *Network) SegmentAt(id LaneID, progress float64) *Segment {
	lane := &n.Lanes[id]
	for _, sid := range lane.Segments {
		seg := &n.Segments[sid]
		if progress <= seg.Length {
			return seg
		}
		progress -= seg.Length
	}
	return &n.Segments[lane.Segments[len(lane.Segments)-1]]
}

// SpeedLimitAt returns the effective speed limit at a lane position.
func (n *Network) SpeedLimitAt(id LaneID, progress float64) float64 {
	return n.SegmentAt(id, progress).SpeedLimit
}

// InStopZone reports whether the position lies within a stop-line zone,
// i.e. within Zone meters before the stop line, not yet past it.
func (n *Network) InStopZone(id LaneID, progress float64) (IntersectionID, bool) {
	stop := n.Lanes[id].Stop
	if stop == nil {
		return 0, false
	}
	if progress <= stop.Position && stop.Position-progress <= stop.Zone {
		return stop.Intersection, true
	}
	return 0, false
}

// NextLaneOptions returns the routing continuation followed by the
// adjacent lane-change candidates, nearest first.
func (n *Network) NextLaneOptions(id LaneID) []LaneOption {
	lane := &n.Lanes[id]
	opts := make([]LaneOption, 0, 3)
	if lane.Next != NoLane {
		opts = append(opts, LaneOption{Lane: lane.Next})
	}
	for _, adj := range []LaneID{lane.Left, lane.Right} {
		if adj != NoLane {
			opts = append(opts, LaneOption{Lane: adj, IsAdjacent: true})
		}
	}
	return opts
}

// AdjacentLanes returns the lane-change candidates nearest first
// (left neighbor, then right).
func (n *Network) AdjacentLanes(id LaneID) []LaneID {
	lane := &n.Lanes[id]
	adj := make([]LaneID, 0, 2)
	if lane.Left != NoLane {
		adj = append(adj, lane.Left)
	}
	if lane.Right != NoLane {
		adj = append(adj, lane.Right)
	}
	return adj
}

// EntryLanes returns the lanes vehicles can spawn into, ascending by id.
func (n *Network) EntryLanes() []LaneID {
	return n.entries
}

// buildCrossroad assembles the default layout: one main road crossed by
// one side road at a single signalized intersection, each arm armLength
// meters long. Every lane is two segments (approach, departure) with the
// stop line at the segment boundary.
func buildCrossroad(cfg *Config) (*Network, error) {
	lights, err := NewLightController(cfg.Phases)
	if err != nil {
		return nil, err
	}
	intersections := []Intersection{{ID: 0, Lights: lights}}

	var segments []Segment
	var lanes []Lane

	addRoad := func(road RoadType, group LaneGroup) error {
		spec := cfg.RoadTypes[road]
		if spec.LanesPerDirection < 1 {
			return ConfigError{Code: "ROAD_LANES", Message: fmt.Sprintf("road type %s has no lanes", road)}
		}
		if spec.SpeedLimit <= 0 {
			return ConfigError{Code: "ROAD_LIMIT", Message: fmt.Sprintf("road type %s has non-positive speed limit", road)}
		}
		// Two directions of travel, each with its own lane set. Lanes in
		// the same direction are mutual lane-change neighbors.
		for dir := 0; dir < 2; dir++ {
			for i := 0; i < spec.LanesPerDirection; i++ {
				approach := Segment{ID: SegmentID(len(segments)), Length: cfg.ArmLength, SpeedLimit: spec.SpeedLimit, Road: road}
				segments = append(segments, approach)
				departure := Segment{ID: SegmentID(len(segments)), Length: cfg.ArmLength, SpeedLimit: spec.SpeedLimit, Road: road}
				segments = append(segments, departure)

				id := LaneID(len(lanes))
				lane := Lane{
					LaneID:   id,
					Segments: []SegmentID{approach.ID, departure.ID},
					Group:    group,
					Index:    i,
					Left:     NoLane,
					Right:    NoLane,
					Next:     NoLane,
					Stop: &StopLine{
						Intersection: 0,
						Position:     cfg.ArmLength,
						Zone:         cfg.StopZone,
					},
				}
				if i > 0 {
					lane.Left = id - 1
					lanes[id-1].Right = id
				}
				lanes = append(lanes, lane)
			}
		}
		return nil
	}

	if err := addRoad(cfg.MainRoad, GroupEW); err != nil {
		return nil, err
	}
	if err := addRoad(cfg.CrossRoad, GroupNS); err != nil {
		return nil, err
	}

	return NewNetwork(segments, lanes, intersections)
}
