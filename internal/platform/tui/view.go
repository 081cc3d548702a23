package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-traffic/internal/core"
	"github.com/vovakirdan/tui-traffic/internal/sim"
)

// vehicleGlyphs maps each vehicle type to its on-screen rune.
var vehicleGlyphs = [sim.NumVehicleTypes]rune{
	sim.Car:          'C',
	sim.Bus:          'B',
	sim.Truck:        'T',
	sim.Motorcycle:   'm',
	sim.AutoRickshaw: 'r',
	sim.Bicycle:      'b',
	sim.Tempo:        't',
}

// vehicleColors maps each vehicle type to its display color.
var vehicleColors = [sim.NumVehicleTypes]core.Color{
	sim.Car:          core.ColorBrightCyan,
	sim.Bus:          core.ColorBrightYellow,
	sim.Truck:        core.ColorOrange,
	sim.Motorcycle:   core.ColorBrightMagenta,
	sim.AutoRickshaw: core.ColorBrightGreen,
	sim.Bicycle:      core.ColorWhite,
	sim.Tempo:        core.ColorBrightBlue,
}

// laneGeom places one lane on screen. For EW lanes Line is a screen row,
// for NS lanes a screen column.
type laneGeom struct {
	group sim.LaneGroup
	dir   int // 0 = forward along the screen axis, 1 = reversed
	line  int
}

// View draws the crossroad scene from simulation snapshots onto a
// Screen buffer. The layout is schematic: the main road runs
// horizontally across the full width, the cross road vertically, and
// every stop line lands next to the shared intersection at the center.
type View struct {
	ShowStats bool

	ewLanes []sim.LaneID
	nsLanes []sim.LaneID
}

// NewView indexes the network's lanes by group for layout.
func NewView(net *sim.Network) *View {
	v := &View{}
	for i := range net.Lanes {
		if net.Lanes[i].Group == sim.GroupEW {
			v.ewLanes = append(v.ewLanes, net.Lanes[i].LaneID)
		} else {
			v.nsLanes = append(v.nsLanes, net.Lanes[i].LaneID)
		}
	}
	return v
}

// Draw renders one frame of the crossroad onto the screen.
func (v *View) Draw(s *core.Screen, sm *sim.Simulation) {
	s.Clear()

	geo := v.layout(s)
	v.drawRoads(s, geo)
	v.drawStopLines(s, sm, geo)
	v.drawVehicles(s, sm, geo)
	v.drawHeader(s, sm)
	v.drawFooter(s)
	if v.ShowStats {
		v.drawStats(s, sm)
	}
}

// layout assigns each lane a screen row or column. Rows 0 and H-1 are
// reserved for the header and footer.
func (v *View) layout(s *core.Screen) map[sim.LaneID]laneGeom {
	geo := make(map[sim.LaneID]laneGeom, len(v.ewLanes)+len(v.nsLanes))

	centerY := s.Height() / 2
	centerX := s.Width() / 2
	ewPerDir := len(v.ewLanes) / 2
	nsPerDir := len(v.nsLanes) / 2

	for ord, id := range v.ewLanes {
		dir := 0
		row := centerY - ewPerDir + ord
		if ord >= ewPerDir {
			dir = 1
			row = centerY + 1 + (ord - ewPerDir)
		}
		geo[id] = laneGeom{group: sim.GroupEW, dir: dir, line: row}
	}
	for ord, id := range v.nsLanes {
		dir := 0
		col := centerX - nsPerDir + ord
		if ord >= nsPerDir {
			dir = 1
			col = centerX + 1 + (ord - nsPerDir)
		}
		geo[id] = laneGeom{group: sim.GroupNS, dir: dir, line: col}
	}
	return geo
}

// drawRoads paints the lane surfaces and road edges.
func (v *View) drawRoads(s *core.Screen, geo map[sim.LaneID]laneGeom) {
	top, bottom := s.Height(), 0
	left, right := s.Width(), 0

	for _, g := range geo {
		if g.group == sim.GroupEW {
			s.DrawHLine(0, g.line, s.Width(), '·', core.ColorGray)
			top = core.Min(top, g.line)
			bottom = core.Max(bottom, g.line)
		} else {
			s.DrawVLine(g.line, 1, s.Height()-2, '·', core.ColorGray)
			left = core.Min(left, g.line)
			right = core.Max(right, g.line)
		}
	}

	// Road edges, interrupted where the other road crosses.
	for x := 0; x < s.Width(); x++ {
		if x >= left-1 && x <= right+1 {
			continue
		}
		s.SetCell(x, top-1, '─', core.ColorGray)
		s.SetCell(x, bottom+1, '─', core.ColorGray)
	}
	for y := 1; y < s.Height()-1; y++ {
		if y >= top-1 && y <= bottom+1 {
			continue
		}
		s.SetCell(left-1, y, '│', core.ColorGray)
		s.SetCell(right+1, y, '│', core.ColorGray)
	}
}

// drawStopLines paints each lane's stop line colored by its light state.
func (v *View) drawStopLines(s *core.Screen, sm *sim.Simulation, geo map[sim.LaneID]laneGeom) {
	net := sm.Network()
	states := sm.IntersectionStates()

	for id, g := range geo {
		lane := net.Lane(id)
		if lane.Stop == nil {
			continue
		}
		phase := states[lane.Stop.Intersection].Phase
		color := signalColor(phase, lane.Group)

		x, y := v.project(s, g, lane.Length, lane.Stop.Position)
		if g.group == sim.GroupEW {
			s.SetCell(x, y, '┃', color)
		} else {
			s.SetCell(x, y, '━', color)
		}
	}
}

// drawVehicles paints every live vehicle at its projected cell, with
// long vehicles trailing extra cells behind the front.
func (v *View) drawVehicles(s *core.Screen, sm *sim.Simulation, geo map[sim.LaneID]laneGeom) {
	net := sm.Network()

	for _, snap := range sm.Snapshot() {
		g, ok := geo[snap.Lane]
		if !ok {
			continue
		}
		lane := net.Lane(snap.Lane)

		// A changing vehicle renders shifted toward its target lane.
		shift := int(math.Round(snap.LateralOffset))
		g.line += shift

		spec := sm.VehicleSpecFor(snap.Type)
		span := s.Width()
		if g.group == sim.GroupNS {
			span = s.Height() - 2
		}
		metersPerCell := lane.Length / float64(core.Max(span-1, 1))
		cells := core.Max(1, int(math.Round(spec.Length/metersPerCell)))

		glyph := vehicleGlyphs[snap.Type]
		color := vehicleColors[snap.Type]
		for i := 0; i < cells; i++ {
			pos := snap.Progress - float64(i)*metersPerCell
			if pos < 0 {
				break
			}
			x, y := v.project(s, g, lane.Length, pos)
			s.SetCell(x, y, glyph, color)
		}
	}
}

// project maps a lane position in meters to a screen cell.
func (v *View) project(s *core.Screen, g laneGeom, laneLen, pos float64) (x, y int) {
	if g.group == sim.GroupEW {
		span := s.Width() - 1
		cell := int(math.Round(pos / laneLen * float64(span)))
		cell = core.Clamp(cell, 0, span)
		if g.dir == 1 {
			cell = span - cell
		}
		return cell, g.line
	}
	span := s.Height() - 3
	cell := int(math.Round(pos / laneLen * float64(span)))
	cell = core.Clamp(cell, 0, span)
	if g.dir == 1 {
		cell = span - cell
	}
	return g.line, 1 + cell
}

// drawHeader paints the status line: density, clock, signal phase.
func (v *View) drawHeader(s *core.Screen, sm *sim.Simulation) {
	states := sm.IntersectionStates()
	phase := ""
	if len(states) > 0 {
		phase = fmt.Sprintf("  signal %s %.0fs", states[0].Phase, states[0].Remaining)
	}

	header := fmt.Sprintf(" traffic  density %s  t=%.1fs%s", sm.Density(), sm.Elapsed(), phase)
	s.DrawText(0, 0, header, core.ColorBrightWhite)

	if sm.Paused() {
		label := "[PAUSED]"
		s.DrawText(s.Width()-len(label)-1, 0, label, core.ColorBrightYellow)
	}
}

// drawFooter paints the key hints.
func (v *View) drawFooter(s *core.Screen) {
	hints := " space pause   s stats   c clear   1-4 density   q quit"
	s.DrawText(0, s.Height()-1, hints, core.ColorGray)
}

// drawStats paints the statistics overlay box.
func (v *View) drawStats(s *core.Screen, sm *sim.Simulation) {
	st := sm.Stats()

	lines := []string{
		fmt.Sprintf("live      %d", st.Live),
		fmt.Sprintf("spawned   %d", st.Spawned),
		fmt.Sprintf("exited    %d", st.Exited),
		fmt.Sprintf("skipped   %d", st.CapacitySkips),
		fmt.Sprintf("avg speed %.1f km/h", st.AvgSpeed*3.6),
		"",
	}
	for t := 0; t < sim.NumVehicleTypes; t++ {
		lines = append(lines, fmt.Sprintf("%-13s %d", sim.VehicleType(t), st.ByType[t]))
	}

	w := 0
	for _, l := range lines {
		w = core.Max(w, len(l))
	}
	box := core.NewRect(2, 1, w+4, len(lines)+2)
	s.DrawRect(box, ' ', core.ColorDefault)
	s.DrawBox(box, core.ColorWhite)
	s.DrawText(box.X+2, box.Y, " stats ", core.ColorBrightWhite)
	for i, l := range lines {
		s.DrawText(box.X+2, box.Y+1+i, l, core.ColorWhite)
	}
}

// signalColor maps a phase to the stop-line color for a lane group.
func signalColor(p sim.Phase, g sim.LaneGroup) core.Color {
	switch p {
	case sim.PhaseNSGreen:
		if g == sim.GroupNS {
			return core.ColorBrightGreen
		}
	case sim.PhaseEWGreen:
		if g == sim.GroupEW {
			return core.ColorBrightGreen
		}
	case sim.PhaseNSYellow:
		if g == sim.GroupNS {
			return core.ColorBrightYellow
		}
	case sim.PhaseEWYellow:
		if g == sim.GroupEW {
			return core.ColorBrightYellow
		}
	}
	return core.ColorBrightRed
}
