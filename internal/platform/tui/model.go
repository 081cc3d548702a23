package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-traffic/internal/core"
	"github.com/vovakirdan/tui-traffic/internal/sim"
	"github.com/vovakirdan/tui-traffic/internal/storage"
)

// Model is the Bubble Tea model driving one simulation.
type Model struct {
	simulation *sim.Simulation
	view       *View
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper

	// paused mirrors the pause state the user asked for; the simulation
	// applies it at the next tick boundary.
	paused   bool
	quitting bool
	saved    bool
}

// NewModel creates a Bubble Tea model for the given simulation.
func NewModel(simulation *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig) Model {
	return Model{
		simulation: simulation,
		view:       NewView(simulation.Network()),
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveSession()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionPause:
		m.paused = !m.paused
		m.simulation.SetPaused(m.paused)
	case core.ActionStats:
		m.view.ShowStats = !m.view.ShowStats
	case core.ActionClear:
		m.simulation.ClearVehicles()
	case core.ActionDensityLow:
		m.simulation.SetDensity(sim.DensityLow)
	case core.ActionDensityMed:
		m.simulation.SetDensity(sim.DensityMedium)
	case core.ActionDensityHigh:
		m.simulation.SetDensity(sim.DensityHigh)
	case core.ActionDensityPeak:
		m.simulation.SetDensity(sim.DensityPeakHour)
	}

	return m, nil
}

// handleResize processes window resize events. Only the screen buffer
// changes; the simulation keeps running undisturbed.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick advances the simulation by one fixed-duration step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.simulation.Tick(1.0 / float64(m.config.TickRate))
	return m, tickCmd(m.config.TickRate)
}

// saveSession records the run, once, if a store is available.
func (m *Model) saveSession() {
	if m.store == nil || m.saved {
		return
	}
	st := m.simulation.Stats()
	if st.Tick == 0 {
		return
	}

	counts := make(map[string]int, sim.NumVehicleTypes)
	for t := 0; t < sim.NumVehicleTypes; t++ {
		counts[sim.VehicleType(t).String()] = st.ByType[t]
	}

	//nolint:errcheck // Best-effort save, quitting regardless
	m.store.SaveSession(storage.SessionRecord{
		Density:       st.Density.String(),
		Seed:          m.config.Seed,
		Ticks:         int64(st.Tick),
		SimSeconds:    st.Elapsed,
		Spawned:       int64(st.Spawned),
		Exited:        int64(st.Exited),
		CapacitySkips: int64(st.CapacitySkips),
		AvgSpeed:      st.AvgSpeed,
		VehicleCounts: counts,
	})
	m.saved = true
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.view.Draw(m.screen, m.simulation)

	dir := filepath.Join(os.Getenv("HOME"), ".traffic", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("traffic_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, simulation continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.view.Draw(m.screen, m.simulation)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for the given simulation.
func Run(simulation *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(simulation, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
