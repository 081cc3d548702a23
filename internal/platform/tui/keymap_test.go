package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-traffic/internal/core"
	"github.com/vovakirdan/tui-traffic/internal/sim"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
		isQuit   bool
	}{
		{"quit q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit, true},
		{"quit ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"pause space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionPause, false},
		{"pause p", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, core.ActionPause, false},
		{"stats", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, core.ActionStats, false},
		{"clear", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}, core.ActionClear, false},
		{"density low", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")}, core.ActionDensityLow, false},
		{"density peak", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")}, core.ActionDensityPeak, false},
		{"unbound key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, isQuit := km.MapKey(tc.msg)
			if action != tc.expected {
				t.Errorf("MapKey(%q) action = %v, expected %v", tc.msg.String(), action, tc.expected)
			}
			if isQuit != tc.isQuit {
				t.Errorf("MapKey(%q) isQuit = %v, expected %v", tc.msg.String(), isQuit, tc.isQuit)
			}
		})
	}
}

func TestViewDrawsScene(t *testing.T) {
	simulation, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 200; i++ {
		simulation.Tick(0.1)
	}

	screen := core.NewScreen(100, 30)
	view := NewView(simulation.Network())
	view.Draw(screen, simulation)

	out := screen.String()
	if !strings.Contains(out, "density medium") {
		t.Error("header should show the active density")
	}
	if !strings.Contains(out, "·") {
		t.Error("road surface should be drawn")
	}
	if !strings.Contains(screen.Row(screen.Height()-1), "q quit") {
		t.Error("footer should show key hints")
	}
}

func TestViewStatsOverlay(t *testing.T) {
	simulation, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	simulation.Tick(0.1)

	screen := core.NewScreen(100, 30)
	view := NewView(simulation.Network())
	view.ShowStats = true
	view.Draw(screen, simulation)

	out := screen.String()
	if !strings.Contains(out, "spawned") {
		t.Error("stats overlay should list spawn counters")
	}
	if !strings.Contains(out, "auto_rickshaw") {
		t.Error("stats overlay should list per-type counts")
	}
}

func TestRenderScreenPreservesText(t *testing.T) {
	screen := core.NewScreen(12, 2)
	screen.DrawText(0, 0, "hello", core.ColorGreen)
	screen.DrawText(0, 1, "world", core.ColorDefault)

	out := RenderScreen(screen)
	if !strings.Contains(out, "hello") {
		t.Errorf("rendered output should contain styled text, got %q", out)
	}
	if !strings.Contains(out, "world") {
		t.Errorf("rendered output should contain plain text, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 1 newline for 2 rows, got %d", strings.Count(out, "\n"))
	}
}
