// Package tui provides the Bubble Tea integration for the traffic
// simulator. It handles the terminal UI loop, input mapping, and the
// crossroad view.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that delivers the next TickMsg
// after one simulation frame. The interval is derived from the tick
// rate so the simulated dt and the wall-clock cadence stay matched.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < 1 {
		tickRate = 1
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
