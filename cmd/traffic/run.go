package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-traffic/internal/config"
	"github.com/vovakirdan/tui-traffic/internal/core"
	"github.com/vovakirdan/tui-traffic/internal/platform/tui"
	"github.com/vovakirdan/tui-traffic/internal/sim"
	"github.com/vovakirdan/tui-traffic/internal/storage"
)

var flagDensity string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the simulation in the terminal",
	Long: `Start the interactive crossroad view.

Controls:
  Space/P    - Pause/resume
  S          - Toggle statistics overlay
  C          - Clear all vehicles
  1-4        - Switch density (low, medium, high, peak hour)
  Q/Ctrl+C   - Quit (the run is recorded)

Examples:
  traffic run
  traffic run --density high
  traffic run --config ./my-traffic.yaml --seed 42`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagDensity, "density", "", "Initial density: low, medium, high, peak_hour")
}

func runRun(_ *cobra.Command, _ []string) error {
	simCfg, err := buildSimConfig()
	if err != nil {
		return err
	}

	simulation, err := sim.New(simCfg)
	if err != nil {
		return fmt.Errorf("cannot build simulation: %w", err)
	}

	// Get terminal size for the initial screen buffer
	width, height := 100, 30
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     simCfg.Seed,
	}

	// Open session storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		// Continue without storage - the simulator still works
		store = nil
	}

	runErr := tui.Run(simulation, store, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("cannot run simulator: %w", runErr)
	}
	return nil
}

// buildSimConfig resolves the simulation configuration from the config
// file plus the command-line overrides shared by run and simulate.
func buildSimConfig() (sim.Config, error) {
	simCfg, err := config.LoadSimConfig(flagConfig)
	if err != nil {
		return sim.Config{}, err
	}

	if flagDensity != "" {
		d, err := config.ParseDensity(flagDensity)
		if err != nil {
			return sim.Config{}, err
		}
		simCfg.Density = d
	}

	simCfg.Seed = flagSeed
	if simCfg.Seed == 0 {
		simCfg.Seed = time.Now().UnixNano()
	}

	return simCfg, nil
}
