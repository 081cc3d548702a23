// traffic is a terminal simulator of Indian street traffic at a
// signalized crossroad.
//
// Usage:
//
//	traffic run              - Watch the simulation in the terminal
//	traffic simulate         - Run headless and record the result
//	traffic serve            - Start SSH server for remote viewing
//	traffic sessions         - Show recorded sessions
//	traffic config           - Print the default configuration YAML
//
// Global flags:
//
//	--config <path> - Use a custom configuration file
//	--fps <rate>    - Set tick rate (default: 20)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.traffic/sessions.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "traffic",
	Short: "Indian traffic simulator for your terminal",
	Long: `traffic simulates mixed Indian street traffic - cars, buses, trucks,
motorcycles, auto rickshaws, bicycles and tempos - crossing a signalized
intersection, rendered live in your terminal.

Available commands:
  run       - Watch the simulation interactively
  simulate  - Run headless for a fixed number of ticks
  serve     - Start SSH server for remote viewing
  sessions  - View recorded session statistics
  config    - Print the default configuration YAML

Examples:
  traffic run
  traffic run --density peak_hour
  traffic simulate --ticks 12000
  traffic serve --ssh :2222
  traffic sessions`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom configuration YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 20, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.traffic/sessions.db", "Path to sessions database")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
}
