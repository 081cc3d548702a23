package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-traffic/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration YAML",
	Long: `Print the built-in configuration as YAML. Save it to
~/.traffic/configs/traffic.yaml (or pass it with --config) and edit it
to customize roads, vehicle specs, densities and light timings.

Example:
  traffic config > ~/.traffic/configs/traffic.yaml`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Print(string(config.GetDefaultYAML()))
	},
}
