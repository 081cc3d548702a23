package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-traffic/internal/sim"
)

// Load loads the traffic configuration.
// Search order: customPath -> ~/.traffic/configs/traffic.yaml -> ./configs/traffic.yaml -> embedded default
func Load(customPath string) (TrafficConfig, error) {
	var cfg TrafficConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("traffic.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/traffic.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTrafficYAML, &cfg); err != nil {
		return DefaultTrafficConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadSimConfig loads and resolves the configuration in one step.
func LoadSimConfig(customPath string) (sim.Config, error) {
	cfg, err := Load(customPath)
	if err != nil {
		return sim.Config{}, err
	}
	return cfg.ToSimConfig()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".traffic", "configs", filename)
}
