package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the run flags so a training setup can live in a YAML
// file. Explicit flags override file values.
type fileConfig struct {
	GridSize    int     `yaml:"grid_size"`
	FlashUnits  int     `yaml:"n_flash"`
	Torus       *bool   `yaml:"tore"`
	WumpusDyn   *bool   `yaml:"wumpus_dyn"`
	Episodes    int     `yaml:"episodes"`
	MaxSteps    int     `yaml:"max_steps"`
	Policy      string  `yaml:"policy"`
	Encoding    string  `yaml:"encoding"`
	Epsilon     float64 `yaml:"epsilon"`
	Temperature float64 `yaml:"temperature"`
	Lambda      float64 `yaml:"lambda"`
	Seed        int64   `yaml:"seed"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
