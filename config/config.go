// Package config loads bdm.toml the way the teacher's reinforcement
// package loads its YAML training config (reinforcement.FromYaml):
// a single viper instance, unmarshaled into a tagged struct, with
// unknown keys ignored and a missing file treated as recoverable
// (spec.md section 7) rather than fatal.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"simcore/logx"
)

// Simulation holds the [simulation] table of bdm.toml.
type Simulation struct {
	BackupFile              string    `mapstructure:"backup_file"`
	RestoreFile              string    `mapstructure:"restore_file"`
	BackupInterval           int       `mapstructure:"backup_interval"` // seconds
	TimeStep                 float64   `mapstructure:"time_step"`
	MaxDisplacement          float64   `mapstructure:"max_displacement"`
	RunMechanicalInteractions bool     `mapstructure:"run_mechanical_interactions"`
	BoundSpace               bool      `mapstructure:"bound_space"`
	MinBound                 float64   `mapstructure:"min_bound"`
	MaxBound                 float64   `mapstructure:"max_bound"`
	LeakingEdges             bool      `mapstructure:"leaking_edges"`
	CalculateGradients       bool      `mapstructure:"calculate_gradients"`
	RebalanceInterval        int       `mapstructure:"rebalance_interval"` // steps; 0 disables
}

// VisualizeSimObject is one entry of the repeatable [[visualize_sim_object]] table.
type VisualizeSimObject struct {
	Name string `mapstructure:"name"`
}

// VisualizeDiffusion is one entry of the repeatable [[visualize_diffusion]] table.
type VisualizeDiffusion struct {
	Name string `mapstructure:"name"`
}

// Visualization holds the [visualization] table.
type Visualization struct {
	Live                 bool                 `mapstructure:"live"`
	Export               bool                 `mapstructure:"export"`
	ExportInterval        int                  `mapstructure:"export_interval"`
	VisualizeSimObjects   []VisualizeSimObject `mapstructure:"visualize_sim_object"`
	VisualizeDiffusion    []VisualizeDiffusion `mapstructure:"visualize_diffusion"`
}

// Development holds the [development] table.
type Development struct {
	Statistics          bool `mapstructure:"statistics"`
	ShowSimulationStep  bool `mapstructure:"show_simulation_step"`
	SimulationStepFreq  int  `mapstructure:"simulation_step_freq"`
}

// Experimental holds the [experimental] table.
type Experimental struct {
	UseGPU       bool   `mapstructure:"use_gpu"`
	UseOpenCL    bool   `mapstructure:"use_opencl"`
	PreferredGPU string `mapstructure:"preferred_gpu"`
}

// Config is the parsed content of bdm.toml.
type Config struct {
	Simulation    Simulation    `mapstructure:"simulation"`
	Visualization Visualization `mapstructure:"visualization"`
	Development   Development   `mapstructure:"development"`
	Experimental  Experimental  `mapstructure:"experimental"`
}

// Default returns the configuration used when no bdm.toml is found.
func Default() *Config {
	return &Config{
		Simulation: Simulation{
			BackupInterval:            0,
			TimeStep:                  0.01,
			MaxDisplacement:           3.0,
			RunMechanicalInteractions: true,
			BoundSpace:                false,
			MinBound:                  0,
			MaxBound:                  100,
			LeakingEdges:              false,
			CalculateGradients:        true,
			RebalanceInterval:         100,
		},
		Development: Development{
			SimulationStepFreq: 10,
		},
	}
}

// Load searches for bdm.toml in "." then "..", the way spec.md section 6
// specifies. A missing file falls back to Default() with a warning
// (recoverable); a present-but-malformed file is an error, since that
// indicates the user's intent could not be honored at all.
func Load() (*Config, error) {
	return LoadNamed("bdm")
}

// LoadNamed is Load with an overridable base file name, used by tests so
// they don't collide on a shared bdm.toml in the working directory.
func LoadNamed(name string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigName(name)
	vp.SetConfigType("toml")
	vp.AddConfigPath(".")
	vp.AddConfigPath("..")

	cfg := Default()

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logx.Recoverable("config", "no %s.toml found, using defaults", name)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}
