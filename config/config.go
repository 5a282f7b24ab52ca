// Package config provides configuration loading and access for the
// simulation engine (grid size, fluid tuning factors, explosion/particle
// timing, telemetry windows).
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Particles ParticlesConfig `yaml:"particles"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading.
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds game-grid and physics-grid dimensioning.
type GridConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	Subdivisions int `yaml:"subdivisions"`
	RowsPerBlock int `yaml:"rows_per_block"`
}

// PhysicsConfig holds the cellular-automaton's initial values, the five
// dimensionless diffusion/flow/convection factors from spec.md §4.2 and the
// flow damping factor.
type PhysicsConfig struct {
	InitialAirPressure  float64 `yaml:"initial_air_pressure"`
	InitialTemperature  float64 `yaml:"initial_temperature"`
	InitialFogDensity   float64 `yaml:"initial_fog_density"`
	AirDiffusion        float64 `yaml:"air_diffusion"`
	AirFlow             float64 `yaml:"air_flow"`
	Convection          float64 `yaml:"convection"`
	HeatDiffusion       float64 `yaml:"heat_diffusion"`
	FogDiffusion        float64 `yaml:"fog_diffusion"`
	FlowDamping         float64 `yaml:"flow_damping"`
	FogDiffusionEnabled bool    `yaml:"fog_diffusion_enabled"`
	AirTempCoeff        float64 `yaml:"air_temp_coeff"`
	KelvinToCelsius     float64 `yaml:"kelvin_to_celsius"`
	TimeSliceSeconds    float64 `yaml:"time_slice_seconds"`
}

// ExplosionConfig holds explosion subsystem timings.
type ExplosionConfig struct {
	TriggerTimeoutTicks uint64 `yaml:"trigger_timeout_ticks"`
	BlockLifetimeTicks  uint64 `yaml:"block_lifetime_ticks"`
	ParticleCount       int    `yaml:"particle_count"`
}

// ParticlesConfig holds particle system tuning.
type ParticlesConfig struct {
	ChunkSize                  int     `yaml:"chunk_size"`
	FireTemperatureRise        float64 `yaml:"fire_temperature_rise"`
	FirePrimaryFlowInfluence   float64 `yaml:"fire_primary_flow_influence"`
	FireSecondaryFlowInfluence float64 `yaml:"fire_secondary_flow_influence"`
	FireSecondarySpawnRate     float64 `yaml:"fire_secondary_spawn_rate"`
}

// TelemetryConfig holds run-statistics parameters.
type TelemetryConfig struct {
	WindowTicks int    `yaml:"window_ticks"`
	OutputDir   string `yaml:"output_dir"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	PhysicsWidth  int
	PhysicsHeight int
}

func (c *Config) computeDerived() {
	c.Derived.PhysicsWidth = c.Grid.Width * c.Grid.Subdivisions
	c.Derived.PhysicsHeight = c.Grid.Height * c.Grid.Subdivisions
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// WriteYAML saves the configuration to a file, e.g. alongside a telemetry
// run directory so the parameters of a run are reproducible.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
