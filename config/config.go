// Package config provides configuration loading, validation, and runtime
// patching for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Domain       DomainConfig       `yaml:"domain"`
	Particles    ParticlesConfig    `yaml:"particles"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Interactions InteractionsConfig `yaml:"interactions"`
	Features     FeaturesConfig     `yaml:"features"`
	Collisions   CollisionsConfig   `yaml:"collisions"`
	Analysis     AnalysisConfig     `yaml:"analysis"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
}

// DomainConfig holds the simulation domain dimensions. Dimensions are fixed
// at construction; there is no resize operation.
type DomainConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ParticlesConfig holds particle population parameters.
type ParticlesConfig struct {
	Count    int      `yaml:"count"`     // base population, never shrinks below this
	MaxExtra int      `yaml:"max_extra"` // ceiling for collision-spawned extras
	SizeMin  float64  `yaml:"size_min"`
	SizeMax  float64  `yaml:"size_max"`
	LifeMin  float64  `yaml:"life_min"` // seconds
	LifeMax  float64  `yaml:"life_max"`
	Palette  []string `yaml:"palette"`
	Types    []string `yaml:"types"` // allowed particle type names
}

// PhysicsConfig holds force and integration parameters.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Friction    float64 `yaml:"friction"` // multiplicative velocity decay per tick
	Bounce      float64 `yaml:"bounce"`   // 0 = inelastic, 1 = perfectly elastic
	Attraction  float64 `yaml:"attraction"`
	Repulsion   float64 `yaml:"repulsion"`
	MaxVelocity float64 `yaml:"max_velocity"`
	ForceScale  float64 `yaml:"force_scale"` // dt multiplier for integration
	Temperature float64 `yaml:"temperature"`
	Turbulence  float64 `yaml:"turbulence"`
}

// InteractionsConfig holds pairwise interaction and field parameters.
type InteractionsConfig struct {
	ConnectionDistance float64 `yaml:"connection_distance"`
	ConnectionStrength float64 `yaml:"connection_strength"`
	FieldStrength      float64 `yaml:"field_strength"`
}

// FeaturesConfig holds feature toggles.
type FeaturesConfig struct {
	Physics      bool `yaml:"physics"`
	Interactions bool `yaml:"interactions"`
	EnergyFields bool `yaml:"energy_fields"`
	Holographic  bool `yaml:"holographic"`
	Connections  bool `yaml:"connections"`
}

// CollisionsConfig holds collision detection and response parameters.
type CollisionsConfig struct {
	MaxHistory         int     `yaml:"max_history"`         // collision event ring capacity
	ExplosionParticles int     `yaml:"explosion_particles"` // cosmetic spawns per collision
	ExplosionLife      float64 `yaml:"explosion_life"`      // seconds
}

// AnalysisConfig holds analysis window parameters.
type AnalysisConfig struct {
	Interval        float64 `yaml:"interval"` // wall-clock seconds between analyses
	HotspotCellSize float64 `yaml:"hotspot_cell_size"`
	TopParticles    int     `yaml:"top_particles"`
	TopHotspots     int     `yaml:"top_hotspots"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // ticks per rolling perf window
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and repairs what can be clamped. Values with a
// defined legal interval (friction, bounce) are clamped; structurally
// invalid values (non-positive counts, inverted ranges) are rejected.
func (c *Config) Validate() error {
	if c.Domain.Width <= 0 || c.Domain.Height <= 0 {
		return fmt.Errorf("config: domain dimensions must be positive, got %gx%g", c.Domain.Width, c.Domain.Height)
	}
	if c.Particles.Count <= 0 {
		return fmt.Errorf("config: particle count must be positive, got %d", c.Particles.Count)
	}
	if c.Particles.MaxExtra < 0 {
		return fmt.Errorf("config: max_extra must be non-negative, got %d", c.Particles.MaxExtra)
	}
	if c.Particles.SizeMin <= 0 || c.Particles.SizeMax < c.Particles.SizeMin {
		return fmt.Errorf("config: particle size range invalid: [%g, %g]", c.Particles.SizeMin, c.Particles.SizeMax)
	}
	if c.Particles.LifeMin <= 0 || c.Particles.LifeMax < c.Particles.LifeMin {
		return fmt.Errorf("config: particle life range invalid: [%g, %g]", c.Particles.LifeMin, c.Particles.LifeMax)
	}
	if c.Physics.MaxVelocity < 0 {
		return fmt.Errorf("config: max_velocity must be non-negative, got %g", c.Physics.MaxVelocity)
	}
	if c.Physics.Temperature < 0 {
		return fmt.Errorf("config: temperature must be non-negative, got %g", c.Physics.Temperature)
	}
	if c.Physics.Turbulence < 0 {
		return fmt.Errorf("config: turbulence must be non-negative, got %g", c.Physics.Turbulence)
	}
	if c.Interactions.ConnectionDistance < 0 {
		return fmt.Errorf("config: connection_distance must be non-negative, got %g", c.Interactions.ConnectionDistance)
	}
	if c.Collisions.MaxHistory < 1 {
		return fmt.Errorf("config: max_history must be at least 1, got %d", c.Collisions.MaxHistory)
	}
	if c.Analysis.Interval <= 0 {
		return fmt.Errorf("config: analysis interval must be positive, got %g", c.Analysis.Interval)
	}
	if c.Analysis.HotspotCellSize <= 0 {
		return fmt.Errorf("config: hotspot_cell_size must be positive, got %g", c.Analysis.HotspotCellSize)
	}

	c.Physics.Friction = clamp01(c.Physics.Friction)
	c.Physics.Bounce = clamp01(c.Physics.Bounce)
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
	if c.Analysis.TopParticles < 1 {
		c.Analysis.TopParticles = 5
	}
	if c.Analysis.TopHotspots < 1 {
		c.Analysis.TopHotspots = 10
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
