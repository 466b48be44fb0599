package config

import "fmt"

// Patch is a partial configuration override applied at runtime. Nil fields
// are left untouched. A patch is applied to a copy of the current config and
// the whole result is validated before being adopted, so a rejected patch
// leaves the running configuration unchanged.
type Patch struct {
	ParticleCount *int     `yaml:"particle_count"`
	Gravity       *float64 `yaml:"gravity"`
	Friction      *float64 `yaml:"friction"`
	Bounce        *float64 `yaml:"bounce"`
	Attraction    *float64 `yaml:"attraction"`
	Repulsion     *float64 `yaml:"repulsion"`
	MaxVelocity   *float64 `yaml:"max_velocity"`
	SizeMin       *float64 `yaml:"size_min"`
	SizeMax       *float64 `yaml:"size_max"`
	LifeMin       *float64 `yaml:"life_min"`
	LifeMax       *float64 `yaml:"life_max"`
	Palette       []string `yaml:"palette"`
	Types         []string `yaml:"types"`

	ConnectionDistance *float64 `yaml:"connection_distance"`
	ConnectionStrength *float64 `yaml:"connection_strength"`
	FieldStrength      *float64 `yaml:"field_strength"`
	Temperature        *float64 `yaml:"temperature"`
	Turbulence         *float64 `yaml:"turbulence"`

	EnablePhysics      *bool `yaml:"physics"`
	EnableInteractions *bool `yaml:"interactions"`
	EnableEnergyFields *bool `yaml:"energy_fields"`
	EnableHolographic  *bool `yaml:"holographic"`
	EnableConnections  *bool `yaml:"connections"`

	MaxCollisionHistory *int `yaml:"max_collision_history"`
}

// Apply merges the patch over the config and validates the result. On error
// the receiver is unchanged.
func (c *Config) Apply(p Patch) error {
	next := *c
	next.Particles.Palette = append([]string(nil), c.Particles.Palette...)
	next.Particles.Types = append([]string(nil), c.Particles.Types...)

	setInt(&next.Particles.Count, p.ParticleCount)
	setFloat(&next.Physics.Gravity, p.Gravity)
	setFloat(&next.Physics.Friction, p.Friction)
	setFloat(&next.Physics.Bounce, p.Bounce)
	setFloat(&next.Physics.Attraction, p.Attraction)
	setFloat(&next.Physics.Repulsion, p.Repulsion)
	setFloat(&next.Physics.MaxVelocity, p.MaxVelocity)
	setFloat(&next.Particles.SizeMin, p.SizeMin)
	setFloat(&next.Particles.SizeMax, p.SizeMax)
	setFloat(&next.Particles.LifeMin, p.LifeMin)
	setFloat(&next.Particles.LifeMax, p.LifeMax)
	setFloat(&next.Interactions.ConnectionDistance, p.ConnectionDistance)
	setFloat(&next.Interactions.ConnectionStrength, p.ConnectionStrength)
	setFloat(&next.Interactions.FieldStrength, p.FieldStrength)
	setFloat(&next.Physics.Temperature, p.Temperature)
	setFloat(&next.Physics.Turbulence, p.Turbulence)
	setBool(&next.Features.Physics, p.EnablePhysics)
	setBool(&next.Features.Interactions, p.EnableInteractions)
	setBool(&next.Features.EnergyFields, p.EnableEnergyFields)
	setBool(&next.Features.Holographic, p.EnableHolographic)
	setBool(&next.Features.Connections, p.EnableConnections)
	setInt(&next.Collisions.MaxHistory, p.MaxCollisionHistory)

	if p.Palette != nil {
		next.Particles.Palette = append([]string(nil), p.Palette...)
	}
	if p.Types != nil {
		next.Particles.Types = append([]string(nil), p.Types...)
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("applying config patch: %w", err)
	}

	*c = next
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
