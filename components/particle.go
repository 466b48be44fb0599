// Package components defines the data types shared across the simulation.
package components

import "math"

// ParticleType identifies the kind of a particle.
type ParticleType uint8

const (
	TypeEnergy ParticleType = iota
	TypeMatter
	TypeHolographic
	TypeQuantum
)

// String returns the display name for a ParticleType.
func (t ParticleType) String() string {
	names := ParticleTypeNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// ParticleTypeNames returns the display names for all particle types.
// The order matches the ParticleType constants.
func ParticleTypeNames() []string {
	return []string{"Energy", "Matter", "Holographic", "Quantum"}
}

// ParseParticleType resolves a display name back to a ParticleType.
func ParseParticleType(name string) (ParticleType, bool) {
	for i, n := range ParticleTypeNames() {
		if n == name {
			return ParticleType(i), true
		}
	}
	return 0, false
}

// Response returns the collision response policy intrinsic to the type.
func (t ParticleType) Response() Response {
	switch t {
	case TypeEnergy:
		return ResponseBounce
	case TypeMatter:
		return ResponseMerge
	case TypeHolographic:
		return ResponseSplit
	case TypeQuantum:
		return ResponseDestroy
	default:
		return ResponseCustom
	}
}

// Charged reports whether the type participates in electromagnetic fields.
func (t ParticleType) Charged() bool {
	return t == TypeEnergy || t == TypeHolographic || t == TypeQuantum
}

// Particle is a pooled simulation entity. Particles are owned by the pool
// and mutated only during a tick; hosts receive copies via snapshots.
type Particle struct {
	ID int

	X, Y   float64
	VX, VY float64
	AX, AY float64 // transient, reset at the start of every tick

	Mass   float64
	Radius float64

	Color   string
	Opacity float64

	Life    float64 // fraction of remaining lifetime, [0,1]
	MaxLife float64 // lifetime duration in seconds

	Type        ParticleType
	Charge      float64
	Temperature float64

	// Ephemeral marks bounded cosmetic extras (explosion spawns). Expired
	// ephemerals are compacted out of the pool; expired base particles are
	// recycled in place.
	Ephemeral bool

	// Connections holds ids of particles this one has come within
	// connection distance of. Registration is symmetric; entries are not
	// removed when particles separate.
	Connections map[int]struct{}
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Connect registers a connection to another particle id.
func (p *Particle) Connect(id int) {
	if p.Connections == nil {
		p.Connections = make(map[int]struct{}, 4)
	}
	p.Connections[id] = struct{}{}
}

// ConnectedTo reports whether the particle has a connection to id.
func (p *Particle) ConnectedTo(id int) bool {
	_, ok := p.Connections[id]
	return ok
}

// Clone returns a deep copy suitable for publication outside the tick.
func (p *Particle) Clone() Particle {
	c := *p
	if p.Connections != nil {
		c.Connections = make(map[int]struct{}, len(p.Connections))
		for id := range p.Connections {
			c.Connections[id] = struct{}{}
		}
	}
	return c
}
