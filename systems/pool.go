// Package systems contains the simulation systems operating on the
// particle pool.
package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
)

// Pool is a fixed-population particle store. Expired base particles are
// recycled in place with fresh attributes; collision-spawned extras are
// admitted up to a bounded ceiling and compacted away when they expire.
// The live count never drops below the configured base population.
type Pool struct {
	particles []components.Particle
	base      int
	maxExtra  int
	nextID    int
	rng       *rand.Rand
	cfg       *config.Config
}

// NewPool creates a pool with the configured base population.
func NewPool(cfg *config.Config, rng *rand.Rand) *Pool {
	p := &Pool{
		particles: make([]components.Particle, 0, cfg.Particles.Count+cfg.Particles.MaxExtra),
		base:      cfg.Particles.Count,
		maxExtra:  cfg.Particles.MaxExtra,
		nextID:    1,
		rng:       rng,
		cfg:       cfg,
	}
	for i := 0; i < p.base; i++ {
		p.particles = append(p.particles, p.randomized(false))
	}
	return p
}

// Particles returns the live particle slice for in-tick mutation. The slice
// is invalidated by Lifecycle and Spawn; callers must not retain it across
// pool operations.
func (p *Pool) Particles() []components.Particle {
	return p.particles
}

// Len returns the current live count.
func (p *Pool) Len() int {
	return len(p.particles)
}

// BaseCount returns the configured base population.
func (p *Pool) BaseCount() int {
	return p.base
}

// Headroom returns how many more extras can be admitted.
func (p *Pool) Headroom() int {
	return p.base + p.maxExtra - len(p.particles)
}

// SetBase retargets the base population. Growth takes effect immediately:
// fresh base particles are spawned up to the new count. Shrinking is
// gradual: excess base slots lapse as their lives expire rather than being
// culled mid-flight.
func (p *Pool) SetBase(n int) {
	if n < 1 || n == p.base {
		return
	}
	p.base = n

	baseAlive := 0
	for i := range p.particles {
		if !p.particles[i].Ephemeral {
			baseAlive++
		}
	}
	for ; baseAlive < n; baseAlive++ {
		p.particles = append(p.particles, p.randomized(false))
	}
}

// Lifecycle decrements life and handles expiry: base slots are recycled in
// place, expired extras are compacted out. While the live base population
// exceeds the target (after SetBase shrank it) expired base slots lapse
// instead of recycling. Runs once per tick after integration.
func (p *Pool) Lifecycle(dt float64) {
	baseAlive := 0
	for i := range p.particles {
		if !p.particles[i].Ephemeral {
			baseAlive++
		}
	}

	alive := 0
	for i := range p.particles {
		pt := &p.particles[i]
		if pt.MaxLife > 0 {
			pt.Life -= dt / pt.MaxLife
		}
		if pt.Life > 0 {
			p.particles[alive] = p.particles[i]
			alive++
			continue
		}
		if pt.Ephemeral {
			continue // drop expired extras
		}
		if baseAlive > p.base {
			baseAlive--
			continue // lapse excess base slots toward the new target
		}
		// Recycle the slot: fresh identity, fresh attributes
		p.particles[alive] = p.randomized(false)
		alive++
	}
	p.particles = p.particles[:alive]
}

// Spawn admits a pre-built particle as a bounded extra. Returns nil when
// the ceiling is exhausted or any kinematic component is non-finite; a
// single non-finite record would corrupt the whole population through the
// pairwise force pass within a few ticks.
func (p *Pool) Spawn(pt components.Particle) *components.Particle {
	if p.Headroom() <= 0 {
		return nil
	}
	if !finite(pt.X, pt.Y, pt.VX, pt.VY) {
		return nil
	}
	pt.ID = p.nextID
	p.nextID++
	clampSpeed(&pt, p.cfg.Physics.MaxVelocity)
	if pt.Mass <= 0 {
		pt.Mass = 1
	}
	if pt.Radius <= 0 {
		pt.Radius = p.cfg.Particles.SizeMin
	}
	if pt.MaxLife <= 0 {
		pt.MaxLife = p.cfg.Particles.LifeMin
	}
	if pt.Life <= 0 || pt.Life > 1 {
		pt.Life = 1
	}
	// Bursts near a wall may hand in a midpoint closer to the edge than the
	// radius; admit the particle fully inside the domain.
	pt.X = clampRange(pt.X, pt.Radius, p.cfg.Domain.Width-pt.Radius)
	pt.Y = clampRange(pt.Y, pt.Radius, p.cfg.Domain.Height-pt.Radius)
	p.particles = append(p.particles, pt)
	return &p.particles[len(p.particles)-1]
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SpawnTyped builds and admits a particle of the given type at a position
// with a velocity, using the configured attribute ranges.
func (p *Pool) SpawnTyped(t components.ParticleType, x, y, vx, vy float64) *components.Particle {
	pt := p.randomized(true)
	pt.Type = t
	pt.Charge = p.chargeFor(t)
	pt.X, pt.Y = x, y
	pt.VX, pt.VY = vx, vy
	return p.Spawn(pt)
}

// randomized builds a particle with attributes drawn from the configured
// ranges. Extras are flagged so Lifecycle compacts them on expiry instead
// of recycling their slot.
func (p *Pool) randomized(extra bool) components.Particle {
	cfg := p.cfg
	radius := cfg.Particles.SizeMin + p.rng.Float64()*(cfg.Particles.SizeMax-cfg.Particles.SizeMin)
	life := cfg.Particles.LifeMin + p.rng.Float64()*(cfg.Particles.LifeMax-cfg.Particles.LifeMin)

	t := p.randomType()
	pt := components.Particle{
		ID:          p.nextID,
		X:           radius + p.rng.Float64()*(cfg.Domain.Width-2*radius),
		Y:           radius + p.rng.Float64()*(cfg.Domain.Height-2*radius),
		VX:          (p.rng.Float64() - 0.5) * 2,
		VY:          (p.rng.Float64() - 0.5) * 2,
		Mass:        radius,
		Radius:      radius,
		Opacity:     0.6 + p.rng.Float64()*0.4,
		Life:        1,
		MaxLife:     life,
		Type:        t,
		Charge:      p.chargeFor(t),
		Temperature: cfg.Physics.Temperature,
		Ephemeral:   extra,
	}
	if len(cfg.Particles.Palette) > 0 {
		pt.Color = cfg.Particles.Palette[p.rng.Intn(len(cfg.Particles.Palette))]
	}
	if !extra {
		p.nextID++
	}
	return pt
}

func (p *Pool) randomType() components.ParticleType {
	allowed := make([]components.ParticleType, 0, 4)
	for _, name := range p.cfg.Particles.Types {
		t, ok := components.ParseParticleType(name)
		if !ok {
			continue
		}
		if t == components.TypeHolographic && !p.cfg.Features.Holographic {
			continue
		}
		allowed = append(allowed, t)
	}
	if len(allowed) == 0 {
		return components.TypeEnergy
	}
	return allowed[p.rng.Intn(len(allowed))]
}

func (p *Pool) chargeFor(t components.ParticleType) float64 {
	if !t.Charged() {
		return 0
	}
	if p.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
