package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
)

// thermalThreshold is the particle temperature above which thermal jitter
// impulses are applied.
const thermalThreshold = 50.0

// thermalJitterScale converts excess temperature into velocity impulse
// magnitude per second.
const thermalJitterScale = 0.12

// Forces computes per-tick accelerations and integrates velocity and
// position. The pass order is fixed: gravity, thermal jitter, energy
// fields, pairwise interactions (which also registers connections),
// turbulence, then integration with friction decay and velocity clamping.
type Forces struct {
	cfg   *config.Config
	rng   *rand.Rand
	noise *Turbulence
	graph *ConnectionGraph
}

// NewForces creates the force system.
func NewForces(cfg *config.Config, rng *rand.Rand, graph *ConnectionGraph) *Forces {
	return &Forces{
		cfg:   cfg,
		rng:   rng,
		noise: NewTurbulence(rng.Int63()),
		graph: graph,
	}
}

// Update advances all particles by dt seconds. simTime animates the
// turbulence noise field.
func (f *Forces) Update(pool *Pool, fields []components.EnergyField, dt, simTime float64) {
	cfg := f.cfg
	particles := pool.Particles()

	for i := range particles {
		p := &particles[i]
		p.AX, p.AY = 0, 0

		p.AY += cfg.Physics.Gravity * p.Mass

		if p.Temperature > thermalThreshold {
			excess := p.Temperature - thermalThreshold
			p.VX += (f.rng.Float64() - 0.5) * excess * thermalJitterScale * dt
			p.VY += (f.rng.Float64() - 0.5) * excess * thermalJitterScale * dt
		}
	}

	if cfg.Features.EnergyFields {
		f.applyFields(particles, fields, dt)
	}

	if cfg.Features.Interactions {
		f.applyInteractions(particles)
	}

	if cfg.Physics.Turbulence > 0 {
		f.applyTurbulence(particles, simTime)
	}

	scale := cfg.Physics.ForceScale
	for i := range particles {
		p := &particles[i]

		p.VX += p.AX * dt * scale
		p.VY += p.AY * dt * scale

		p.VX *= cfg.Physics.Friction
		p.VY *= cfg.Physics.Friction

		clampSpeed(p, cfg.Physics.MaxVelocity)

		p.X += p.VX * dt * scale
		p.Y += p.VY * dt * scale
	}
}

// applyFields adds acceleration from each active field the particle sits
// inside. Magnetic and electric fields act only on charged particles with
// inverse-square falloff; gravitational fields pull all mass toward their
// center; thermal fields heat particles instead of pushing them.
func (f *Forces) applyFields(particles []components.Particle, fields []components.EnergyField, dt float64) {
	for i := range particles {
		p := &particles[i]
		for j := range fields {
			fld := &fields[j]
			if !fld.Active {
				continue
			}

			dx := p.X - fld.X
			dy := p.Y - fld.Y
			dist := math.Hypot(dx, dy)
			if dist == 0 || dist >= fld.Radius {
				continue
			}

			mag := fld.Strength / (dist * dist)
			nx, ny := dx/dist, dy/dist

			switch fld.Type {
			case components.FieldMagnetic, components.FieldElectric:
				if p.Charge == 0 {
					continue
				}
				sign := fld.Polarity.Sign() * math.Copysign(1, p.Charge)
				p.AX += nx * mag * sign
				p.AY += ny * mag * sign
			case components.FieldGravitational:
				p.AX -= nx * mag * p.Mass
				p.AY -= ny * mag * p.Mass
			case components.FieldThermal:
				p.Temperature += mag * dt
			}
		}
	}
}

// applyInteractions runs the unordered pair pass: a net attraction-minus-
// repulsion force with inverse-square falloff, scaled by the other
// particle's mass and applied equal-and-opposite. Pairs inside the
// connection distance are registered in the graph.
func (f *Forces) applyInteractions(particles []components.Particle) {
	cfg := f.cfg
	maxDist := cfg.Interactions.ConnectionDistance
	if maxDist <= 0 {
		return
	}
	net := (cfg.Physics.Attraction - cfg.Physics.Repulsion) * cfg.Interactions.ConnectionStrength

	for i := 0; i < len(particles); i++ {
		a := &particles[i]
		for j := i + 1; j < len(particles); j++ {
			b := &particles[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist == 0 || dist >= maxDist {
				continue
			}

			mag := net / (dist * dist)
			nx, ny := dx/dist, dy/dist

			a.AX += nx * mag * b.Mass
			a.AY += ny * mag * b.Mass
			b.AX -= nx * mag * a.Mass
			b.AY -= ny * mag * a.Mass

			if cfg.Features.Connections {
				f.graph.Register(a, b)
			}
		}
	}
}

// applyTurbulence perturbs acceleration with a coherent noise field
// animated over simulation time.
func (f *Forces) applyTurbulence(particles []components.Particle, simTime float64) {
	strength := f.cfg.Physics.Turbulence
	for i := range particles {
		p := &particles[i]
		ax, ay := f.noise.Sample(p.X, p.Y, simTime)
		p.AX += ax * strength
		p.AY += ay * strength
	}
}

// clampSpeed limits |v| to maxVelocity, preserving direction.
func clampSpeed(p *components.Particle, maxVelocity float64) {
	if maxVelocity <= 0 {
		return
	}
	speed := math.Hypot(p.VX, p.VY)
	if speed > maxVelocity {
		s := maxVelocity / speed
		p.VX *= s
		p.VY *= s
	}
}
