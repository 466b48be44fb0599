package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
)

// Responder turns classified collisions into their cosmetic side effect: a
// radial burst of short-lived energy particles from the collision point.
//
// Classification never mutates the colliding particles' own records. The
// two particles keep their position, velocity, and life regardless of how
// destructive the classification is; the burst is a purely visual effect
// and downstream consumers read the classification from the event stream.
type Responder struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewResponder creates the collision responder.
func NewResponder(cfg *config.Config, rng *rand.Rand) *Responder {
	return &Responder{cfg: cfg, rng: rng}
}

// Respond spawns the explosion burst for one event. The burst draws from
// the pool's bounded headroom; when the ceiling is exhausted the burst is
// truncated silently.
func (r *Responder) Respond(pool *Pool, ev components.CollisionEvent) int {
	count := r.cfg.Collisions.ExplosionParticles
	if count > 10 {
		count = 10
	}
	if count <= 0 {
		return 0
	}

	speed := ev.ImpactForce / 2
	spawned := 0
	for i := 0; i < count; i++ {
		angle := (float64(i)/float64(count))*2*math.Pi + r.rng.Float64()*0.3
		p := pool.SpawnTyped(
			components.TypeEnergy,
			ev.PointX, ev.PointY,
			math.Cos(angle)*speed,
			math.Sin(angle)*speed,
		)
		if p == nil {
			break
		}
		p.Radius = 0.5 + r.rng.Float64()
		p.Mass = p.Radius
		p.MaxLife = r.cfg.Collisions.ExplosionLife
		p.Life = 1
		p.Opacity = 0.9
		spawned++
	}
	return spawned
}
