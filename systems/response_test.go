package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flux/components"
)

func TestRespondSpawnsRadialBurst(t *testing.T) {
	cfg := testConfig()
	pool := NewPool(cfg, rand.New(rand.NewSource(9)))
	r := NewResponder(cfg, rand.New(rand.NewSource(9)))

	ev := components.CollisionEvent{
		PointX: 400, PointY: 300, ImpactForce: 6,
		Classification: components.ResponseSplit,
	}

	before := pool.Len()
	spawned := r.Respond(pool, ev)

	if spawned != cfg.Collisions.ExplosionParticles {
		t.Errorf("spawned %d, want %d", spawned, cfg.Collisions.ExplosionParticles)
	}
	if pool.Len() != before+spawned {
		t.Errorf("pool size = %d, want %d", pool.Len(), before+spawned)
	}

	for _, p := range pool.Particles()[before:] {
		if p.Type != components.TypeEnergy {
			t.Errorf("explosion particle type = %v, want Energy", p.Type)
		}
		if !p.Ephemeral {
			t.Error("explosion particle not marked ephemeral")
		}
		if p.Speed() == 0 {
			t.Error("explosion particle has zero speed for nonzero impact force")
		}
	}
}

func TestRespondCapsAtTen(t *testing.T) {
	cfg := testConfig()
	cfg.Collisions.ExplosionParticles = 25
	pool := NewPool(cfg, rand.New(rand.NewSource(9)))
	r := NewResponder(cfg, rand.New(rand.NewSource(9)))

	spawned := r.Respond(pool, components.CollisionEvent{PointX: 400, PointY: 300, ImpactForce: 2})
	if spawned != 10 {
		t.Errorf("spawned %d, want burst capped at 10", spawned)
	}
}

func TestRespondTruncatedAtCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.MaxExtra = 3
	pool := NewPool(cfg, rand.New(rand.NewSource(9)))
	r := NewResponder(cfg, rand.New(rand.NewSource(9)))

	spawned := r.Respond(pool, components.CollisionEvent{PointX: 400, PointY: 300, ImpactForce: 2})
	if spawned != 3 {
		t.Errorf("spawned %d, want truncation at headroom 3", spawned)
	}
	if pool.Len() != cfg.Particles.Count+3 {
		t.Errorf("pool size = %d, want %d", pool.Len(), cfg.Particles.Count+3)
	}
}

func TestRespondDoesNotMutateColliders(t *testing.T) {
	cfg := testConfig()
	a := components.Particle{ID: 1, X: 100, Y: 100, VX: 2, Mass: 1, Radius: 5, Life: 0.8, MaxLife: 10, Type: components.TypeQuantum}
	b := components.Particle{ID: 2, X: 106, Y: 100, VX: -2, Mass: 1, Radius: 5, Life: 0.6, MaxLife: 10, Type: components.TypeMatter}
	pool := newTestPool(cfg, []components.Particle{a, b})
	r := NewResponder(cfg, rand.New(rand.NewSource(9)))

	var d Detector
	events := d.Detect(pool.Particles(), 0, 0, nil)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	// Quantum's Destroy outranks Matter's Merge.
	if events[0].Classification != components.ResponseDestroy {
		t.Fatalf("classification = %v, want Destroy", events[0].Classification)
	}

	r.Respond(pool, events[0])

	got := pool.Particles()
	for i, want := range []components.Particle{a, b} {
		p := got[i]
		if p.ID != want.ID || p.X != want.X || p.Y != want.Y ||
			p.VX != want.VX || p.VY != want.VY ||
			p.Life != want.Life || p.Type != want.Type {
			t.Errorf("collision response mutated collider %d: %+v", want.ID, p)
		}
	}
}
