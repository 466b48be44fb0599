package sim

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/systems"
	"github.com/pthm-cable/flux/telemetry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Particles.Count = 10
	cfg.Particles.MaxExtra = 20
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config) *Simulation {
	t.Helper()
	s, err := New(800, 600, cfg, WithSeed(42), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestStepInvariants(t *testing.T) {
	cfg := testConfig()
	s := newTestSim(t, cfg)
	s.Start()

	const dt = 1.0 / 60.0
	for i := 0; i < 300; i++ {
		s.Step(dt)
	}

	snap := s.Snapshot()
	maxV := cfg.Physics.MaxVelocity
	base := 0
	for _, p := range snap.Particles {
		if p.Life <= 0 || p.Life > 1 {
			t.Errorf("particle %d life = %g, want (0, 1]", p.ID, p.Life)
		}
		if sp := p.Speed(); sp > maxV+1e-9 {
			t.Errorf("particle %d speed = %g, exceeds max %g", p.ID, sp, maxV)
		}
		if p.X < -1e-9 || p.X > cfg.Domain.Width+1e-9 ||
			p.Y < -1e-9 || p.Y > cfg.Domain.Height+1e-9 {
			t.Errorf("particle %d out of bounds at (%g, %g)", p.ID, p.X, p.Y)
		}
		if !p.Ephemeral {
			base++
		}
	}
	if base != cfg.Particles.Count {
		t.Errorf("base population = %d, want %d", base, cfg.Particles.Count)
	}
	if !systems.Symmetric(snap.Particles) {
		t.Error("connection graph asymmetric after stepping")
	}
}

func TestStepNoOpWhileStopped(t *testing.T) {
	s := newTestSim(t, testConfig())

	s.Step(1.0 / 60.0)
	if s.Tick() != 0 {
		t.Error("stopped simulation must not advance")
	}

	s.Start()
	s.Step(1.0 / 60.0)
	if s.Tick() != 1 {
		t.Errorf("tick = %d after one step, want 1", s.Tick())
	}

	s.Stop()
	s.Step(1.0 / 60.0)
	if s.Tick() != 1 {
		t.Error("tick advanced after Stop")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := newTestSim(t, testConfig())

	s.Start()
	s.Start()
	if !s.Running() {
		t.Error("not running after double Start")
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("still running after double Stop")
	}
}

func TestSubscriberPanicIsolation(t *testing.T) {
	s := newTestSim(t, testConfig())

	called := false
	s.OnTick(func(Snapshot) { panic("broken subscriber") })
	s.OnTick(func(Snapshot) { called = true })

	s.Start()
	s.Step(1.0 / 60.0)

	if !called {
		t.Error("healthy subscriber starved by panicking one")
	}
	if s.Tick() != 1 {
		t.Error("panicking subscriber halted the clock")
	}
}

func TestCollisionEventsDelivered(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 1
	cfg.Features.EnergyFields = false
	cfg.Features.Interactions = false
	cfg.Physics.Gravity = 0
	s := newTestSim(t, cfg)

	overlap := components.Particle{
		X: 100, Y: 100, Radius: 10, Mass: 1,
		MaxLife: 100, Life: 1, Type: components.TypeMatter, Ephemeral: true,
	}
	if _, err := s.CreateParticle(overlap); err != nil {
		t.Fatalf("CreateParticle: %v", err)
	}
	overlap.X = 105
	if _, err := s.CreateParticle(overlap); err != nil {
		t.Fatalf("CreateParticle: %v", err)
	}

	var events []components.CollisionEvent
	s.OnCollision(func(ev components.CollisionEvent) { events = append(events, ev) })

	s.Start()
	s.Step(1.0 / 60.0)

	if len(events) == 0 {
		t.Fatal("no collision delivered for overlapping pair")
	}
	if s.Stats().TotalCollisions == 0 {
		t.Error("aggregator did not record the collision")
	}
	if s.history.Len() == 0 {
		t.Error("history did not record the collision")
	}
}

func TestCreateParticleRejectsNonFinite(t *testing.T) {
	s := newTestSim(t, testConfig())

	for _, pt := range []components.Particle{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
		{VX: math.NaN()},
	} {
		if _, err := s.CreateParticle(pt); !errors.Is(err, ErrNonFinite) {
			t.Errorf("CreateParticle(%+v) err = %v, want ErrNonFinite", pt, err)
		}
	}
}

func TestCreateParticleCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 1
	cfg.Particles.MaxExtra = 2
	s := newTestSim(t, cfg)

	pt := components.Particle{X: 10, Y: 10, Ephemeral: true}
	for i := 0; i < 2; i++ {
		if _, err := s.CreateParticle(pt); err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
	}
	if _, err := s.CreateParticle(pt); !errors.Is(err, ErrPoolFull) {
		t.Errorf("err = %v past ceiling, want ErrPoolFull", err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSim(t, testConfig())

	snap := s.Snapshot()
	if len(snap.Particles) == 0 || len(snap.Fields) == 0 {
		t.Fatal("expected populated snapshot")
	}
	snap.Particles[0].X = -9999
	snap.Fields[0].Strength = -9999

	if s.pool.Particles()[0].X == -9999 {
		t.Error("snapshot particle aliases pool storage")
	}
	if s.fields.Fields()[0].Strength == -9999 {
		t.Error("snapshot field aliases registry storage")
	}
}

func TestUpdateConfigResizesHistory(t *testing.T) {
	s := newTestSim(t, testConfig())

	size := 5
	if err := s.UpdateConfig(config.Patch{MaxCollisionHistory: &size}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if got := s.history.Capacity(); got != 5 {
		t.Errorf("history capacity = %d, want 5", got)
	}
}

func TestUpdateConfigGrowsParticleCount(t *testing.T) {
	s := newTestSim(t, testConfig())
	s.Start()

	count := 25
	if err := s.UpdateConfig(config.Patch{ParticleCount: &count}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	for i := 0; i < 100; i++ {
		s.Step(1.0 / 60.0)
	}

	base := 0
	for _, p := range s.Snapshot().Particles {
		if !p.Ephemeral {
			base++
		}
	}
	if base != 25 {
		t.Errorf("base population = %d after count patch, want 25", base)
	}
}

func TestUpdateConfigShrinksParticleCount(t *testing.T) {
	cfg := testConfig()
	s := newTestSim(t, cfg)
	s.Start()

	count := 3
	if err := s.UpdateConfig(config.Patch{ParticleCount: &count}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	// Step past the longest lifetime so the excess slots lapse away.
	ticks := int(cfg.Particles.LifeMax/0.5) + 2
	for i := 0; i < ticks; i++ {
		s.Step(0.5)
	}

	base := 0
	for _, p := range s.Snapshot().Particles {
		if !p.Ephemeral {
			base++
		}
	}
	if base != 3 {
		t.Errorf("base population = %d after shrink patch, want 3", base)
	}
}

func TestExpiredParticleDoesNotCollide(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 1
	cfg.Features.EnergyFields = false
	cfg.Features.Interactions = false
	cfg.Physics.Gravity = 0
	s := newTestSim(t, cfg)

	survivor := components.Particle{
		X: 100, Y: 100, Radius: 10, Mass: 1,
		MaxLife: 100, Life: 1, Ephemeral: true,
	}
	if _, err := s.CreateParticle(survivor); err != nil {
		t.Fatalf("CreateParticle: %v", err)
	}
	dying, err := s.CreateParticle(components.Particle{
		X: 105, Y: 100, Radius: 10, Mass: 1,
		MaxLife: 0.01, Life: 0.001, Ephemeral: true,
	})
	if err != nil {
		t.Fatalf("CreateParticle: %v", err)
	}

	var events []components.CollisionEvent
	s.OnCollision(func(ev components.CollisionEvent) { events = append(events, ev) })

	s.Start()
	s.Step(1.0 / 60.0)

	for _, ev := range events {
		if ev.Involves(dying.ID) {
			t.Fatalf("particle expired this tick still collided: %+v", ev)
		}
	}
}

func TestUpdateConfigRejectedLeavesStateUnchanged(t *testing.T) {
	s := newTestSim(t, testConfig())
	before := s.Config()

	bad := -1
	if err := s.UpdateConfig(config.Patch{ParticleCount: &bad}); err == nil {
		t.Fatal("expected rejection of negative particle count")
	}
	if got := s.Config(); got.Particles.Count != before.Particles.Count {
		t.Error("rejected patch mutated configuration")
	}
}

func TestResetStatistics(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 1
	s := newTestSim(t, cfg)

	overlap := components.Particle{X: 100, Y: 100, Radius: 10, Mass: 1, MaxLife: 100, Life: 1, Ephemeral: true}
	s.CreateParticle(overlap)
	overlap.X = 105
	s.CreateParticle(overlap)

	s.Start()
	s.Step(1.0 / 60.0)
	if s.Stats().TotalCollisions == 0 {
		t.Fatal("expected at least one collision before reset")
	}

	s.ResetStatistics()
	if got := s.Stats().TotalCollisions; got != 0 {
		t.Errorf("total = %d after reset, want 0", got)
	}
}

func TestAnalyzeNotifiesSubscribers(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 1
	s := newTestSim(t, cfg)

	overlap := components.Particle{X: 100, Y: 100, Radius: 10, Mass: 1, MaxLife: 100, Life: 1, Ephemeral: true}
	s.CreateParticle(overlap)
	overlap.X = 105
	s.CreateParticle(overlap)

	notified := 0
	s.OnAnalysis(func(r telemetry.Result) { notified++ })

	s.Start()
	for i := 0; i < 6; i++ {
		s.Step(1.0 / 60.0)
	}

	r := s.Analyze()
	if notified != 1 {
		t.Errorf("analysis subscriber called %d times, want 1", notified)
	}
	if r.TotalCollisions == 0 {
		t.Error("analysis missed collisions inside the window")
	}
	if r.WindowEnd != s.Time() {
		t.Errorf("window end = %g, want sim time %g", r.WindowEnd, s.Time())
	}
}
