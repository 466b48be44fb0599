package sim

import (
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/systems"
	"github.com/pthm-cable/flux/telemetry"
)

var (
	// ErrPoolFull is returned when a spawn would exceed the particle ceiling.
	ErrPoolFull = errors.New("sim: particle pool at capacity")
	// ErrNonFinite is returned when spawn kinematics contain NaN or Inf.
	ErrNonFinite = errors.New("sim: non-finite particle kinematics")
)

// Option configures a Simulation at construction time.
type Option func(*options)

type options struct {
	seed      int64
	logger    *slog.Logger
	outputDir string
}

// WithSeed fixes the random seed for reproducible runs.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutputDir enables CSV and config output under dir.
func WithOutputDir(dir string) Option {
	return func(o *options) { o.outputDir = dir }
}

// Simulation owns the complete state of one particle world. Multiple
// simulations can coexist in a process; nothing here is global. All methods
// except Snapshot and the atomic Start/Stop must be called from the stepping
// goroutine.
type Simulation struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand

	pool      *systems.Pool
	fields    *systems.FieldRegistry
	graph     *systems.ConnectionGraph
	forces    *systems.Forces
	boundary  *systems.Boundary
	detector  systems.Detector
	responder *systems.Responder

	stats    *telemetry.Aggregator
	history  *telemetry.History
	analyzer *telemetry.Analyzer
	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager

	running atomic.Bool
	simTime float64
	tick    int64

	events []components.CollisionEvent

	mu   sync.RWMutex
	snap Snapshot

	subs subscribers
}

// New creates a simulation over a width x height domain. Zero or negative
// dimensions fall back to the configured domain size. A nil cfg uses the
// embedded defaults. The config is copied; later patches go through
// UpdateConfig.
func New(width, height float64, cfg *config.Config, opts ...Option) (*Simulation, error) {
	o := options{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if cfg == nil {
		cfg = config.Default()
	}
	owned := *cfg
	owned.Particles.Palette = append([]string(nil), cfg.Particles.Palette...)
	owned.Particles.Types = append([]string(nil), cfg.Particles.Types...)
	if width > 0 {
		owned.Domain.Width = width
	}
	if height > 0 {
		owned.Domain.Height = height
	}
	if err := owned.Validate(); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(o.outputDir)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(o.seed))
	graph := &systems.ConnectionGraph{}

	s := &Simulation{
		cfg:    &owned,
		logger: o.logger,
		rng:    rng,

		pool:      systems.NewPool(&owned, rng),
		fields:    systems.NewFieldRegistry(),
		graph:     graph,
		forces:    systems.NewForces(&owned, rng, graph),
		boundary:  systems.NewBoundary(owned.Domain.Width, owned.Domain.Height, owned.Physics.Bounce),
		responder: systems.NewResponder(&owned, rng),

		stats:    telemetry.NewAggregator(0),
		history:  telemetry.NewHistory(owned.Collisions.MaxHistory),
		analyzer: telemetry.NewAnalyzer(owned.Analysis.HotspotCellSize, owned.Analysis.TopParticles, owned.Analysis.TopHotspots),
		perf:     telemetry.NewPerfCollector(owned.Telemetry.PerfWindow),
		output:   output,

		subs: subscribers{logger: o.logger},
	}

	s.fields.SeedDefaults(&owned, rng)

	if err := s.output.WriteConfig(&owned); err != nil {
		o.logger.Warn("writing config snapshot failed", "error", err)
	}

	s.publish()

	o.logger.Info("simulation created",
		"width", owned.Domain.Width,
		"height", owned.Domain.Height,
		"particles", s.pool.Len(),
		"fields", s.fields.Len(),
		"seed", o.seed)

	return s, nil
}

// Start enables stepping. Idempotent.
func (s *Simulation) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.logger.Info("simulation started", "tick", s.tick)
		s.publish()
	}
}

// Stop disables stepping. Idempotent. A tick already in flight when Stop is
// called runs to completion; the flag is only checked at tick start.
func (s *Simulation) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.logger.Info("simulation stopped", "tick", s.tick)
		s.publish()
	}
}

// Running reports whether the simulation is accepting ticks.
func (s *Simulation) Running() bool {
	return s.running.Load()
}

// Step advances the world by dt seconds. No-op while stopped.
func (s *Simulation) Step(dt float64) {
	if !s.running.Load() || dt <= 0 {
		return
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseForces)
	if s.cfg.Features.Physics {
		s.forces.Update(s.pool, s.fields.Fields(), dt, s.simTime)
	}

	s.perf.StartPhase(telemetry.PhaseBoundary)
	if s.cfg.Features.Physics {
		s.boundary.Resolve(s.pool.Particles())
	}

	// Expiry runs before detection so a particle that died this tick cannot
	// collide at its stale position.
	s.perf.StartPhase(telemetry.PhaseLifecycle)
	s.pool.Lifecycle(dt)

	s.perf.StartPhase(telemetry.PhaseCollisions)
	s.events = s.detector.Detect(s.pool.Particles(), s.simTime, s.tick, s.events[:0])
	for _, ev := range s.events {
		s.stats.Record(ev)
		s.history.Push(ev)
	}

	s.perf.StartPhase(telemetry.PhaseResponse)
	for _, ev := range s.events {
		s.responder.Respond(s.pool, ev)
	}

	s.simTime += dt
	s.tick++

	s.perf.StartPhase(telemetry.PhasePublish)
	s.publish()
	s.perf.EndTick()

	snap := s.Snapshot()
	s.subs.notifyTick(snap)
	for _, ev := range s.events {
		s.subs.notifyCollision(ev)
	}
}

// publish copies the world into the shared snapshot.
func (s *Simulation) publish() {
	particles := s.pool.Particles()
	ps := make([]components.Particle, len(particles))
	for i := range particles {
		ps[i] = particles[i].Clone()
	}

	perf := s.perf.Stats()
	snap := Snapshot{
		Particles:  ps,
		Fields:     s.fields.Snapshot(),
		Running:    s.running.Load(),
		FrameCount: s.tick,
		Perf: Perf{
			FPS:           perf.FPS,
			ParticleCount: len(ps),
			UpdateTimeMs:  perf.UpdateTimeMs(),
			RenderTimeMs:  perf.RenderTimeMs(),
		},
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Snapshot returns the most recently published world state. Safe to call
// from any goroutine.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// OnTick registers a callback invoked after every tick with the fresh
// snapshot.
func (s *Simulation) OnTick(fn TickFunc) {
	s.subs.tick = append(s.subs.tick, fn)
}

// OnCollision registers a callback invoked for every detected collision.
func (s *Simulation) OnCollision(fn CollisionFunc) {
	s.subs.collision = append(s.subs.collision, fn)
}

// OnAnalysis registers a callback invoked for every analysis result.
func (s *Simulation) OnAnalysis(fn AnalysisFunc) {
	s.subs.analysis = append(s.subs.analysis, fn)
}

// CreateParticle spawns a particle with the given state. Kinematics
// containing NaN or Inf are rejected; spawning past the ceiling fails with
// ErrPoolFull. Returns a copy of the spawned particle.
func (s *Simulation) CreateParticle(pt components.Particle) (components.Particle, error) {
	for _, v := range []float64{pt.X, pt.Y, pt.VX, pt.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return components.Particle{}, ErrNonFinite
		}
	}

	spawned := s.pool.Spawn(pt)
	if spawned == nil {
		return components.Particle{}, ErrPoolFull
	}

	out := spawned.Clone()
	s.publish()
	return out, nil
}

// AddField registers an energy field and returns its id.
func (s *Simulation) AddField(f components.EnergyField) string {
	id := s.fields.Add(f)
	s.logger.Info("field added", "id", id, "type", f.Type.String())
	s.publish()
	return id
}

// RemoveField removes a field by id.
func (s *Simulation) RemoveField(id string) bool {
	ok := s.fields.Remove(id)
	if ok {
		s.publish()
	}
	return ok
}

// SetFieldActive toggles a field without removing it.
func (s *Simulation) SetFieldActive(id string, active bool) bool {
	ok := s.fields.SetActive(id, active)
	if ok {
		s.publish()
	}
	return ok
}

// UpdateConfig applies a runtime patch. A rejected patch leaves the running
// configuration untouched.
func (s *Simulation) UpdateConfig(p config.Patch) error {
	if err := s.cfg.Apply(p); err != nil {
		return err
	}

	s.boundary.SetBounce(s.cfg.Physics.Bounce)
	if s.history.Capacity() != s.cfg.Collisions.MaxHistory {
		s.history.Resize(s.cfg.Collisions.MaxHistory)
	}
	if s.pool.BaseCount() != s.cfg.Particles.Count {
		s.pool.SetBase(s.cfg.Particles.Count)
	}

	s.publish()
	s.logger.Info("config updated", "tick", s.tick)
	return nil
}

// Config returns a copy of the active configuration.
func (s *Simulation) Config() config.Config {
	out := *s.cfg
	out.Particles.Palette = append([]string(nil), s.cfg.Particles.Palette...)
	out.Particles.Types = append([]string(nil), s.cfg.Particles.Types...)
	return out
}

// Stats returns cumulative collision statistics since the last reset.
func (s *Simulation) Stats() telemetry.Totals {
	return s.stats.Totals(s.simTime)
}

// ResetStatistics zeroes counters and moves the rate epoch to now.
func (s *Simulation) ResetStatistics() {
	s.stats.Reset(s.simTime)
	s.logger.Info("statistics reset", "sim_time", s.simTime)
}

// Analyze runs pattern analysis over the window since the previous call,
// notifies analysis subscribers and writes telemetry output.
func (s *Simulation) Analyze() telemetry.Result {
	r := s.analyzer.Analyze(s.history, s.simTime)
	s.subs.notifyAnalysis(r)

	if err := s.output.WriteAnalysis(r); err != nil {
		s.logger.Warn("writing analysis failed", "error", err)
	}
	if err := s.output.WriteStats(s.stats.Totals(s.simTime)); err != nil {
		s.logger.Warn("writing stats failed", "error", err)
	}
	if err := s.output.WritePerf(s.perf.Stats(), s.tick); err != nil {
		s.logger.Warn("writing perf failed", "error", err)
	}

	return r
}

// RecordFrame marks one host render frame for FPS accounting.
func (s *Simulation) RecordFrame() {
	s.perf.RecordFrame()
}

// PerfStats returns aggregated tick timing over the rolling window.
func (s *Simulation) PerfStats() telemetry.PerfStats {
	return s.perf.Stats()
}

// Time returns accumulated simulation time in seconds.
func (s *Simulation) Time() float64 {
	return s.simTime
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 {
	return s.tick
}

// Close flushes and closes telemetry output.
func (s *Simulation) Close() error {
	return s.output.Close()
}
