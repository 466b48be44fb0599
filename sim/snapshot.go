package sim

import "github.com/pthm-cable/flux/components"

// Perf summarizes recent timing for a snapshot.
type Perf struct {
	FPS           float64
	ParticleCount int
	UpdateTimeMs  float64
	RenderTimeMs  float64
}

// Snapshot is an immutable view of the simulation published once per tick.
// The slices are fresh copies made at publish time, so a host on another
// goroutine can read them without locking while the simulation keeps
// stepping. Readers must not mutate a snapshot they share.
type Snapshot struct {
	Particles  []components.Particle
	Fields     []components.EnergyField
	Running    bool
	FrameCount int64
	Perf       Perf
}
