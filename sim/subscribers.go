package sim

import (
	"log/slog"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/telemetry"
)

// TickFunc receives the snapshot published at the end of each tick.
type TickFunc func(Snapshot)

// CollisionFunc receives each collision event as it is detected.
type CollisionFunc func(components.CollisionEvent)

// AnalysisFunc receives each analysis result.
type AnalysisFunc func(telemetry.Result)

// subscribers holds the registered callback lists. A panicking callback is
// recovered and logged so one broken subscriber cannot stall the clock or
// starve the others.
type subscribers struct {
	logger    *slog.Logger
	tick      []TickFunc
	collision []CollisionFunc
	analysis  []AnalysisFunc
}

func (s *subscribers) notifyTick(snap Snapshot) {
	for i, fn := range s.tick {
		s.safeCall("tick", i, func() { fn(snap) })
	}
}

func (s *subscribers) notifyCollision(ev components.CollisionEvent) {
	for i, fn := range s.collision {
		s.safeCall("collision", i, func() { fn(ev) })
	}
}

func (s *subscribers) notifyAnalysis(r telemetry.Result) {
	for i, fn := range s.analysis {
		s.safeCall("analysis", i, func() { fn(r) })
	}
}

func (s *subscribers) safeCall(kind string, index int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked",
				"kind", kind,
				"index", index,
				"panic", r)
		}
	}()
	fn()
}
