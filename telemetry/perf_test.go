package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorBasicTick(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.StartPhase(PhaseForces)
	time.Sleep(time.Millisecond)
	p.StartPhase(PhaseCollisions)
	time.Sleep(time.Millisecond)
	p.EndTick()

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive avg tick duration")
	}
	if stats.PhaseAvg[PhaseForces] <= 0 {
		t.Error("expected forces phase to be recorded")
	}
	if stats.PhaseAvg[PhaseCollisions] <= 0 {
		t.Error("expected collisions phase to be recorded")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(3)

	for i := 0; i < 5; i++ {
		p.StartTick()
		p.EndTick()
	}

	if p.sampleCount != 3 {
		t.Errorf("sample count = %d, want window size 3", p.sampleCount)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	p := NewPerfCollector(10)

	stats := p.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg with no samples")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps with no samples")
	}
}

func TestPerfCollectorPhasePercentages(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.StartPhase(PhaseForces)
	time.Sleep(2 * time.Millisecond)
	p.EndTick()

	stats := p.Stats()
	pct := stats.PhasePct[PhaseForces]
	if pct < 50 || pct > 100.5 {
		t.Errorf("single-phase tick should be dominated by that phase, got %.1f%%", pct)
	}
}

func TestPerfCollectorRecordFrame(t *testing.T) {
	p := NewPerfCollector(10)

	p.RecordFrame()
	time.Sleep(time.Millisecond)
	p.RecordFrame()

	stats := p.Stats()
	if stats.FrameDuration <= 0 {
		t.Error("expected positive frame duration after two frames")
	}
	if stats.FPS <= 0 {
		t.Error("expected positive fps after two frames")
	}
}

func TestPerfStatsCSVMapsPhases(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		TicksPerSecond:  500,
		PhasePct: map[string]float64{
			PhaseForces:     60,
			PhaseCollisions: 30,
		},
	}

	row := s.ToCSV(42)
	if row.Tick != 42 {
		t.Errorf("tick = %d, want 42", row.Tick)
	}
	if row.AvgTickUS != 2000 {
		t.Errorf("avg_tick_us = %d, want 2000", row.AvgTickUS)
	}
	if row.ForcesPct != 60 || row.CollisionsPct != 30 {
		t.Errorf("phase pcts = %g/%g, want 60/30", row.ForcesPct, row.CollisionsPct)
	}
	if row.BoundaryPct != 0 {
		t.Errorf("absent phase pct = %g, want 0", row.BoundaryPct)
	}
}
