package sim

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixedStepDriverRunsMaxTicks(t *testing.T) {
	s := newTestSim(t, testConfig())
	s.Start()

	d := &FixedStepDriver{TickRate: 1000, MaxTicks: 5}
	if err := d.Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Tick() != 5 {
		t.Errorf("tick = %d, want 5", s.Tick())
	}

	wantTime := 5.0 / 1000.0
	if got := s.Time(); got < wantTime-1e-9 || got > wantTime+1e-9 {
		t.Errorf("sim time = %g, want fixed dt sum %g", got, wantTime)
	}
}

func TestFixedStepDriverStopsOnCancel(t *testing.T) {
	s := newTestSim(t, testConfig())
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	d := &FixedStepDriver{TickRate: 1000}
	err := d.Run(ctx, s)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestVariableStepDriverClampsDT(t *testing.T) {
	s := newTestSim(t, testConfig())
	s.Start()

	d := &VariableStepDriver{TickRate: 1000, MaxDT: 0.05, MaxTicks: 3}
	if err := d.Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Tick() != 3 {
		t.Errorf("tick = %d, want 3", s.Tick())
	}
	if got := s.Time(); got > 3*0.05+1e-9 {
		t.Errorf("sim time = %g, exceeds clamped maximum %g", got, 3*0.05)
	}
}
