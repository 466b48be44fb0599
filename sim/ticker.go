package sim

import (
	"context"
	"time"
)

// Driver advances a simulation on some clock until the context is cancelled
// or its tick budget runs out.
type Driver interface {
	Run(ctx context.Context, s *Simulation) error
}

// FixedStepDriver steps the simulation with a constant dt on a wall-clock
// ticker. Deterministic given a fixed seed, regardless of host timing.
type FixedStepDriver struct {
	TickRate         int           // ticks per second, default 60
	DT               float64       // seconds per tick, default 1/TickRate
	AnalysisInterval time.Duration // 0 disables periodic analysis
	MaxTicks         int64         // 0 means unlimited
}

func (d *FixedStepDriver) Run(ctx context.Context, s *Simulation) error {
	rate := d.TickRate
	if rate <= 0 {
		rate = 60
	}
	dt := d.DT
	if dt <= 0 {
		dt = 1.0 / float64(rate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	var analysisC <-chan time.Time
	if d.AnalysisInterval > 0 {
		at := time.NewTicker(d.AnalysisInterval)
		defer at.Stop()
		analysisC = at.C
	}

	var ticks int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-analysisC:
			s.Analyze()
		case <-ticker.C:
			s.Step(dt)
			ticks++
			if d.MaxTicks > 0 && ticks >= d.MaxTicks {
				return nil
			}
		}
	}
}

// VariableStepDriver steps with the measured elapsed wall time, clamped to
// MaxDT so a stalled host cannot produce one huge unstable step.
type VariableStepDriver struct {
	TickRate         int           // ticks per second, default 60
	MaxDT            float64       // seconds, default 0.1
	AnalysisInterval time.Duration // 0 disables periodic analysis
	MaxTicks         int64         // 0 means unlimited
}

func (d *VariableStepDriver) Run(ctx context.Context, s *Simulation) error {
	rate := d.TickRate
	if rate <= 0 {
		rate = 60
	}
	maxDT := d.MaxDT
	if maxDT <= 0 {
		maxDT = 0.1
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	var analysisC <-chan time.Time
	if d.AnalysisInterval > 0 {
		at := time.NewTicker(d.AnalysisInterval)
		defer at.Stop()
		analysisC = at.C
	}

	last := time.Now()
	var ticks int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-analysisC:
			s.Analyze()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxDT {
				dt = maxDT
			}
			s.Step(dt)
			ticks++
			if d.MaxTicks > 0 && ticks >= d.MaxTicks {
				return nil
			}
		}
	}
}
