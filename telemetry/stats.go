// Package telemetry provides collision statistics, windowed analysis, and
// performance tracking for the simulation.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/flux/components"
)

// Aggregator maintains running collision statistics, updated synchronously
// on every collision event.
type Aggregator struct {
	total      int64
	byResponse [5]int64
	avgImpact  float64
	maxImpact  float64
	resetTime  float64 // sim time of the last reset
}

// NewAggregator creates an aggregator with its rate epoch at startTime.
func NewAggregator(startTime float64) *Aggregator {
	return &Aggregator{resetTime: startTime}
}

// Record folds one collision event into the running totals. The mean
// impact force uses incremental averaging so no event list is retained.
func (a *Aggregator) Record(ev components.CollisionEvent) {
	a.total++
	if r := int(ev.Classification); r >= 0 && r < len(a.byResponse) {
		a.byResponse[r]++
	}
	a.avgImpact += (ev.ImpactForce - a.avgImpact) / float64(a.total)
	if ev.ImpactForce > a.maxImpact {
		a.maxImpact = ev.ImpactForce
	}
}

// Reset zeroes all counters and moves the rate epoch to simTime. Safe to
// call at any point; the live pipeline is unaffected.
func (a *Aggregator) Reset(simTime float64) {
	*a = Aggregator{resetTime: simTime}
}

// Count returns the running total for one response classification.
func (a *Aggregator) Count(r components.Response) int64 {
	if int(r) >= len(a.byResponse) {
		return 0
	}
	return a.byResponse[int(r)]
}

// Totals returns a snapshot of the running statistics. simTime supplies
// the denominator for the collision rate.
func (a *Aggregator) Totals(simTime float64) Totals {
	t := Totals{
		SimTimeSec:      simTime,
		TotalCollisions: a.total,
		Bounce:          a.byResponse[components.ResponseBounce],
		Merge:           a.byResponse[components.ResponseMerge],
		Custom:          a.byResponse[components.ResponseCustom],
		Split:           a.byResponse[components.ResponseSplit],
		Destroy:         a.byResponse[components.ResponseDestroy],
		AvgImpactForce:  a.avgImpact,
		MaxImpactForce:  a.maxImpact,
	}
	if elapsed := simTime - a.resetTime; elapsed > 0 {
		t.CollisionRate = float64(a.total) / elapsed
	}
	return t
}

// Totals is the exported snapshot of the aggregator's counters.
type Totals struct {
	SimTimeSec      float64 `csv:"sim_time"`
	TotalCollisions int64   `csv:"total_collisions"`
	Bounce          int64   `csv:"bounce"`
	Merge           int64   `csv:"merge"`
	Custom          int64   `csv:"custom"`
	Split           int64   `csv:"split"`
	Destroy         int64   `csv:"destroy"`
	AvgImpactForce  float64 `csv:"avg_impact_force"`
	MaxImpactForce  float64 `csv:"max_impact_force"`
	CollisionRate   float64 `csv:"collision_rate"`
}

// LogValue implements slog.LogValuer for structured logging.
func (t Totals) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("sim_time", t.SimTimeSec),
		slog.Int64("total_collisions", t.TotalCollisions),
		slog.Int64("bounce", t.Bounce),
		slog.Int64("merge", t.Merge),
		slog.Int64("custom", t.Custom),
		slog.Int64("split", t.Split),
		slog.Int64("destroy", t.Destroy),
		slog.Float64("avg_impact_force", t.AvgImpactForce),
		slog.Float64("max_impact_force", t.MaxImpactForce),
		slog.Float64("collision_rate", t.CollisionRate),
	)
}
