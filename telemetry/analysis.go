package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flux/components"
)

// ParticleActivity ranks a particle by how often it appeared in collision
// events during the window.
type ParticleActivity struct {
	ID    int
	Count int
}

// Hotspot is a coarse grid cell ranked by collision hits. X, Y is the cell
// center.
type Hotspot struct {
	X, Y  float64
	Count int
}

// Result is an immutable summary of the collision events inside one
// analysis window.
type Result struct {
	WindowStart float64
	WindowEnd   float64

	TotalCollisions int
	ByResponse      map[components.Response]int
	AvgImpactForce  float64
	Frequency       float64 // collisions per window second

	MostActive []ParticleActivity
	Hotspots   []Hotspot
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", r.WindowStart),
		slog.Float64("window_end", r.WindowEnd),
		slog.Int("total_collisions", r.TotalCollisions),
		slog.Float64("avg_impact_force", r.AvgImpactForce),
		slog.Float64("frequency", r.Frequency),
		slog.Int("most_active", len(r.MostActive)),
		slog.Int("hotspots", len(r.Hotspots)),
	)
}

// Analyzer produces windowed Results from the collision history. It runs
// on its own cadence, independent of the simulation tick rate, and never
// mutates the history it reads.
type Analyzer struct {
	cellSize     float64
	topParticles int
	topHotspots  int
	lastTime     float64
}

// NewAnalyzer creates an analyzer. cellSize is the hotspot grid pitch;
// topParticles and topHotspots bound the ranked outputs.
func NewAnalyzer(cellSize float64, topParticles, topHotspots int) *Analyzer {
	if cellSize <= 0 {
		cellSize = 50
	}
	if topParticles < 1 {
		topParticles = 5
	}
	if topHotspots < 1 {
		topHotspots = 10
	}
	return &Analyzer{cellSize: cellSize, topParticles: topParticles, topHotspots: topHotspots}
}

// Analyze summarizes events with timestamps in [lastAnalysis, now) and
// advances the window. An empty window degrades to a zero-valued result.
func (a *Analyzer) Analyze(h *History, now float64) Result {
	from := a.lastTime
	a.lastTime = now

	r := Result{
		WindowStart: from,
		WindowEnd:   now,
		ByResponse:  make(map[components.Response]int),
	}

	events := h.InWindow(from, now)
	r.TotalCollisions = len(events)
	if duration := now - from; duration > 0 {
		r.Frequency = float64(len(events)) / duration
	}
	if len(events) == 0 {
		return r
	}

	forces := make([]float64, len(events))
	appearances := make(map[int]int)
	type cellKey struct{ col, row int }
	cells := make(map[cellKey]int)

	for i, ev := range events {
		forces[i] = ev.ImpactForce
		r.ByResponse[ev.Classification]++
		appearances[ev.AID]++
		appearances[ev.BID]++
		cells[cellKey{
			col: int(math.Floor(ev.PointX / a.cellSize)),
			row: int(math.Floor(ev.PointY / a.cellSize)),
		}]++
	}

	r.AvgImpactForce = stat.Mean(forces, nil)

	r.MostActive = make([]ParticleActivity, 0, len(appearances))
	for id, n := range appearances {
		r.MostActive = append(r.MostActive, ParticleActivity{ID: id, Count: n})
	}
	sort.Slice(r.MostActive, func(i, j int) bool {
		if r.MostActive[i].Count != r.MostActive[j].Count {
			return r.MostActive[i].Count > r.MostActive[j].Count
		}
		return r.MostActive[i].ID < r.MostActive[j].ID
	})
	if len(r.MostActive) > a.topParticles {
		r.MostActive = r.MostActive[:a.topParticles]
	}

	r.Hotspots = make([]Hotspot, 0, len(cells))
	for key, n := range cells {
		r.Hotspots = append(r.Hotspots, Hotspot{
			X:     (float64(key.col) + 0.5) * a.cellSize,
			Y:     (float64(key.row) + 0.5) * a.cellSize,
			Count: n,
		})
	}
	sort.Slice(r.Hotspots, func(i, j int) bool {
		if r.Hotspots[i].Count != r.Hotspots[j].Count {
			return r.Hotspots[i].Count > r.Hotspots[j].Count
		}
		if r.Hotspots[i].X != r.Hotspots[j].X {
			return r.Hotspots[i].X < r.Hotspots[j].X
		}
		return r.Hotspots[i].Y < r.Hotspots[j].Y
	})
	if len(r.Hotspots) > a.topHotspots {
		r.Hotspots = r.Hotspots[:a.topHotspots]
	}

	return r
}

// ResultCSV is a flat struct for CSV export of analysis results.
type ResultCSV struct {
	WindowStart     float64 `csv:"window_start"`
	WindowEnd       float64 `csv:"window_end"`
	TotalCollisions int     `csv:"total_collisions"`
	Bounce          int     `csv:"bounce"`
	Merge           int     `csv:"merge"`
	Custom          int     `csv:"custom"`
	Split           int     `csv:"split"`
	Destroy         int     `csv:"destroy"`
	AvgImpactForce  float64 `csv:"avg_impact_force"`
	Frequency       float64 `csv:"frequency"`
	TopParticleID   int     `csv:"top_particle_id"`
	TopHotspotX     float64 `csv:"top_hotspot_x"`
	TopHotspotY     float64 `csv:"top_hotspot_y"`
}

// ToCSV converts a Result to its flat CSV-friendly form.
func (r Result) ToCSV() ResultCSV {
	out := ResultCSV{
		WindowStart:     r.WindowStart,
		WindowEnd:       r.WindowEnd,
		TotalCollisions: r.TotalCollisions,
		Bounce:          r.ByResponse[components.ResponseBounce],
		Merge:           r.ByResponse[components.ResponseMerge],
		Custom:          r.ByResponse[components.ResponseCustom],
		Split:           r.ByResponse[components.ResponseSplit],
		Destroy:         r.ByResponse[components.ResponseDestroy],
		AvgImpactForce:  r.AvgImpactForce,
		Frequency:       r.Frequency,
	}
	if len(r.MostActive) > 0 {
		out.TopParticleID = r.MostActive[0].ID
	}
	if len(r.Hotspots) > 0 {
		out.TopHotspotX = r.Hotspots[0].X
		out.TopHotspotY = r.Hotspots[0].Y
	}
	return out
}
