package systems

import (
	"math"

	"github.com/pthm-cable/flux/components"
)

// Detector scans all unordered particle pairs for overlap. Brute force
// O(n²): acceptable for populations in the tens to low hundreds, which is
// what this engine targets. There is deliberately no spatial index.
type Detector struct{}

// Detect appends one CollisionEvent per overlapping pair to dst and
// returns the extended slice. A pair overlaps when the center distance is
// less than the sum of radii. Impact force is the relative speed scaled by
// the pair's reduced mass; the collision point is the midpoint of the two
// centers.
func (d *Detector) Detect(particles []components.Particle, simTime float64, tick int64, dst []components.CollisionEvent) []components.CollisionEvent {
	for i := 0; i < len(particles); i++ {
		a := &particles[i]
		for j := i + 1; j < len(particles); j++ {
			b := &particles[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist >= a.Radius+b.Radius {
				continue
			}

			relSpeed := math.Hypot(b.VX-a.VX, b.VY-a.VY)
			var reduced float64
			if m := a.Mass + b.Mass; m > 0 {
				reduced = a.Mass * b.Mass / m
			}

			dst = append(dst, components.CollisionEvent{
				AID:            a.ID,
				BID:            b.ID,
				AType:          a.Type,
				BType:          b.Type,
				ImpactForce:    relSpeed * reduced,
				PointX:         (a.X + b.X) / 2,
				PointY:         (a.Y + b.Y) / 2,
				Time:           simTime,
				Tick:           tick,
				Classification: components.MoreDestructive(a.Type.Response(), b.Type.Response()),
			})
		}
	}
	return dst
}
