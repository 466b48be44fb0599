package systems

import "github.com/pthm-cable/flux/components"

// ConnectionGraph maintains the proximity adjacency between particles.
// Registration happens during the pairwise force pass and is symmetric:
// both particles' sets are updated in the same call.
//
// Connections are never pruned when particles separate. Expired particles
// leave stale ids in their former neighbors' sets; readers must tolerate
// ids that no longer resolve to a live particle.
type ConnectionGraph struct {
	registered int64
}

// Register links two particles symmetrically.
func (g *ConnectionGraph) Register(a, b *components.Particle) {
	if a.ID == b.ID {
		return
	}
	a.Connect(b.ID)
	b.Connect(a.ID)
	g.registered++
}

// Registered returns the total number of registrations since construction.
func (g *ConnectionGraph) Registered() int64 {
	return g.registered
}

// Symmetric reports whether every connection in the population is mutual.
func Symmetric(particles []components.Particle) bool {
	byID := make(map[int]*components.Particle, len(particles))
	for i := range particles {
		byID[particles[i].ID] = &particles[i]
	}
	for i := range particles {
		p := &particles[i]
		for id := range p.Connections {
			other, ok := byID[id]
			if !ok {
				continue // stale id from a recycled particle
			}
			if !other.ConnectedTo(p.ID) {
				return false
			}
		}
	}
	return true
}
