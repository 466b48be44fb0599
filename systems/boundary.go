package systems

import "github.com/pthm-cable/flux/components"

// Boundary reflects particles off the domain edges with energy loss. It
// runs after position integration and before collision detection so the
// detector always sees post-bounce state.
type Boundary struct {
	width  float64
	height float64
	bounce float64
}

// NewBoundary creates a boundary resolver for the given domain.
// bounce is the restitution coefficient: 0 fully inelastic, 1 elastic.
func NewBoundary(width, height, bounce float64) *Boundary {
	return &Boundary{width: width, height: height, bounce: bounce}
}

// SetBounce updates the restitution coefficient.
func (b *Boundary) SetBounce(bounce float64) {
	b.bounce = bounce
}

// Resolve clamps all particles into the domain, inverting the crossing
// velocity component scaled by the bounce coefficient. Axes are handled
// independently.
func (b *Boundary) Resolve(particles []components.Particle) {
	for i := range particles {
		b.resolveOne(&particles[i])
	}
}

func (b *Boundary) resolveOne(p *components.Particle) {
	if p.X-p.Radius < 0 {
		p.X = p.Radius
		p.VX = -p.VX * b.bounce
	} else if p.X+p.Radius > b.width {
		p.X = b.width - p.Radius
		p.VX = -p.VX * b.bounce
	}

	if p.Y-p.Radius < 0 {
		p.Y = p.Radius
		p.VY = -p.VY * b.bounce
	} else if p.Y+p.Radius > b.height {
		p.Y = b.height - p.Radius
		p.VY = -p.VY * b.bounce
	}
}
