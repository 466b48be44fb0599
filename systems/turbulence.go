package systems

import "github.com/aquilax/go-perlin"

// Noise field parameters. Frequency maps world units into noise space;
// timeScale animates the field.
const (
	noiseFrequency = 0.005
	noiseTimeScale = 0.1
)

// Turbulence produces a coherent 2D perturbation field from Perlin noise.
// Two decorrelated channels (offset in noise space) give independent x and
// y components so the perturbation is not axis-aligned.
type Turbulence struct {
	noise *perlin.Perlin
}

// NewTurbulence creates a turbulence field with the given seed.
func NewTurbulence(seed int64) *Turbulence {
	return &Turbulence{
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Sample returns the perturbation vector at a world position and time.
// Components are in roughly [-1, 1].
func (t *Turbulence) Sample(x, y, simTime float64) (float64, float64) {
	nx := t.noise.Noise3D(x*noiseFrequency, y*noiseFrequency, simTime*noiseTimeScale)
	ny := t.noise.Noise3D(x*noiseFrequency+1000, y*noiseFrequency+1000, simTime*noiseTimeScale)
	return nx, ny
}
