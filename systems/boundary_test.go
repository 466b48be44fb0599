package systems

import (
	"testing"

	"github.com/pthm-cable/flux/components"
)

func TestBoundaryReflects(t *testing.T) {
	b := NewBoundary(800, 600, 0.8)

	tests := []struct {
		name         string
		p            components.Particle
		wantX, wantY float64
		wantVX       float64
		wantVY       float64
	}{
		{"left wall", components.Particle{X: 2, Y: 300, VX: -10, Radius: 5}, 5, 300, 8, 0},
		{"right wall", components.Particle{X: 799, Y: 300, VX: 10, Radius: 5}, 795, 300, -8, 0},
		{"top wall", components.Particle{X: 400, Y: 1, VY: -10, Radius: 5}, 400, 5, 0, 8},
		{"bottom wall", components.Particle{X: 400, Y: 599, VY: 10, Radius: 5}, 400, 595, 0, -8},
		{"interior untouched", components.Particle{X: 400, Y: 300, VX: 3, VY: -2, Radius: 5}, 400, 300, 3, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := []components.Particle{tt.p}
			b.Resolve(parts)
			got := parts[0]
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("position = (%g, %g), want (%g, %g)", got.X, got.Y, tt.wantX, tt.wantY)
			}
			if got.VX != tt.wantVX || got.VY != tt.wantVY {
				t.Errorf("velocity = (%g, %g), want (%g, %g)", got.VX, got.VY, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestBoundaryCorner(t *testing.T) {
	b := NewBoundary(800, 600, 1.0)
	parts := []components.Particle{{X: 1, Y: 1, VX: -4, VY: -6, Radius: 5}}
	b.Resolve(parts)

	got := parts[0]
	if got.X != 5 || got.Y != 5 {
		t.Errorf("corner clamp = (%g, %g), want (5, 5)", got.X, got.Y)
	}
	if got.VX != 4 || got.VY != 6 {
		t.Errorf("corner bounce = (%g, %g), want (4, 6)", got.VX, got.VY)
	}
}

func TestBoundaryInelastic(t *testing.T) {
	b := NewBoundary(800, 600, 0)
	parts := []components.Particle{{X: 2, Y: 300, VX: -10, Radius: 5}}
	b.Resolve(parts)

	if parts[0].VX != 0 {
		t.Errorf("fully inelastic bounce left VX = %g, want 0", parts[0].VX)
	}
}
