package systems

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/pthm-cable/flux/components"
	"github.com/pthm-cable/flux/config"
)

// FieldRegistry holds the named force sources. Fields are created at
// initialization or added explicitly, and live until removed.
type FieldRegistry struct {
	fields []components.EnergyField
	index  map[string]int
}

// NewFieldRegistry creates an empty registry.
func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{index: make(map[string]int)}
}

// SeedDefaults populates the registry with a small fixed set of fields
// spread across the domain, one per field type.
func (r *FieldRegistry) SeedDefaults(cfg *config.Config, rng *rand.Rand) {
	w, h := cfg.Domain.Width, cfg.Domain.Height
	strength := cfg.Interactions.FieldStrength

	seeds := []components.EnergyField{
		{X: w * 0.25, Y: h * 0.25, Radius: 120, Strength: strength * 50, Type: components.FieldMagnetic, Polarity: components.PolarityPositive},
		{X: w * 0.75, Y: h * 0.25, Radius: 120, Strength: strength * 50, Type: components.FieldElectric, Polarity: components.PolarityNegative},
		{X: w * 0.50, Y: h * 0.75, Radius: 160, Strength: strength * 80, Type: components.FieldGravitational, Polarity: components.PolarityNeutral},
		{X: w * 0.50, Y: h * 0.40, Radius: 100, Strength: strength * 30, Type: components.FieldThermal, Polarity: components.PolarityNeutral},
	}
	for _, f := range seeds {
		f.Active = true
		f.X += (rng.Float64() - 0.5) * 20
		f.Y += (rng.Float64() - 0.5) * 20
		r.Add(f)
	}
}

// Add registers a field and returns its assigned id.
func (r *FieldRegistry) Add(f components.EnergyField) string {
	f.ID = uuid.NewString()
	if f.Radius <= 0 {
		f.Radius = 100
	}
	r.index[f.ID] = len(r.fields)
	r.fields = append(r.fields, f)
	return f.ID
}

// Remove deletes a field by id. Returns false if the id is unknown.
func (r *FieldRegistry) Remove(id string) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	last := len(r.fields) - 1
	if i != last {
		r.fields[i] = r.fields[last]
		r.index[r.fields[i].ID] = i
	}
	r.fields = r.fields[:last]
	delete(r.index, id)
	return true
}

// Get returns a copy of the field with the given id.
func (r *FieldRegistry) Get(id string) (components.EnergyField, bool) {
	i, ok := r.index[id]
	if !ok {
		return components.EnergyField{}, false
	}
	return r.fields[i], true
}

// SetActive toggles a field's active flag. Returns false if unknown.
func (r *FieldRegistry) SetActive(id string, active bool) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.fields[i].Active = active
	return true
}

// Fields returns the live field slice. Callers must not mutate it.
func (r *FieldRegistry) Fields() []components.EnergyField {
	return r.fields
}

// Len returns the number of registered fields.
func (r *FieldRegistry) Len() int {
	return len(r.fields)
}

// Snapshot returns a copy of all fields for publication.
func (r *FieldRegistry) Snapshot() []components.EnergyField {
	out := make([]components.EnergyField, len(r.fields))
	copy(out, r.fields)
	return out
}
