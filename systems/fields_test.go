package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flux/components"
)

func TestFieldRegistryAddRemove(t *testing.T) {
	r := NewFieldRegistry()

	id1 := r.Add(components.EnergyField{X: 100, Y: 100, Radius: 50, Strength: 10, Type: components.FieldMagnetic, Active: true})
	id2 := r.Add(components.EnergyField{X: 200, Y: 200, Radius: 50, Strength: 10, Type: components.FieldElectric, Active: true})

	if id1 == "" || id2 == "" || id1 == id2 {
		t.Fatalf("ids not unique: %q, %q", id1, id2)
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}

	if !r.Remove(id1) {
		t.Error("Remove(id1) = false")
	}
	if r.Remove(id1) {
		t.Error("double Remove succeeded")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d after remove, want 1", r.Len())
	}

	f, ok := r.Get(id2)
	if !ok || f.Type != components.FieldElectric {
		t.Errorf("Get(id2) = %+v, %v", f, ok)
	}
}

func TestFieldRegistrySetActive(t *testing.T) {
	r := NewFieldRegistry()
	id := r.Add(components.EnergyField{Radius: 50, Active: true})

	if !r.SetActive(id, false) {
		t.Fatal("SetActive returned false for known id")
	}
	if f, _ := r.Get(id); f.Active {
		t.Error("field still active after SetActive(false)")
	}
	if r.SetActive("missing", true) {
		t.Error("SetActive succeeded for unknown id")
	}
}

func TestFieldRegistrySeedDefaults(t *testing.T) {
	cfg := testConfig()
	r := NewFieldRegistry()
	r.SeedDefaults(cfg, rand.New(rand.NewSource(2)))

	if r.Len() != 4 {
		t.Fatalf("seeded %d fields, want 4", r.Len())
	}
	for _, f := range r.Fields() {
		if !f.Active {
			t.Errorf("seeded field %s inactive", f.ID)
		}
		if f.Radius <= 0 {
			t.Errorf("seeded field %s radius %g", f.ID, f.Radius)
		}
	}
}

func TestFieldRegistrySnapshotIsCopy(t *testing.T) {
	r := NewFieldRegistry()
	id := r.Add(components.EnergyField{Radius: 50, Strength: 10, Active: true})

	snap := r.Snapshot()
	snap[0].Strength = 999

	if f, _ := r.Get(id); f.Strength != 10 {
		t.Error("snapshot mutation leaked into registry")
	}
}
