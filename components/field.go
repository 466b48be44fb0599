package components

// FieldType identifies the kind of an energy field.
type FieldType uint8

const (
	FieldMagnetic FieldType = iota
	FieldElectric
	FieldGravitational
	FieldThermal
)

// String returns the display name for a FieldType.
func (t FieldType) String() string {
	names := FieldTypeNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// FieldTypeNames returns the display names for all field types.
// The order matches the FieldType constants.
func FieldTypeNames() []string {
	return []string{"Magnetic", "Electric", "Gravitational", "Thermal"}
}

// Polarity is the sign of a field's influence on charged particles.
type Polarity int8

const (
	PolarityNegative Polarity = -1
	PolarityNeutral  Polarity = 0
	PolarityPositive Polarity = 1
)

// Sign returns the polarity as a force sign factor.
func (p Polarity) Sign() float64 {
	return float64(p)
}

// EnergyField is a positioned force source affecting nearby particles.
// Fields are created at initialization or added explicitly, and live until
// removed.
type EnergyField struct {
	ID       string
	X, Y     float64
	Radius   float64
	Strength float64
	Type     FieldType
	Polarity Polarity
	Active   bool
}
