package components

// CollisionEvent records one detected overlap between two particles.
// Events are ephemeral: consumed synchronously by the responder and the
// statistics aggregator, then retained only in the bounded history ring.
type CollisionEvent struct {
	AID, BID     int
	AType, BType ParticleType

	// ImpactForce is the relative speed scaled by the pair's reduced mass.
	ImpactForce float64

	// PointX, PointY is the midpoint of the two centers at detection time.
	PointX, PointY float64

	// Time is the simulation-time timestamp in seconds; Tick is the tick
	// the event was detected on.
	Time float64
	Tick int64

	// Classification is the more destructive of the two particles'
	// response policies.
	Classification Response
}

// Involves reports whether the event references the given particle id.
func (e CollisionEvent) Involves(id int) bool {
	return e.AID == id || e.BID == id
}
