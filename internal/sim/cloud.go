package sim

import (
	"fmt"
	"math"
)

// Cloud is a rain cloud drifting over the city on a bouncing random walk.
// It keeps a persistent heading and reverses heading components when a
// step would carry it past the city boundary or into a hospital's
// protected zone. The heading is not re-normalized after a bounce, so it
// keeps whatever length the placement generator gave it.
type Cloud struct {
	ID  int
	Pos Vec3
	Dir Vec3 // planar drift heading, Z always zero
}

// Label returns the cloud's short log identifier, e.g. "C3".
func (c *Cloud) Label() string {
	return fmt.Sprintf("C%d", c.ID)
}

// Advance moves the cloud one tick. It first probes the candidate
// position one step ahead; if that candidate leaves the city bounds on an
// axis, or lands inside any hospital's protected margin, the heading
// component(s) flip sign. The move is then taken with the flipped
// heading, so a bouncing cloud changes course within the same tick rather
// than stepping out and coming back. Both axes flip independently: a
// cloud in a corner reverses completely.
//
// Returns whether each axis bounced this tick, for event logging.
func (c *Cloud) Advance(hospitals []Hospital, cfg *Config) (bouncedX, bouncedY bool) {
	candidate := c.Pos.Add(c.Dir.Scale(cfg.CloudSpeed))

	// Protected-zone probe. Hospitals are tested at cloud altitude so the
	// check is effectively planar.
	nearProtected := false
	margin := cfg.CloudRadius + cfg.HospitalRadius
	for i := range hospitals {
		h := Vec3{X: hospitals[i].Pos.X, Y: hospitals[i].Pos.Y, Z: cfg.CloudAltitude}
		if h.Sub(candidate).Len() < margin {
			nearProtected = true
			break
		}
	}

	if math.Abs(candidate.X) > cfg.BoundaryX() || nearProtected {
		c.Dir.X = -c.Dir.X
		bouncedX = true
	}
	if math.Abs(candidate.Y) > cfg.BoundaryY() || nearProtected {
		c.Dir.Y = -c.Dir.Y
		bouncedY = true
	}

	c.Pos = c.Pos.Add(c.Dir.Scale(cfg.CloudSpeed))
	c.Pos.Z = cfg.CloudAltitude
	return bouncedX, bouncedY
}
