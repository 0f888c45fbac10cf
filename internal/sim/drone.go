package sim

import "fmt"

// repulsionGain scales cloud repulsion: full strength at zero distance,
// decaying linearly to nothing at the avoidance radius.
const repulsionGain = 1.5

// Drone is a delivery drone flying point-to-point between hospitals at a
// fixed altitude. Target and origin are managed by the world's tick
// driver (see World.retarget); the drone itself only knows how to steer.
type Drone struct {
	ID     int
	Pos    Vec3
	Target Vec3
	Origin int // index into the world's hospital list: the hospital this leg departed from
	Legs   int // completed deliveries
}

// Label returns the drone's short log identifier, e.g. "D1".
func (d *Drone) Label() string {
	return fmt.Sprintf("D%d", d.ID)
}

// Advance steers the drone one tick using a potential field: unit
// attraction toward the target plus a repulsion term per nearby cloud.
// The combined vector is normalized before the step, so repulsion can
// fully cancel or overpower attraction: a drone boxed in by clouds may
// move sideways or away from its goal, which is the intended emergent
// avoidance behaviour. Altitude is pinned after every step.
func (d *Drone) Advance(clouds []Cloud, cfg *Config) {
	attraction := d.Target.Sub(d.Pos).Normalized()

	var repulsion Vec3
	dronePlanar := d.Pos.Planar()
	for i := range clouds {
		cloudPlanar := clouds[i].Pos.Planar()
		away := dronePlanar.Sub(cloudPlanar)
		dist := away.Len()
		if dist >= cfg.AvoidanceRadius {
			continue
		}
		strength := repulsionGain * (cfg.AvoidanceRadius - dist) / cfg.AvoidanceRadius
		repulsion = repulsion.Add(away.Normalized().Scale(strength))
	}

	movement := attraction.Add(repulsion).Normalized()
	d.Pos = d.Pos.Add(movement.Scale(cfg.DroneSpeed))
	d.Pos.Z = cfg.DroneAltitude
}

// DistanceToTarget is the straight-line distance to the current goal.
func (d *Drone) DistanceToTarget() float64 {
	return d.Target.Sub(d.Pos).Len()
}
