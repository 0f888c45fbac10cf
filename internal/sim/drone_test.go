package sim

import (
	"math"
	"testing"
)

func TestDroneMovesTowardTarget(t *testing.T) {
	tw := mustWorld(t,
		WithHospital(0, 0),
		WithHospital(10, 0),
		WithDrone(0, 1),
	)
	tw.RunTicks(1)

	d := &tw.Drones[0]
	if !approx(d.Pos.X, tw.Cfg.DroneSpeed) || !approx(d.Pos.Y, 0) {
		t.Errorf("drone position = (%.4f,%.4f), want (%.4f,0)", d.Pos.X, d.Pos.Y, tw.Cfg.DroneSpeed)
	}
}

func TestDroneRepulsionPushesDirectlyAway(t *testing.T) {
	// A drone sitting on its target has no attraction; with a single
	// cloud inside the avoidance radius the movement must point exactly
	// away from the cloud. Exercises the controller directly, outside the
	// tick driver's arrival handling.
	cfg := harnessConfig()
	d := Drone{
		Pos:    Vec3{X: 0, Y: 0, Z: cfg.DroneAltitude},
		Target: Vec3{X: 0, Y: 0, Z: cfg.DroneAltitude},
	}
	clouds := []Cloud{{Pos: Vec3{X: 3, Y: 0, Z: cfg.CloudAltitude}}}

	d.Advance(clouds, &cfg)

	if !approx(d.Pos.X, -cfg.DroneSpeed) || !approx(d.Pos.Y, 0) {
		t.Errorf("drone moved to (%.4f,%.4f), want (%.4f,0) directly away from the cloud",
			d.Pos.X, d.Pos.Y, -cfg.DroneSpeed)
	}
}

func TestDroneIgnoresCloudsOutsideAvoidanceRadius(t *testing.T) {
	cfg := harnessConfig()
	d := Drone{
		Pos:    Vec3{X: 0, Y: 0, Z: cfg.DroneAltitude},
		Target: Vec3{X: 0, Y: 20, Z: cfg.DroneAltitude},
	}
	clouds := []Cloud{{Pos: Vec3{X: cfg.AvoidanceRadius + 0.01, Y: 0, Z: cfg.CloudAltitude}}}

	d.Advance(clouds, &cfg)

	if !approx(d.Pos.X, 0) {
		t.Errorf("far cloud deflected the drone: x=%.6f", d.Pos.X)
	}
	if !approx(d.Pos.Y, cfg.DroneSpeed) {
		t.Errorf("drone y=%.4f, want %.4f", d.Pos.Y, cfg.DroneSpeed)
	}
}

func TestDroneStepIsUnitLength(t *testing.T) {
	// Attraction and repulsion combine, but the realized step is always
	// normalized to exactly one step size (unless both are zero).
	cfg := harnessConfig()
	d := Drone{
		Pos:    Vec3{X: 0, Y: 0, Z: cfg.DroneAltitude},
		Target: Vec3{X: 20, Y: 0, Z: cfg.DroneAltitude},
	}
	clouds := []Cloud{{Pos: Vec3{X: 2, Y: 2, Z: cfg.CloudAltitude}}}

	before := d.Pos
	d.Advance(clouds, &cfg)

	moved := d.Pos.Sub(before).Len()
	if !approx(moved, cfg.DroneSpeed) {
		t.Errorf("step length = %.6f, want %.6f", moved, cfg.DroneSpeed)
	}
}

func TestDroneCoincidentCloudContributesNothing(t *testing.T) {
	// A cloud exactly on the drone gives a degenerate repulsion
	// direction; the normalized zero vector keeps it out of the sum and
	// only attraction remains. Recovered numeric edge case, not a failure.
	cfg := harnessConfig()
	d := Drone{
		Pos:    Vec3{X: 0, Y: 0, Z: cfg.DroneAltitude},
		Target: Vec3{X: 20, Y: 0, Z: cfg.DroneAltitude},
	}
	clouds := []Cloud{{Pos: Vec3{X: 0, Y: 0, Z: cfg.CloudAltitude}}}

	d.Advance(clouds, &cfg)
	if !approx(d.Pos.X, cfg.DroneSpeed) {
		t.Errorf("coincident cloud should contribute nothing: x=%.6f", d.Pos.X)
	}
}

func TestDroneAltitudePinned(t *testing.T) {
	tw := mustWorld(t,
		WithHospital(-30, -30),
		WithHospital(30, 30),
		WithHospital(0, 25),
		WithCloud(0, 0, 0.6, -0.8),
		WithDrone(0, 1),
		WithDrone(2, 0),
	)
	tw.RunTicks(2000)

	for i := range tw.Drones {
		if tw.Drones[i].Pos.Z != tw.Cfg.DroneAltitude {
			t.Errorf("drone %d altitude drifted: %.6f != %.1f",
				i, tw.Drones[i].Pos.Z, tw.Cfg.DroneAltitude)
		}
	}
}

func TestVecNormalizedZero(t *testing.T) {
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("normalizing the zero vector should stay zero, got %+v", got)
	}
	v := Vec3{X: 3, Y: 4}
	if !approx(v.Normalized().Len(), 1) {
		t.Errorf("normalized length = %.6f, want 1", v.Normalized().Len())
	}
	if math.Abs(v.Normalized().X-0.6) > eps {
		t.Errorf("normalized X = %.6f, want 0.6", v.Normalized().X)
	}
}
