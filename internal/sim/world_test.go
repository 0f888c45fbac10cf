package sim

import (
	"errors"
	"math/rand"
	"testing"
)

func TestArrivalResetsToOriginAndRetargets(t *testing.T) {
	// Two hospitals, drone 0.1 short of its target: below the 2-step
	// arrival threshold (0.3), so the tick must teleport it back to its
	// origin pad and hand it a fresh leg, with no movement applied.
	tw := mustWorld(t,
		WithHospital(0, 0),
		WithHospital(10, 0),
		WithDroneAt(9.9, 0, 0, 1),
	)
	tw.RunTicks(1)

	d := &tw.Drones[0]
	if d.Pos.X != 0 || d.Pos.Y != 0 {
		t.Errorf("drone not reset to origin pad: (%.4f,%.4f)", d.Pos.X, d.Pos.Y)
	}
	if d.Pos.Z != tw.Cfg.DroneAltitude {
		t.Errorf("reset lost altitude: %.4f", d.Pos.Z)
	}
	// With only two hospitals the exclusion set has one candidate: the
	// new target must be hospital 1 again.
	if d.Target.X != 10 || d.Target.Y != 0 {
		t.Errorf("new target = (%.1f,%.1f), want (10,0)", d.Target.X, d.Target.Y)
	}
	if d.Origin != 1 {
		t.Errorf("origin not advanced to the new hospital: %d", d.Origin)
	}
	if d.Legs != 1 {
		t.Errorf("legs = %d, want 1", d.Legs)
	}
	if got := tw.Log.CountCategory("drone", "arrival"); got != 1 {
		t.Errorf("arrival events = %d, want 1", got)
	}
}

func TestRetargetAlternatesBetweenTwoHospitals(t *testing.T) {
	tw := mustWorld(t,
		WithHospital(0, 0),
		WithHospital(10, 0),
		WithDrone(0, 1),
	)

	want := 1
	for leg := 1; leg <= 6; leg++ {
		tick := tw.RunUntil(func(tw *TestWorld) bool {
			return tw.Drones[0].Legs >= leg
		}, 2000)
		if tick < 0 {
			t.Fatalf("drone never completed leg %d", leg)
		}
		if tw.Drones[0].Origin != want {
			t.Errorf("leg %d: origin = %d, want %d", leg, tw.Drones[0].Origin, want)
		}
		want = 1 - want
	}
}

func TestRetargetNeverPicksCurrentOrigin(t *testing.T) {
	tw := mustWorld(t,
		WithSeed(7),
		WithHospital(0, 0),
		WithHospital(12, 0),
		WithHospital(0, 12),
		WithHospital(-12, -6),
		WithDrone(0, 1),
	)

	prev := tw.Drones[0].Origin
	for leg := 1; leg <= 20; leg++ {
		if tw.RunUntil(func(tw *TestWorld) bool {
			return tw.Drones[0].Legs >= leg
		}, 5000) < 0 {
			t.Fatalf("drone stalled before leg %d", leg)
		}
		if tw.Drones[0].Origin == prev {
			t.Errorf("leg %d: retarget picked the excluded hospital %d", leg, prev)
		}
		prev = tw.Drones[0].Origin
	}
}

func TestCloudsAdvanceBeforeDrones(t *testing.T) {
	// The cloud starts just inside the avoidance radius and drifts out of
	// it this tick. A drone that reads same-tick cloud positions sees no
	// obstacle and flies straight north; reading the stale position would
	// leak a westward repulsion component into its step.
	tw := mustWorld(t,
		WithHospital(0, -20),
		WithHospital(0, 20),
		WithCloud(5.95, 0, 1, 0),
		WithDroneAt(0, 0, 0, 1),
	)
	tw.RunTicks(1)

	d := &tw.Drones[0]
	if d.Pos.X != 0 {
		t.Errorf("drone reacted to the cloud's stale position: x=%.6f", d.Pos.X)
	}
	if !approx(d.Pos.Y, tw.Cfg.DroneSpeed) {
		t.Errorf("drone y=%.4f, want %.4f", d.Pos.Y, tw.Cfg.DroneSpeed)
	}
}

func TestNewWorldRejectsTooFewHospitals(t *testing.T) {
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- test
	cfg := DefaultConfig(rng)
	cfg.NumHospitals = 1

	if _, err := NewWorld(cfg, 1); !errors.Is(err, ErrTooFewHospitals) {
		t.Errorf("NewWorld error = %v, want ErrTooFewHospitals", err)
	}
}

func TestHarnessRejectsDronesWithoutEnoughHospitals(t *testing.T) {
	_, err := NewTestWorld(
		WithHospital(0, 0),
		WithDrone(0, 0),
	)
	if !errors.Is(err, ErrTooFewHospitals) {
		t.Errorf("harness error = %v, want ErrTooFewHospitals", err)
	}
}

func TestPlacementBudgetSurfacesAsError(t *testing.T) {
	// A 2x2-unit city cannot hold two hospitals that must sit more than
	// 4 units apart; sampling must give up instead of spinning.
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- test
	cfg := DefaultConfig(rng)
	cfg.GridSize = 2
	cfg.BuildingSpacing = 1
	cfg.NumHospitals = 2
	cfg.PlacementRetries = 200

	if _, err := NewWorld(cfg, 1); !errors.Is(err, ErrPlacementBudget) {
		t.Errorf("NewWorld error = %v, want ErrPlacementBudget", err)
	}
}

func TestWorldGenerationCollisionFree(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test
		cfg := DefaultConfig(rng)
		w, err := NewWorld(cfg, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		for i := range w.Hospitals {
			for j := i + 1; j < len(w.Hospitals); j++ {
				if d := w.Hospitals[i].Pos.Sub(w.Hospitals[j].Pos).Len(); d <= cfg.HospitalRadius*2 {
					t.Errorf("seed %d: hospitals %d/%d too close: %.2f", seed, i, j, d)
				}
			}
		}
		for i := range w.Clouds {
			for j := i + 1; j < len(w.Clouds); j++ {
				if d := w.Clouds[i].Pos.Sub(w.Clouds[j].Pos).Len(); d <= cfg.CloudRadius*2 {
					t.Errorf("seed %d: clouds %d/%d too close: %.2f", seed, i, j, d)
				}
			}
			for j := range w.Hospitals {
				if d := w.Clouds[i].Pos.Sub(w.Hospitals[j].Pos).Len(); d <= cfg.CloudRadius+cfg.HospitalRadius {
					t.Errorf("seed %d: cloud %d inside hospital %d margin: %.2f", seed, i, j, d)
				}
			}
		}
		for i := range w.Drones {
			d := &w.Drones[i]
			origin := &w.Hospitals[d.Origin]
			if d.Pos.X != origin.Pos.X || d.Pos.Y != origin.Pos.Y {
				t.Errorf("seed %d: drone %d not on its origin pad", seed, i)
			}
			if d.Pos.Z != cfg.DroneAltitude || d.Target.Z != cfg.DroneAltitude {
				t.Errorf("seed %d: drone %d altitude wrong", seed, i)
			}
			if d.Target.X == origin.Pos.X && d.Target.Y == origin.Pos.Y {
				t.Errorf("seed %d: drone %d targets its own origin", seed, i)
			}
		}
	}
}

func TestLongRunInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99)) // #nosec G404 -- test
	cfg := DefaultConfig(rng)
	w, err := NewWorld(cfg, 99)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10000; i++ {
		w.Step()
	}
	for i := range w.Clouds {
		if w.Clouds[i].Pos.Z != cfg.CloudAltitude {
			t.Errorf("cloud %d left its altitude: %.6f", i, w.Clouds[i].Pos.Z)
		}
	}
	for i := range w.Drones {
		if w.Drones[i].Pos.Z != cfg.DroneAltitude {
			t.Errorf("drone %d left its altitude: %.6f", i, w.Drones[i].Pos.Z)
		}
	}
	if w.Tick() != 10000 {
		t.Errorf("tick = %d, want 10000", w.Tick())
	}
}
