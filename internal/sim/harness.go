package sim

import (
	"fmt"
	"math/rand"
)

// TestWorld is a headless harness for building worlds by hand instead of
// through the placement generator. It mirrors the live simulation tick
// for tick but has no Ebiten dependency, supports deterministic seeding
// and records everything to the structured SimLog.
type TestWorld struct {
	*World

	err error // first builder error, surfaced by NewTestWorld
}

// worldOptionKind controls the pass in which an option is applied.
type worldOptionKind int

const (
	worldOptInfra worldOptionKind = iota // config, seed, verbose: applied first
	worldOptAgent                        // hospitals and clouds
	worldOptDrone                        // drones: applied after hospitals exist
)

// WorldOption is a builder function applied to a TestWorld during
// construction.
type WorldOption struct {
	kind worldOptionKind
	fn   func(*TestWorld)
}

// WithConfig replaces the harness baseline config.
func WithConfig(cfg Config) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.Cfg = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.Log = NewSimLog(v)
	}}
}

// WithHospital places a hospital at (x, y).
func WithHospital(x, y float64) WorldOption {
	return WorldOption{worldOptAgent, func(tw *TestWorld) {
		id := len(tw.Hospitals)
		tw.Hospitals = append(tw.Hospitals, Hospital{
			ID:  id,
			Pos: Vec3{X: x, Y: y, Z: tw.Cfg.HospitalHeight / 2},
		})
	}}
}

// WithCloud places a cloud at (x, y) at cloud altitude with drift
// heading (dx, dy). The heading is used as given, not normalized.
func WithCloud(x, y, dx, dy float64) WorldOption {
	return WorldOption{worldOptAgent, func(tw *TestWorld) {
		id := len(tw.Clouds)
		tw.Clouds = append(tw.Clouds, Cloud{
			ID:  id,
			Pos: Vec3{X: x, Y: y, Z: tw.Cfg.CloudAltitude},
			Dir: Vec3{X: dx, Y: dy},
		})
	}}
}

// WithDrone spawns a drone on the pad of hospital origin, targeting
// hospital target. Indices refer to hospitals in the order added.
func WithDrone(origin, target int) WorldOption {
	return WorldOption{worldOptDrone, func(tw *TestWorld) {
		tw.addDrone(nil, origin, target)
	}}
}

// WithDroneAt spawns a drone at an arbitrary (x, y), mid-leg from
// hospital origin toward hospital target.
func WithDroneAt(x, y float64, origin, target int) WorldOption {
	return WorldOption{worldOptDrone, func(tw *TestWorld) {
		tw.addDrone(&Vec3{X: x, Y: y}, origin, target)
	}}
}

// addDrone appends a drone. at == nil means spawn on the origin pad.
// Index errors are recorded and surfaced by NewTestWorld.
func (tw *TestWorld) addDrone(at *Vec3, origin, target int) {
	if origin < 0 || origin >= len(tw.Hospitals) || target < 0 || target >= len(tw.Hospitals) {
		if tw.err == nil {
			tw.err = fmt.Errorf("harness: drone references hospitals %d→%d, have %d",
				origin, target, len(tw.Hospitals))
		}
		return
	}
	pos := Vec3{X: tw.Hospitals[origin].Pos.X, Y: tw.Hospitals[origin].Pos.Y, Z: tw.Cfg.DroneAltitude}
	if at != nil {
		pos = Vec3{X: at.X, Y: at.Y, Z: tw.Cfg.DroneAltitude}
	}
	tw.Drones = append(tw.Drones, Drone{
		ID:     len(tw.Drones),
		Pos:    pos,
		Target: Vec3{X: tw.Hospitals[target].Pos.X, Y: tw.Hospitals[target].Pos.Y, Z: tw.Cfg.DroneAltitude},
		Origin: origin,
	})
}

// NewTestWorld constructs a TestWorld from the given options in three
// ordered passes:
//  1. Infrastructure (config, seed, verbose)
//  2. Hospitals and clouds
//  3. Drones (which reference hospitals by index)
//
// It enforces the same precondition as NewWorld: any drone requires at
// least two hospitals, or retargeting has no valid choice set.
func NewTestWorld(opts ...WorldOption) (*TestWorld, error) {
	tw := &TestWorld{World: &World{
		Cfg: harnessConfig(),
		Log: NewSimLog(false),
		rng: rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}}
	for _, o := range opts {
		if o.kind == worldOptInfra {
			o.fn(tw)
		}
	}
	for _, o := range opts {
		if o.kind == worldOptAgent {
			o.fn(tw)
		}
	}
	for _, o := range opts {
		if o.kind == worldOptDrone {
			o.fn(tw)
		}
	}
	if tw.err != nil {
		return nil, tw.err
	}
	if len(tw.Drones) > 0 && len(tw.Hospitals) < 2 {
		return nil, fmt.Errorf("harness: %w (got %d)", ErrTooFewHospitals, len(tw.Hospitals))
	}
	return tw, nil
}

// harnessConfig is the standard city tuning with zero auto-placed
// agents; the options add agents explicitly.
func harnessConfig() Config {
	rng := rand.New(rand.NewSource(0)) // #nosec G404 -- only rolls counts, discarded below
	cfg := DefaultConfig(rng)
	cfg.NumHospitals = 0
	cfg.NumClouds = 0
	cfg.NumDrones = 0
	return cfg
}

// RunTicks advances the world n ticks.
func (tw *TestWorld) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tw.Step()
	}
}

// RunUntil advances the world up to maxTicks, stopping early if the
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (tw *TestWorld) RunUntil(predicate func(*TestWorld) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tw.Step()
		if predicate(tw) {
			return tw.Tick()
		}
	}
	return -1
}
