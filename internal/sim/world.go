package sim

import (
	"fmt"
	"math/rand"
)

// arrivalFactor: a drone counts as arrived when it is closer to its
// target than this many steps. Two steps of slack stops the drone from
// oscillating over a goal it keeps overshooting.
const arrivalFactor = 2

// Hospital is a protected zone and drone waypoint. Hospitals never move
// after placement; both controllers read them, nothing writes them.
type Hospital struct {
	ID  int
	Pos Vec3 // centre at ground level + half building height
}

// Label returns the hospital's short log identifier, e.g. "H2".
func (h *Hospital) Label() string {
	return fmt.Sprintf("H%d", h.ID)
}

// World owns the entire simulation state: the static city, the agents
// and the tick counter. All mutation happens inside Step on the caller's
// goroutine; the world has no internal concurrency and needs no locking.
type World struct {
	Cfg       Config
	Buildings []Building
	Hospitals []Hospital
	Clouds    []Cloud
	Drones    []Drone
	Log       *SimLog

	rng  *rand.Rand
	tick int

	// Cumulative event counters, read by the reporter.
	bounces  int
	arrivals int
}

// NewWorld validates the config, generates the city and places all
// agents collision-free. Placement failures (retry budget exhausted) and
// config failures (fewer than two hospitals) surface here; a constructed
// world never fails mid-tick.
func NewWorld(cfg Config, seed int64) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only

	w := &World{
		Cfg: cfg,
		Log: NewSimLog(false),
		rng: rng,
	}
	w.Buildings = generateCity(rng, &cfg)

	var err error
	w.Hospitals, err = placeHospitals(rng, &cfg)
	if err != nil {
		return nil, err
	}
	w.Clouds, err = placeClouds(rng, &cfg, w.Hospitals)
	if err != nil {
		return nil, err
	}
	w.Drones = spawnDrones(rng, &cfg, w.Hospitals)
	return w, nil
}

// Tick returns the number of completed simulation steps.
func (w *World) Tick() int {
	return w.tick
}

// Bounces returns the cumulative count of cloud bounce events.
func (w *World) Bounces() int {
	return w.bounces
}

// Arrivals returns the cumulative count of drone deliveries.
func (w *World) Arrivals() int {
	return w.arrivals
}

// Step advances the simulation by one tick. Clouds move first so that
// drone avoidance always sees the cloud positions of the current tick.
// Each drone then either retargets (if it has arrived) or steers; a
// retargeting drone does not also move in the same tick.
func (w *World) Step() {
	w.tick++

	for i := range w.Clouds {
		c := &w.Clouds[i]
		bx, by := c.Advance(w.Hospitals, &w.Cfg)
		if bx || by {
			w.bounces++
			w.Log.Add(w.tick, c.Label(), "cloud", "bounce",
				fmt.Sprintf("x=%v y=%v at (%.1f,%.1f)", bx, by, c.Pos.X, c.Pos.Y), 0)
		}
		w.Log.AddVerbose(w.tick, c.Label(), "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", c.Pos.X, c.Pos.Y), 0)
	}

	arrivalDist := w.Cfg.DroneSpeed * arrivalFactor
	for i := range w.Drones {
		d := &w.Drones[i]
		if d.DistanceToTarget() < arrivalDist {
			w.retarget(d)
			continue
		}
		d.Advance(w.Clouds, &w.Cfg)
		w.Log.AddVerbose(w.tick, d.Label(), "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", d.Pos.X, d.Pos.Y), 0)
	}
}

// retarget handles a drone's arrival: it snaps the drone back to the
// hospital it departed from, then assigns a fresh destination drawn from
// every hospital except the current origin. The snap-back is intentional:
// deliveries are legs between fixed pads, not a continuous tour.
func (w *World) retarget(d *Drone) {
	next := w.pickHospitalExcluding(d.Origin)

	origin := &w.Hospitals[d.Origin]
	d.Pos = Vec3{X: origin.Pos.X, Y: origin.Pos.Y, Z: w.Cfg.DroneAltitude}
	d.Target = Vec3{X: w.Hospitals[next].Pos.X, Y: w.Hospitals[next].Pos.Y, Z: w.Cfg.DroneAltitude}
	d.Origin = next
	d.Legs++

	w.arrivals++
	w.Log.Add(w.tick, d.Label(), "drone", "arrival",
		fmt.Sprintf("leg %d done, departing %s for %s", d.Legs, origin.Label(), w.Hospitals[next].Label()), float64(d.Legs))
}

// pickHospitalExcluding samples uniformly from the hospital index set
// minus the excluded index. The >=2 hospitals precondition is enforced at
// construction, so the reduced set is never empty here.
func (w *World) pickHospitalExcluding(exclude int) int {
	k := w.rng.Intn(len(w.Hospitals) - 1)
	if k >= exclude {
		k++
	}
	return k
}
