package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// Sentinel errors for the two configuration failures that must surface at
// construction time rather than mid-simulation.
var (
	// ErrTooFewHospitals means the config cannot support drone retargeting:
	// picking a destination different from the origin needs at least two
	// hospitals to choose from.
	ErrTooFewHospitals = errors.New("at least 2 hospitals required for drone routing")

	// ErrPlacementBudget means rejection sampling could not find a
	// collision-free position within the retry budget. The map is too
	// crowded for the requested agent counts.
	ErrPlacementBudget = errors.New("placement retry budget exhausted")
)

// Config holds every tunable of the simulation. It is filled once at
// startup and treated as immutable afterwards; the world keeps its own
// copy so nothing can change under a running simulation.
type Config struct {
	// City grid.
	GridSize        int     // buildings per side
	BuildingSpacing float64 // world units between building centres
	MinFloors       float64 // building height range
	MaxFloors       float64

	// Hospitals (protected zones).
	NumHospitals   int
	HospitalRadius float64
	HospitalHeight float64

	// Clouds.
	NumClouds     int
	CloudRadius   float64
	CloudFlatten  float64 // vertical squash of the cloud volume; invisible top-down
	CloudAltitude float64
	CloudSpeed    float64 // world units per tick

	// Drones.
	NumDrones       int
	DroneAltitude   float64 // same plane as the clouds, so avoidance matters
	DroneSize       float64
	DroneSpeed      float64 // world units per tick
	AvoidanceRadius float64 // planar distance at which cloud repulsion kicks in

	// PlacementRetries bounds rejection sampling per placed agent.
	PlacementRetries int
}

// DefaultConfig returns the standard city setup. Agent counts are rolled
// from the given rng: 5-10 hospitals, twice as many clouds, 3-7 drones.
func DefaultConfig(rng *rand.Rand) Config {
	numHospitals := 5 + rng.Intn(6)
	cfg := Config{
		GridSize:        20,
		BuildingSpacing: 5.0,
		MinFloors:       2,
		MaxFloors:       12,

		NumHospitals:   numHospitals,
		HospitalRadius: 2,
		HospitalHeight: 8,

		NumClouds:     numHospitals * 2,
		CloudRadius:   3,
		CloudFlatten:  0.3,
		CloudAltitude: 10,
		CloudSpeed:    0.1,

		NumDrones:  3 + rng.Intn(5),
		DroneSize:  1.5,
		DroneSpeed: 0.15,

		PlacementRetries: 1000,
	}
	cfg.DroneAltitude = cfg.CloudAltitude
	cfg.AvoidanceRadius = cfg.CloudRadius + 3
	return cfg
}

// BoundaryX returns the half-width of the city in world units. Clouds
// bounce off ±BoundaryX; the city is symmetric about the origin.
func (c *Config) BoundaryX() float64 {
	return float64(c.GridSize) * c.BuildingSpacing / 2
}

// BoundaryY returns the half-depth of the city.
func (c *Config) BoundaryY() float64 {
	return float64(c.GridSize) * c.BuildingSpacing / 2
}

// Validate rejects configs that would make the simulation ill-defined.
func (c *Config) Validate() error {
	if c.NumHospitals < 2 {
		return fmt.Errorf("config: %w (got %d)", ErrTooFewHospitals, c.NumHospitals)
	}
	if c.GridSize <= 0 || c.BuildingSpacing <= 0 {
		return fmt.Errorf("config: city grid %dx%d at spacing %.2f is degenerate",
			c.GridSize, c.GridSize, c.BuildingSpacing)
	}
	if c.CloudSpeed <= 0 || c.DroneSpeed <= 0 {
		return fmt.Errorf("config: agent speeds must be positive (cloud=%.3f drone=%.3f)",
			c.CloudSpeed, c.DroneSpeed)
	}
	if c.PlacementRetries <= 0 {
		return fmt.Errorf("config: placement retry budget must be positive (got %d)", c.PlacementRetries)
	}
	return nil
}
