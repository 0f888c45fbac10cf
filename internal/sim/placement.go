package sim

import (
	"fmt"
	"math/rand"
)

// placeHospitals scatters hospitals across the city with rejection
// sampling: a candidate is retried until it clears every placed hospital
// by at least twice the hospital radius. Sampling is bounded by the
// config retry budget so an overcrowded map fails instead of spinning.
func placeHospitals(rng *rand.Rand, cfg *Config) ([]Hospital, error) {
	hospitals := make([]Hospital, 0, cfg.NumHospitals)
	for i := 0; i < cfg.NumHospitals; i++ {
		pos, err := samplePosition(rng, cfg, cfg.HospitalHeight/2, func(p Vec3) bool {
			for j := range hospitals {
				if p.Sub(hospitals[j].Pos).Len() <= cfg.HospitalRadius*2 {
					return false
				}
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("hospital %d of %d: %w", i+1, cfg.NumHospitals, err)
		}
		hospitals = append(hospitals, Hospital{ID: i, Pos: pos})
	}
	return hospitals, nil
}

// placeClouds scatters clouds at cloud altitude, clear of each other by
// twice the cloud radius and clear of every hospital by the combined
// cloud + hospital radii. Each cloud gets a random unit drift heading.
func placeClouds(rng *rand.Rand, cfg *Config, hospitals []Hospital) ([]Cloud, error) {
	clouds := make([]Cloud, 0, cfg.NumClouds)
	for i := 0; i < cfg.NumClouds; i++ {
		pos, err := samplePosition(rng, cfg, cfg.CloudAltitude, func(p Vec3) bool {
			for j := range clouds {
				if p.Sub(clouds[j].Pos).Len() <= cfg.CloudRadius*2 {
					return false
				}
			}
			for j := range hospitals {
				if p.Sub(hospitals[j].Pos).Len() <= cfg.CloudRadius+cfg.HospitalRadius {
					return false
				}
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("cloud %d of %d: %w", i+1, cfg.NumClouds, err)
		}
		dir := Vec3{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}.Normalized()
		clouds = append(clouds, Cloud{ID: i, Pos: pos, Dir: dir})
	}
	return clouds, nil
}

// spawnDrones creates each drone on a random hospital pad with a target
// drawn from the remaining hospitals. Needs >=2 hospitals; the config is
// validated before this runs.
func spawnDrones(rng *rand.Rand, cfg *Config, hospitals []Hospital) []Drone {
	drones := make([]Drone, 0, cfg.NumDrones)
	for i := 0; i < cfg.NumDrones; i++ {
		origin := rng.Intn(len(hospitals))
		target := rng.Intn(len(hospitals) - 1)
		if target >= origin {
			target++
		}
		drones = append(drones, Drone{
			ID:     i,
			Pos:    Vec3{X: hospitals[origin].Pos.X, Y: hospitals[origin].Pos.Y, Z: cfg.DroneAltitude},
			Target: Vec3{X: hospitals[target].Pos.X, Y: hospitals[target].Pos.Y, Z: cfg.DroneAltitude},
			Origin: origin,
		})
	}
	return drones
}

// samplePosition draws uniform positions inside the city boundary at the
// given altitude until accept passes or the retry budget runs out.
func samplePosition(rng *rand.Rand, cfg *Config, z float64, accept func(Vec3) bool) (Vec3, error) {
	bx, by := cfg.BoundaryX(), cfg.BoundaryY()
	for try := 0; try < cfg.PlacementRetries; try++ {
		p := Vec3{
			X: rng.Float64()*2*bx - bx,
			Y: rng.Float64()*2*by - by,
			Z: z,
		}
		if accept(p) {
			return p, nil
		}
	}
	return Vec3{}, fmt.Errorf("%w after %d tries", ErrPlacementBudget, cfg.PlacementRetries)
}
