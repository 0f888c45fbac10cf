package sim

import "math/rand"

// Building is one block of the procedural city. Buildings are generated
// once at startup and never touched again: the agents fly above the
// skyline and only the renderer reads them.
type Building struct {
	X, Y   float64 // centre in world space
	Width  float64
	Depth  float64
	Height float64 // in floors; continuous, not snapped
}

// generateCity lays out a GridSize x GridSize block grid centred on the
// origin, one building per cell with randomized footprint and height.
func generateCity(rng *rand.Rand, cfg *Config) []Building {
	buildings := make([]Building, 0, cfg.GridSize*cfg.GridSize)
	half := float64(cfg.GridSize) / 2
	for x := 0; x < cfg.GridSize; x++ {
		for y := 0; y < cfg.GridSize; y++ {
			buildings = append(buildings, Building{
				X:      (float64(x) - half) * cfg.BuildingSpacing,
				Y:      (float64(y) - half) * cfg.BuildingSpacing,
				Width:  1 + rng.Float64()*2,
				Depth:  1 + rng.Float64()*2,
				Height: cfg.MinFloors + rng.Float64()*(cfg.MaxFloors-cfg.MinFloors),
			})
		}
	}
	return buildings
}
