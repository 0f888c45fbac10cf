package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/kestrelgale/Sky-Courier/internal/sim"
)

// collectInterval mirrors the live game: one reporter sample per second
// of simulated time.
const collectInterval = 60

type runStats struct {
	runIndex int
	seed     int64

	hospitals int
	clouds    int
	drones    int

	bounces       int
	arrivals      int
	firstBounce   int
	firstArrival  int
	legsPerDrone  []int
	windowSummary *sim.WindowReport
	cloudsEscaped int // clouds out of bounds at the end of the run
	avgTargetDist float64
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	fmt.Printf("=== Sky Courier Headless Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runOnce(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runOnce(runIndex int, seed int64, ticks int) runStats {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- seeded report run
	cfg := sim.DefaultConfig(rng)
	world, err := sim.NewWorld(cfg, rng.Int63())
	if err != nil {
		log.Fatalf("run %d (seed=%d): %v", runIndex, seed, err)
	}

	reporter := sim.NewSimReporter(0)
	for t := 0; t < ticks; t++ {
		world.Step()
		if world.Tick()%collectInterval == 0 {
			reporter.Collect(world)
		}
	}

	stats := runStats{
		runIndex:      runIndex,
		seed:          seed,
		hospitals:     len(world.Hospitals),
		clouds:        len(world.Clouds),
		drones:        len(world.Drones),
		bounces:       world.Bounces(),
		arrivals:      world.Arrivals(),
		firstBounce:   firstTick(world.Log, "cloud", "bounce"),
		firstArrival:  firstTick(world.Log, "drone", "arrival"),
		windowSummary: reporter.WindowSummary(),
	}
	for i := range world.Drones {
		stats.legsPerDrone = append(stats.legsPerDrone, world.Drones[i].Legs)
	}
	if hist := reporter.History(); len(hist) > 0 {
		final := hist[len(hist)-1]
		stats.cloudsEscaped = final.CloudsOutOfBounds
		stats.avgTargetDist = final.AvgTargetDist
	}
	return stats
}

func firstTick(l *sim.SimLog, category, key string) int {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return -1
	}
	return entries[0].Tick
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("population: hospitals=%d clouds=%d drones=%d\n", rs.hospitals, rs.clouds, rs.drones)
	fmt.Printf("event_totals: bounces=%d deliveries=%d\n", rs.bounces, rs.arrivals)
	fmt.Printf("phase_markers: first_bounce=%d first_delivery=%d\n", rs.firstBounce, rs.firstArrival)
	fmt.Printf("legs_per_drone: %v\n", rs.legsPerDrone)
	fmt.Printf("end_state: clouds_out_of_bounds=%d avg_target_dist=%.2f\n", rs.cloudsEscaped, rs.avgTargetDist)
	if ws := rs.windowSummary; ws != nil {
		fmt.Printf("window[%d..%d]: samples=%d deliveries=%d bounces=%d avg_target_dist=%.2f avg_clouds_oob=%.2f\n",
			ws.FromTick, ws.ToTick, ws.SampleCount, ws.Arrivals, ws.Bounces, ws.AvgTargetDist, ws.AvgCloudsOutOfBounds)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalBounces := 0
	totalArrivals := 0
	totalDrones := 0
	bounceTicks := make([]int, 0, len(all))
	arrivalTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalBounces += rs.bounces
		totalArrivals += rs.arrivals
		totalDrones += rs.drones
		if rs.firstBounce >= 0 {
			bounceTicks = append(bounceTicks, rs.firstBounce)
		}
		if rs.firstArrival >= 0 {
			arrivalTicks = append(arrivalTicks, rs.firstArrival)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: bounces=%.1f deliveries=%.1f\n",
		avg(totalBounces, len(all)), avg(totalArrivals, len(all)))
	if totalDrones > 0 {
		fmt.Printf("deliveries_per_drone=%.2f\n", float64(totalArrivals)/float64(totalDrones))
	}
	fmt.Printf("phase_marker_avg_ticks: first_bounce=%s first_delivery=%s\n",
		avgTickString(bounceTicks), avgTickString(arrivalTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
