package sim

import "math"

// reportWindowTicks is the default sliding window for recent-behaviour
// summaries (~10s at 60TPS).
const reportWindowTicks = 600

// DroneReport captures a single drone's state at one point in time.
type DroneReport struct {
	ID         int
	Label      string
	X, Y       float64
	TargetDist float64
	Legs       int
}

// WorldReport is a snapshot of the simulation at one tick.
type WorldReport struct {
	Tick int

	// Cumulative event counters at snapshot time.
	Arrivals int
	Bounces  int

	// Clouds currently past the city boundary. The bounce is a soft
	// constraint, so a small transient count here is normal; a growing one
	// means escaped clouds.
	CloudsOutOfBounds int

	AvgTargetDist float64
	Drones        []DroneReport
}

// SimReporter collects periodic world snapshots and summarizes them over
// a sliding time window. The live game collects every second; the
// headless CLI prints the window at the end of a run.
type SimReporter struct {
	history     []WorldReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current world state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(w *World) {
	report := WorldReport{
		Tick:     w.Tick(),
		Arrivals: w.Arrivals(),
		Bounces:  w.Bounces(),
	}

	bx, by := w.Cfg.BoundaryX(), w.Cfg.BoundaryY()
	for i := range w.Clouds {
		c := &w.Clouds[i]
		if math.Abs(c.Pos.X) > bx || math.Abs(c.Pos.Y) > by {
			report.CloudsOutOfBounds++
		}
	}

	sumDist := 0.0
	for i := range w.Drones {
		d := &w.Drones[i]
		dist := d.DistanceToTarget()
		sumDist += dist
		report.Drones = append(report.Drones, DroneReport{
			ID:         d.ID,
			Label:      d.Label(),
			X:          d.Pos.X,
			Y:          d.Pos.Y,
			TargetDist: dist,
			Legs:       d.Legs,
		})
	}
	if len(w.Drones) > 0 {
		report.AvgTargetDist = sumDist / float64(len(w.Drones))
	}

	r.history = append(r.history, report)
}

// History returns all collected snapshots.
func (r *SimReporter) History() []WorldReport {
	return r.history
}

// WindowReport summarizes the snapshots inside the sliding window.
type WindowReport struct {
	SampleCount int
	FromTick    int
	ToTick      int

	// Event deltas across the window (counters are cumulative per sample).
	Arrivals int
	Bounces  int

	AvgTargetDist        float64
	AvgCloudsOutOfBounds float64
}

// WindowSummary aggregates the snapshots within the last windowTicks.
// Returns nil when nothing has been collected yet.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	last := r.history[len(r.history)-1]
	cutoff := last.Tick - r.windowTicks

	var window []WorldReport
	for _, rep := range r.history {
		if rep.Tick > cutoff {
			window = append(window, rep)
		}
	}

	out := &WindowReport{
		SampleCount: len(window),
		FromTick:    window[0].Tick,
		ToTick:      window[len(window)-1].Tick,
		Arrivals:    window[len(window)-1].Arrivals - window[0].Arrivals,
		Bounces:     window[len(window)-1].Bounces - window[0].Bounces,
	}
	sumDist := 0.0
	sumOut := 0.0
	for _, rep := range window {
		sumDist += rep.AvgTargetDist
		sumOut += float64(rep.CloudsOutOfBounds)
	}
	out.AvgTargetDist = sumDist / float64(len(window))
	out.AvgCloudsOutOfBounds = sumOut / float64(len(window))
	return out
}
