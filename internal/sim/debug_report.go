package sim

import (
	"fmt"
	"strings"
)

// debugReportTail caps how many recent log entries the report includes.
const debugReportTail = 40

// DebugReport renders a plain-text snapshot of the whole simulation:
// config, hospitals, every agent's state, the reporter's window summary
// and the tail of the event log. The live game copies this to the
// clipboard; the headless CLI can print it on demand.
func (w *World) DebugReport(seed int64, rep *SimReporter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- SkyCourier debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d hospitals=%d clouds=%d drones=%d\n",
		seed, w.tick, len(w.Hospitals), len(w.Clouds), len(w.Drones))
	fmt.Fprintf(&b, "boundary=±%.1f cloud_speed=%.2f drone_speed=%.2f avoid_radius=%.1f\n\n",
		w.Cfg.BoundaryX(), w.Cfg.CloudSpeed, w.Cfg.DroneSpeed, w.Cfg.AvoidanceRadius)

	b.WriteString("== hospitals ==\n")
	for i := range w.Hospitals {
		h := &w.Hospitals[i]
		fmt.Fprintf(&b, "%s (%.1f, %.1f)\n", h.Label(), h.Pos.X, h.Pos.Y)
	}

	b.WriteString("\n== drones ==\n")
	for i := range w.Drones {
		d := &w.Drones[i]
		fmt.Fprintf(&b, "%s pos=(%.2f,%.2f) target=(%.1f,%.1f) dist=%.2f origin=%s legs=%d\n",
			d.Label(), d.Pos.X, d.Pos.Y, d.Target.X, d.Target.Y,
			d.DistanceToTarget(), w.Hospitals[d.Origin].Label(), d.Legs)
	}

	b.WriteString("\n== clouds ==\n")
	for i := range w.Clouds {
		c := &w.Clouds[i]
		fmt.Fprintf(&b, "%s pos=(%.2f,%.2f) dir=(%.2f,%.2f)\n",
			c.Label(), c.Pos.X, c.Pos.Y, c.Dir.X, c.Dir.Y)
	}

	if rep != nil {
		if ws := rep.WindowSummary(); ws != nil {
			fmt.Fprintf(&b, "\n== window [%d..%d] (%d samples) ==\n",
				ws.FromTick, ws.ToTick, ws.SampleCount)
			fmt.Fprintf(&b, "arrivals=%d bounces=%d avg_target_dist=%.2f avg_clouds_oob=%.2f\n",
				ws.Arrivals, ws.Bounces, ws.AvgTargetDist, ws.AvgCloudsOutOfBounds)
		}
	}

	entries := w.Log.Entries()
	if len(entries) > 0 {
		from := len(entries) - debugReportTail
		if from < 0 {
			from = 0
		}
		fmt.Fprintf(&b, "\n== last %d events ==\n", len(entries)-from)
		for _, e := range entries[from:] {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
