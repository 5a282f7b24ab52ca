// Package telemetry collects per-tick and windowed run statistics off a
// running level: grid-wide pressure/heat/fog totals, particle load, and
// timer queue depth, aggregated into periodic percentile snapshots and
// exported as CSV.
package telemetry

import (
	"sort"

	"github.com/horazont/maniaclab/level"
	"gonum.org/v1/gonum/stat"
)

// FrameStats is one tick's grid-wide readback.
type FrameStats struct {
	Tick            uint64  `csv:"tick"`
	SimTimeSec      float64 `csv:"sim_time"`
	Pressure        float64 `csv:"pressure_total"`
	HeatEnergy      float64 `csv:"heat_total"`
	FogDensity      float64 `csv:"fog_total"`
	BlockedCells    int     `csv:"blocked_cells"`
	ActiveParticles int     `csv:"active_particles"`
	TimerQueueDepth int     `csv:"timer_queue_depth"`
}

// SampleFrame reads the current grid/particle/timer state of lvl into a
// FrameStats row. simTimeSec is the caller's running wall-clock-equivalent
// simulation time (lvl.Ticks() * the configured time slice).
func SampleFrame(lvl *level.Level, simTimeSec float64) FrameStats {
	totals := lvl.Physics().Totals()
	return FrameStats{
		Tick:            uint64(lvl.Ticks()),
		SimTimeSec:      simTimeSec,
		Pressure:        totals.Pressure,
		HeatEnergy:      totals.HeatEnergy,
		FogDensity:      totals.FogDensity,
		BlockedCells:    totals.BlockedCells,
		ActiveParticles: lvl.ActiveParticleCount(),
		TimerQueueDepth: lvl.PendingTimerCount(),
	}
}

// WindowStats aggregates a run of FrameStats samples into mean, spread and
// percentile summaries over the window's pressure and heat fields.
type WindowStats struct {
	WindowStartTick uint64 `csv:"window_start"`
	WindowEndTick   uint64 `csv:"window_end"`
	Frames          int    `csv:"frames"`

	PressureMean   float64 `csv:"pressure_mean"`
	PressureStdDev float64 `csv:"pressure_stddev"`
	PressureP10    float64 `csv:"pressure_p10"`
	PressureP50    float64 `csv:"pressure_p50"`
	PressureP90    float64 `csv:"pressure_p90"`

	HeatMean   float64 `csv:"heat_mean"`
	HeatStdDev float64 `csv:"heat_stddev"`
	HeatP10    float64 `csv:"heat_p10"`
	HeatP50    float64 `csv:"heat_p50"`
	HeatP90    float64 `csv:"heat_p90"`

	ActiveParticlesMean float64 `csv:"active_particles_mean"`
	TimerQueueDepthMax  int     `csv:"timer_queue_depth_max"`
}

// AggregateWindow summarizes frames (assumed contiguous, in tick order)
// into a WindowStats using gonum/stat for mean/stddev/quantile.
func AggregateWindow(frames []FrameStats) WindowStats {
	if len(frames) == 0 {
		return WindowStats{}
	}

	pressure := make([]float64, len(frames))
	heat := make([]float64, len(frames))
	var particleSum float64
	var timerMax int
	for i, f := range frames {
		pressure[i] = f.Pressure
		heat[i] = f.HeatEnergy
		particleSum += float64(f.ActiveParticles)
		if f.TimerQueueDepth > timerMax {
			timerMax = f.TimerQueueDepth
		}
	}

	sortedPressure := append([]float64(nil), pressure...)
	sort.Float64s(sortedPressure)
	sortedHeat := append([]float64(nil), heat...)
	sort.Float64s(sortedHeat)

	return WindowStats{
		WindowStartTick: frames[0].Tick,
		WindowEndTick:   frames[len(frames)-1].Tick,
		Frames:          len(frames),

		PressureMean:   stat.Mean(pressure, nil),
		PressureStdDev: stat.StdDev(pressure, nil),
		PressureP10:    stat.Quantile(0.10, stat.Empirical, sortedPressure, nil),
		PressureP50:    stat.Quantile(0.50, stat.Empirical, sortedPressure, nil),
		PressureP90:    stat.Quantile(0.90, stat.Empirical, sortedPressure, nil),

		HeatMean:   stat.Mean(heat, nil),
		HeatStdDev: stat.StdDev(heat, nil),
		HeatP10:    stat.Quantile(0.10, stat.Empirical, sortedHeat, nil),
		HeatP50:    stat.Quantile(0.50, stat.Empirical, sortedHeat, nil),
		HeatP90:    stat.Quantile(0.90, stat.Empirical, sortedHeat, nil),

		ActiveParticlesMean: particleSum / float64(len(frames)),
		TimerQueueDepthMax:  timerMax,
	}
}
