package telemetry

import (
	"math"
	"testing"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/level"
)

func testConfig() *config.Config {
	return &config.Config{
		Physics: config.PhysicsConfig{
			InitialAirPressure: 1.0,
			InitialTemperature: 1.0,
			AirDiffusion:       0.5,
			AirFlow:            0.5,
			Convection:         0.1,
			HeatDiffusion:      0.05,
			FogDiffusion:       0.3,
			FlowDamping:        1.0,
			AirTempCoeff:       1.0,
			TimeSliceSeconds:   0.004,
		},
		Particles: config.ParticlesConfig{ChunkSize: 16},
	}
}

func TestSampleFrameReadsGridAndQueueState(t *testing.T) {
	lvl := level.New(5, 5, testConfig(), nil)
	lvl.Update()

	fs := SampleFrame(lvl, 0.004)
	if fs.Tick != uint64(lvl.Ticks()) {
		t.Errorf("Tick = %d, want %d", fs.Tick, lvl.Ticks())
	}
	if fs.Pressure <= 0 {
		t.Error("expected a positive grid-wide pressure total on a fresh level")
	}
	if fs.TimerQueueDepth != lvl.PendingTimerCount() {
		t.Errorf("TimerQueueDepth = %d, want %d", fs.TimerQueueDepth, lvl.PendingTimerCount())
	}
}

func TestAggregateWindowComputesMeanAndPercentiles(t *testing.T) {
	frames := make([]FrameStats, 10)
	for i := range frames {
		frames[i] = FrameStats{
			Tick:       uint64(i + 1),
			Pressure:   float64(i + 1),
			HeatEnergy: float64(i+1) * 2,
		}
	}

	ws := AggregateWindow(frames)

	if ws.Frames != 10 {
		t.Errorf("Frames = %d, want 10", ws.Frames)
	}
	if ws.WindowStartTick != 1 || ws.WindowEndTick != 10 {
		t.Errorf("window bounds = [%d, %d], want [1, 10]", ws.WindowStartTick, ws.WindowEndTick)
	}
	if math.Abs(ws.PressureMean-5.5) > 0.001 {
		t.Errorf("PressureMean = %v, want 5.5", ws.PressureMean)
	}
	if math.Abs(ws.HeatMean-11.0) > 0.001 {
		t.Errorf("HeatMean = %v, want 11.0", ws.HeatMean)
	}
	if ws.PressureP50 <= 0 {
		t.Error("expected a positive median pressure")
	}
}

func TestAggregateWindowEmpty(t *testing.T) {
	ws := AggregateWindow(nil)
	if ws.Frames != 0 {
		t.Errorf("Frames = %d, want 0", ws.Frames)
	}
}
