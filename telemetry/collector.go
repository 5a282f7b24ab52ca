package telemetry

// Collector buffers FrameStats samples and emits a WindowStats once
// WindowTicks frames have accumulated, mirroring the teacher's rolling
// window collector shape but over the simulation's grid/particle/timer
// readback instead of organism populations.
type Collector struct {
	windowTicks int
	buffer      []FrameStats
}

// NewCollector returns a Collector that aggregates every windowTicks
// frames into one WindowStats. windowTicks < 1 is treated as 1.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: windowTicks,
		buffer:      make([]FrameStats, 0, windowTicks),
	}
}

// Observe appends fs to the current window, returning the aggregated
// WindowStats (and true) once the window fills, after which the buffer
// resets for the next window.
func (c *Collector) Observe(fs FrameStats) (WindowStats, bool) {
	c.buffer = append(c.buffer, fs)
	if len(c.buffer) < c.windowTicks {
		return WindowStats{}, false
	}
	ws := AggregateWindow(c.buffer)
	c.buffer = c.buffer[:0]
	return ws, true
}

// Flush aggregates and clears whatever frames remain in a partial window,
// e.g. at the end of a run that didn't land on a window boundary.
func (c *Collector) Flush() (WindowStats, bool) {
	if len(c.buffer) == 0 {
		return WindowStats{}, false
	}
	ws := AggregateWindow(c.buffer)
	c.buffer = c.buffer[:0]
	return ws, true
}
