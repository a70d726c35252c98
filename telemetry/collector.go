package telemetry

// Collector accumulates drive events and samples within time windows and
// produces WindowStats. It implements Recorder so it can sit behind the
// controller directly or inside a MultiRecorder.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	curveMisses    int
	wheelSkips     int
	slipStarts     int
	fallbackBuilds int

	// Per-tick samples for current window
	speedSamples  []float64
	slipSamples   []float64
	torqueSamples []float64
	slipTicks     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		speedSamples:        make([]float64, 0, ticksPerWindow),
		slipSamples:         make([]float64, 0, ticksPerWindow),
		torqueSamples:       make([]float64, 0, ticksPerWindow),
	}
}

// Record counts a diagnostic event against the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventNoCurveMatch:
		c.curveMisses++
	case EventMissingWheel:
		c.wheelSkips++
	case EventSlipStart:
		c.slipStarts++
	case EventEmptyCurveSet:
		c.fallbackBuilds++
	}
}

// RecordTick records one tick's derived drive state.
func (c *Collector) RecordTick(speed, maxSlip, torque float64, slipping bool) {
	c.speedSamples = append(c.speedSamples, speed)
	c.slipSamples = append(c.slipSamples, maxSlip)
	c.torqueSamples = append(c.torqueSamples, torque)
	if slipping {
		c.slipTicks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	speedMean, speedP50, speedP90 := ComputeSampleStats(c.speedSamples)
	slipMean, slipP50, slipP90 := ComputeSampleStats(c.slipSamples)
	torqueMean, _, torqueP90 := ComputeSampleStats(c.torqueSamples)

	sampleCount := len(c.speedSamples)
	slipFraction := float64(0)
	if sampleCount > 0 {
		slipFraction = float64(c.slipTicks) / float64(sampleCount)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		SlipMean:     slipMean,
		SlipP50:      slipP50,
		SlipP90:      slipP90,
		SlipTicks:    c.slipTicks,
		SlipFraction: slipFraction,
		SlipStarts:   c.slipStarts,

		TorqueMean: torqueMean,
		TorqueP90:  torqueP90,

		CurveMisses:    c.curveMisses,
		WheelSkips:     c.wheelSkips,
		FallbackBuilds: c.fallbackBuilds,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.curveMisses = 0
	c.wheelSkips = 0
	c.slipStarts = 0
	c.fallbackBuilds = 0
	c.slipTicks = 0
	c.speedSamples = c.speedSamples[:0]
	c.slipSamples = c.slipSamples[:0]
	c.torqueSamples = c.torqueSamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
