package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated drive statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Speed distribution (km/h, sampled every tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Slip
	SlipMean     float64 `csv:"slip_mean"`
	SlipP50      float64 `csv:"slip_p50"`
	SlipP90      float64 `csv:"slip_p90"`
	SlipTicks    int     `csv:"slip_ticks"`
	SlipFraction float64 `csv:"slip_fraction"`
	SlipStarts   int     `csv:"slip_starts"`

	// Commanded torque
	TorqueMean float64 `csv:"torque_mean"`
	TorqueP90  float64 `csv:"torque_p90"`

	// Anomalies during window
	CurveMisses    int `csv:"curve_misses"`
	WheelSkips     int `csv:"wheel_skips"`
	FallbackBuilds int `csv:"fallback_builds"`
}

// ComputeSampleStats calculates mean, median, and 90th percentile of samples.
func ComputeSampleStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("slip_mean", s.SlipMean),
		slog.Float64("slip_p50", s.SlipP50),
		slog.Float64("slip_p90", s.SlipP90),
		slog.Int("slip_ticks", s.SlipTicks),
		slog.Float64("slip_fraction", s.SlipFraction),
		slog.Int("slip_starts", s.SlipStarts),
		slog.Float64("torque_mean", s.TorqueMean),
		slog.Float64("torque_p90", s.TorqueP90),
		slog.Int("curve_misses", s.CurveMisses),
		slog.Int("wheel_skips", s.WheelSkips),
		slog.Int("fallback_builds", s.FallbackBuilds),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"slip_mean", s.SlipMean,
		"slip_p90", s.SlipP90,
		"slip_ticks", s.SlipTicks,
		"slip_fraction", s.SlipFraction,
		"slip_starts", s.SlipStarts,
		"torque_mean", s.TorqueMean,
		"torque_p90", s.TorqueP90,
		"curve_misses", s.CurveMisses,
		"wheel_skips", s.WheelSkips,
		"fallback_builds", s.FallbackBuilds,
	)
}
