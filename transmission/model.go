package transmission

import "github.com/pthm-cable/trackdrive/telemetry"

// Sentinel values returned when no curve covers the queried speed.
// The simulation keeps running on these rather than aborting a tick.
const (
	SentinelTorque         = 150.0
	SentinelEngineFraction = 0.35
)

// Fallback curve shape synthesized when no gears are configured:
// strong torque from standstill tapering to nothing at top speed.
var fallbackKeys = []Key{
	{Time: 0, Value: 400},
	{Time: 50, Value: 200},
	{Time: 150, Value: 0},
}

// Model maps a road speed to engine torque and to a normalized engine
// speed fraction using the configured gear curves. Curve domains may
// overlap; the first declared curve that contains the speed wins.
type Model struct {
	curves []Curve
	events telemetry.Recorder
}

// NewModel creates a torque model from gear curves in declared order.
// A nil recorder falls back to slog.
func NewModel(curves []Curve, events telemetry.Recorder) *Model {
	if events == nil {
		events = telemetry.NewLogRecorder()
	}
	return &Model{curves: curves, events: events}
}

// FallbackCurve returns the synthetic single-gear curve used when the
// configuration carries no gears.
func FallbackCurve() Curve {
	keys := make([]Key, len(fallbackKeys))
	copy(keys, fallbackKeys)
	return Curve{Name: "fallback", Keys: keys}
}

// Gears returns the number of configured gear curves.
func (m *Model) Gears() int {
	return len(m.curves)
}

// Curve returns the gear curve at index i.
func (m *Model) Curve(i int) Curve {
	return m.curves[i]
}

// Torque returns the interpolated torque for the given speed, or
// SentinelTorque when no curve matches.
func (m *Model) Torque(speed float64) float64 {
	idx, ok := m.match(speed)
	if !ok {
		m.events.Record(telemetry.NewNoCurveMatchEvent(speed))
		return SentinelTorque
	}
	return m.curves[idx].Evaluate(speed)
}

// EngineSpeedFraction returns where speed sits inside the matched
// curve's domain, in [0,1]. Useful for tachometer-style feedback.
// Degenerate domains and unmatched speeds return SentinelEngineFraction.
func (m *Model) EngineSpeedFraction(speed float64) float64 {
	idx, ok := m.match(speed)
	if !ok {
		m.events.Record(telemetry.NewNoCurveMatchEvent(speed))
		return SentinelEngineFraction
	}

	lo, hi := m.curves[idx].Domain()
	if hi <= lo {
		return SentinelEngineFraction
	}

	frac := (speed - lo) / (hi - lo)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// Gear returns the index of the curve covering speed, in declared
// order, and whether any matched.
func (m *Model) Gear(speed float64) (int, bool) {
	return m.match(speed)
}

// match finds the first curve containing speed. It also performs the
// one-time fallback synthesis when no curves were configured.
func (m *Model) match(speed float64) (int, bool) {
	if len(m.curves) == 0 {
		m.events.Record(telemetry.NewEmptyCurveSetEvent())
		m.curves = []Curve{FallbackCurve()}
	}

	for i, c := range m.curves {
		if c.Contains(speed) {
			return i, true
		}
	}
	return 0, false
}
