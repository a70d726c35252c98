// Package telemetry provides typed diagnostic events, windowed drive
// statistics, and CSV output for the simulation.
package telemetry

import "log/slog"

// Severity classifies how serious a diagnostic event is.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// EventType identifies diagnostic events emitted by the drive layer.
type EventType uint8

const (
	EventMissingDependency EventType = iota // required collaborator absent at init
	EventMissingWheel                       // one wheel actuator absent mid-tick
	EventNoCurveMatch                       // no torque curve covers the queried speed
	EventEmptyCurveSet                      // curve set empty, fallback synthesized
	EventSlipStart                          // vehicle crossed the slip threshold
	EventSlipStop                           // vehicle dropped below the slip threshold
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventMissingDependency:
		return "missing_dependency"
	case EventMissingWheel:
		return "missing_wheel"
	case EventNoCurveMatch:
		return "no_curve_match"
	case EventEmptyCurveSet:
		return "empty_curve_set"
	case EventSlipStart:
		return "slip_start"
	case EventSlipStop:
		return "slip_stop"
	}
	return "unknown"
}

// Event represents a single diagnostic event.
type Event struct {
	Type     EventType
	Severity Severity
	Tick     int32

	// Optional fields depending on event type
	Detail string  // dependency name for init events
	Wheel  int     // wheel index for wheel events, -1 otherwise
	Value  float64 // queried speed (curve events) or slip magnitude (slip events)
}

// NewMissingDependencyEvent creates an init-failure event naming the absent collaborator.
func NewMissingDependencyEvent(detail string) Event {
	return Event{
		Type:     EventMissingDependency,
		Severity: SeverityError,
		Detail:   detail,
		Wheel:    -1,
	}
}

// NewMissingWheelEvent creates an event for a wheel skipped during actuation.
func NewMissingWheelEvent(tick int32, wheel int) Event {
	return Event{
		Type:     EventMissingWheel,
		Severity: SeverityWarning,
		Tick:     tick,
		Wheel:    wheel,
	}
}

// NewNoCurveMatchEvent creates an event for a torque query outside every curve domain.
func NewNoCurveMatchEvent(speed float64) Event {
	return Event{
		Type:     EventNoCurveMatch,
		Severity: SeverityWarning,
		Wheel:    -1,
		Value:    speed,
	}
}

// NewEmptyCurveSetEvent creates an event for the one-time fallback curve synthesis.
func NewEmptyCurveSetEvent() Event {
	return Event{
		Type:     EventEmptyCurveSet,
		Severity: SeverityWarning,
		Wheel:    -1,
	}
}

// NewSlipStartEvent creates an event for the vehicle starting to slip.
func NewSlipStartEvent(tick int32, slip float64) Event {
	return Event{
		Type:  EventSlipStart,
		Tick:  tick,
		Wheel: -1,
		Value: slip,
	}
}

// NewSlipStopEvent creates an event for the vehicle regaining grip.
func NewSlipStopEvent(tick int32) Event {
	return Event{
		Type:  EventSlipStop,
		Tick:  tick,
		Wheel: -1,
	}
}

// Recorder receives diagnostic events. The drive layer never chooses a sink
// itself; hosts decide whether events go to logs, counters, or both.
type Recorder interface {
	Record(Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Event)

// Record calls f(e).
func (f RecorderFunc) Record(e Event) { f(e) }

// NewLogRecorder returns a Recorder that forwards events to slog.
func NewLogRecorder() Recorder {
	return RecorderFunc(func(e Event) {
		attrs := []any{
			"event", e.Type.String(),
			"tick", e.Tick,
		}
		if e.Detail != "" {
			attrs = append(attrs, "detail", e.Detail)
		}
		if e.Wheel >= 0 {
			attrs = append(attrs, "wheel", e.Wheel)
		}
		if e.Value != 0 {
			attrs = append(attrs, "value", e.Value)
		}

		switch e.Severity {
		case SeverityError:
			slog.Error("drive", attrs...)
		case SeverityWarning:
			slog.Warn("drive", attrs...)
		default:
			slog.Info("drive", attrs...)
		}
	})
}

// MultiRecorder fans events out to several recorders.
func MultiRecorder(recorders ...Recorder) Recorder {
	return RecorderFunc(func(e Event) {
		for _, r := range recorders {
			if r != nil {
				r.Record(e)
			}
		}
	})
}
