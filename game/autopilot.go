package game

import "math"

// Autopilot is a scripted input source for traffic vehicles: constant
// throttle with a sinusoidal steering sweep. Each instance gets a
// phase offset so the traffic does not move in lockstep.
type Autopilot struct {
	throttle    float64
	steerPeriod float64
	phase       float64
	dt          float64

	t   float64
	rot float64
}

// NewAutopilot creates a scripted driver.
func NewAutopilot(throttle, steerPeriod, phase, dt float64) *Autopilot {
	if steerPeriod <= 0 {
		steerPeriod = 6
	}
	return &Autopilot{
		throttle:    throttle,
		steerPeriod: steerPeriod,
		phase:       phase,
		dt:          dt,
	}
}

// Refresh advances the steering sweep by one tick.
func (a *Autopilot) Refresh() {
	a.t += a.dt
	a.rot = math.Sin(2*math.Pi*a.t/a.steerPeriod + a.phase)
}

// Acceleration returns the constant throttle.
func (a *Autopilot) Acceleration() float64 { return a.throttle }

// Rotation returns the current steering sweep value in [-1, 1].
func (a *Autopilot) Rotation() float64 { return a.rot }

// Handbrake is never engaged by the autopilot.
func (a *Autopilot) Handbrake() bool { return false }
