package drive

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/telemetry"
	"github.com/pthm-cable/trackdrive/transmission"
)

const (
	// Wheels [0, frontWheelCount) receive steering commands.
	frontWheelCount = 2

	// Ground-plane displacement converts m/s to km/h.
	msToKmh = 3.6

	// Computed speed rounds to this many decimal places. Dependent
	// systems (FOV interpolation, HUD) stay stable across ticks; the
	// precision is a tuning choice, not a physical constant.
	speedDecimals = 1
)

// Controller owns the per-tick drive pipeline for one vehicle.
//
// A controller is either active or permanently disabled: if any
// required collaborator is missing at construction it disables itself,
// emits an event naming the cause, and ignores every subsequent tick.
// A single missing wheel mid-operation is tolerated per wheel instead.
type Controller struct {
	body   Body
	input  InputSource
	wheels []WheelActuator
	model  *transmission.Model
	camera CameraSink
	skid   AudioCue
	events telemetry.Recorder

	settings Settings
	disabled bool

	tick           int32
	prevPos        r3.Vec
	speed          float64
	engineFraction float64
	steerAngle     float64
	torque         float64
	maxSlip        float64
	slipping       bool
}

// Options holds the optional collaborators.
type Options struct {
	Camera CameraSink         // nil disables FOV feedback
	Skid   AudioCue           // nil disables the skid cue
	Events telemetry.Recorder // nil falls back to slog
}

// New wires a controller to its collaborators. Body, input, wheels,
// and the torque model are required; a missing one yields a disabled
// controller rather than an error, matching the fail-safe policy of
// the surrounding simulation.
func New(body Body, input InputSource, wheels []WheelActuator, model *transmission.Model, settings Settings, opts Options) *Controller {
	events := opts.Events
	if events == nil {
		events = telemetry.NewLogRecorder()
	}

	c := &Controller{
		body:     body,
		input:    input,
		wheels:   wheels,
		model:    model,
		camera:   opts.Camera,
		skid:     opts.Skid,
		events:   events,
		settings: settings,
	}

	missing := false
	if body == nil {
		events.Record(telemetry.NewMissingDependencyEvent("body"))
		missing = true
	}
	if input == nil {
		events.Record(telemetry.NewMissingDependencyEvent("input"))
		missing = true
	}
	if len(wheels) == 0 {
		events.Record(telemetry.NewMissingDependencyEvent("wheels"))
		missing = true
	}
	if model == nil {
		events.Record(telemetry.NewMissingDependencyEvent("torque_model"))
		missing = true
	}

	if missing {
		c.disabled = true
		return c
	}

	body.SetCenterOfMass(settings.CenterOfMass)
	c.prevPos = body.Position()
	return c
}

// Disabled reports whether the controller was permanently disabled at
// construction time.
func (c *Controller) Disabled() bool { return c.disabled }

// Speed returns the current ground speed in km/h.
func (c *Controller) Speed() float64 { return c.speed }

// EngineSpeedFraction returns the normalized engine speed in [0,1].
func (c *Controller) EngineSpeedFraction() float64 { return c.engineFraction }

// SteerAngle returns the steering angle commanded this tick, radians.
func (c *Controller) SteerAngle() float64 { return c.steerAngle }

// Torque returns the wheel torque commanded this tick.
func (c *Controller) Torque() float64 { return c.torque }

// MaxSlip returns the largest slip magnitude seen across wheels this tick.
func (c *Controller) MaxSlip() float64 { return c.maxSlip }

// Slipping reports whether any wheel exceeded the slip limit this tick.
func (c *Controller) Slipping() bool { return c.slipping }

// Tick returns the number of physics ticks advanced.
func (c *Controller) Tick() int32 { return c.tick }

// AdvancePhysics runs one fixed-rate tick of the drive pipeline.
// dt is the elapsed simulation time in seconds.
func (c *Controller) AdvancePhysics(dt float64) {
	if c.disabled {
		return
	}
	c.tick++

	c.input.Refresh()
	accel := c.input.Acceleration()

	// Steering goes to the front pair only.
	c.steerAngle = c.input.Rotation() * c.settings.MaxSteerAngle
	for i := 0; i < frontWheelCount && i < len(c.wheels); i++ {
		if w := c.wheels[i]; w != nil {
			w.SetSteer(c.steerAngle)
		}
	}

	c.updateSpeed(dt)

	if c.camera != nil {
		c.camera.SetFieldOfView(c.fieldOfView())
	}

	c.engineFraction = c.model.EngineSpeedFraction(c.speed)

	torque := accel * c.model.Torque(c.speed)
	if accel < 0 {
		torque *= c.settings.ReverseMultiplier
	}
	c.torque = torque

	handbrake := 0.0
	if c.input.Handbrake() {
		handbrake = c.settings.MaxHandbrakeTorque
	}

	// All four wheels receive torque and brake. A detached wheel is
	// skipped with an event; the rest of the tick proceeds.
	for i, w := range c.wheels {
		if w == nil {
			c.events.Record(telemetry.NewMissingWheelEvent(c.tick, i))
			continue
		}
		w.SetTorque(torque)
		w.SetBrake(handbrake)
	}

	// Downforce grows with body speed to keep high-speed cornering
	// grip. Not aerodynamically exact.
	bodySpeed := r3.Norm(c.body.Velocity())
	c.body.AddForce(r3.Scale(-c.settings.DownforceCoefficient*bodySpeed, c.body.Up()))

	c.updateSlip()
}

// RefreshVisuals synchronizes renderable wheel state with the physical
// state. Called once per rendered frame, independent of the physics
// rate; it reads but never commands.
func (c *Controller) RefreshVisuals() {
	if c.disabled {
		return
	}
	for _, w := range c.wheels {
		if w != nil {
			w.SyncVisual()
		}
	}
}

// updateSpeed derives ground speed from the horizontal displacement
// since the previous tick. Non-positive dt skips the update entirely,
// keeping speed and reference position as a consistent pair.
func (c *Controller) updateSpeed(dt float64) {
	if dt <= 0 {
		return
	}

	pos := c.body.Position()
	cur := pos
	prev := c.prevPos
	cur.Y = 0
	prev.Y = 0

	dist := r3.Norm(r3.Sub(cur, prev))
	c.speed = roundTo(dist/dt*msToKmh, speedDecimals)
	c.prevPos = pos
}

// fieldOfView maps current speed onto the configured FOV range,
// clamped at both extremes.
func (c *Controller) fieldOfView() float64 {
	t := 0.0
	if c.settings.FOVMaxSpeed > 0 {
		t = c.speed / c.settings.FOVMaxSpeed
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return c.settings.FOVMin + (c.settings.FOVMax-c.settings.FOVMin)*t
}

// updateSlip scans wheel contact state and toggles the skid cue.
// Start/stop are idempotent: an already-playing cue never restarts.
func (c *Controller) updateSlip() {
	maxSlip := 0.0
	for _, w := range c.wheels {
		if w == nil {
			continue
		}
		contact := w.Contact()
		slip := math.Max(math.Abs(contact.ForwardSlip), math.Abs(contact.SidewaysSlip))
		if slip > maxSlip {
			maxSlip = slip
		}
	}
	c.maxSlip = maxSlip

	slipping := maxSlip >= c.settings.SlipLimit
	if slipping != c.slipping {
		if slipping {
			c.events.Record(telemetry.NewSlipStartEvent(c.tick, maxSlip))
		} else {
			c.events.Record(telemetry.NewSlipStopEvent(c.tick))
		}
	}
	c.slipping = slipping

	if c.skid == nil {
		return
	}
	if slipping {
		if !c.skid.IsPlaying() {
			c.skid.Play()
		}
	} else if c.skid.IsPlaying() {
		c.skid.Stop()
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
