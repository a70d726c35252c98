package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/drive"
)

// WheelConfig sizes one wheel.
type WheelConfig struct {
	Radius float64 // m
	Grip   float64 // friction coefficient against the ground
	Load   float64 // static normal load carried by this wheel, N
	Offset r3.Vec  // mount point in body space, X forward
}

// Wheel converts torque and brake commands into forces on its parent
// body and reports the slip it experienced doing so. It is the
// actuator a drive controller commands four of.
type Wheel struct {
	cfg  WheelConfig
	body *RigidBody

	torque float64
	brake  float64
	steer  float64

	spin    float64 // surface speed implied by drivetrain, m/s
	contact drive.GroundContact

	// Render-side copies, written only by SyncVisual.
	visualSpin  float64
	visualSteer float64
}

// NewWheel mounts a wheel on body at the configured offset.
func NewWheel(cfg WheelConfig, body *RigidBody) *Wheel {
	if cfg.Radius <= 0 {
		cfg.Radius = 0.4
	}
	return &Wheel{cfg: cfg, body: body}
}

func (w *Wheel) SetTorque(nm float64) { w.torque = nm }
func (w *Wheel) SetBrake(nm float64)  { w.brake = nm }
func (w *Wheel) SetSteer(rad float64) { w.steer = rad }

// Contact returns the slip state from the most recent Step.
func (w *Wheel) Contact() drive.GroundContact { return w.contact }

// SyncVisual copies physical state into the render-side fields. Safe
// to call at a different rate than Step.
func (w *Wheel) SyncVisual() {
	w.visualSpin = w.spin
	w.visualSteer = w.steer
}

// VisualSpin returns the last synchronized surface speed, m/s.
func (w *Wheel) VisualSpin() float64 { return w.visualSpin }

// VisualSteer returns the last synchronized steering angle, radians.
func (w *Wheel) VisualSteer() float64 { return w.visualSteer }

// Steer returns the commanded steering angle, radians.
func (w *Wheel) Steer() float64 { return w.steer }

// Offset returns the mount point in body space.
func (w *Wheel) Offset() r3.Vec { return w.cfg.Offset }

// Step applies this tick's commands as forces on the parent body.
// The drive force is the commanded torque over the wheel radius,
// clamped to what the contact patch can transmit (load times grip).
// Whatever the clamp discards shows up as forward slip.
func (w *Wheel) Step(dt float64) {
	if w.body == nil || dt <= 0 {
		return
	}

	limit := w.cfg.Load * w.cfg.Grip

	driveForce := w.torque / w.cfg.Radius
	clamped := clampAbs(driveForce, limit)
	w.contact.ForwardSlip = 0
	if limit > 0 {
		w.contact.ForwardSlip = (driveForce - clamped) / limit
	}
	w.spin = w.body.ForwardSpeed() + w.contact.ForwardSlip*w.cfg.Radius

	// Wheel-space axes: steering rotates the contact patch relative
	// to the body heading.
	yaw := w.body.Heading() + w.steer
	forward := r3.Vec{X: math.Cos(yaw), Z: math.Sin(yaw)}
	right := r3.Vec{X: -math.Sin(yaw), Z: math.Cos(yaw)}

	force := r3.Scale(clamped, forward)

	// Braking opposes the body's motion along the wheel's forward
	// axis, never past a stop.
	if w.brake > 0 {
		along := r3.Dot(w.body.Velocity(), forward)
		brakeForce := clampAbs(-along*w.cfg.Load, w.brake/w.cfg.Radius)
		force = r3.Add(force, r3.Scale(brakeForce, forward))
	}

	// Lateral slip resists sideways sliding of the contact patch,
	// clamped like the longitudinal channel.
	lateral := r3.Dot(w.body.Velocity(), right)
	slipAngle := 0.0
	fwdSpeed := math.Abs(w.body.ForwardSpeed())
	if fwdSpeed > 0.5 {
		slipAngle = math.Atan2(lateral, fwdSpeed)
	}
	w.contact.SidewaysSlip = slipAngle
	cornering := clampAbs(-5*slipAngle*w.cfg.Load, limit)
	force = r3.Add(force, r3.Scale(cornering, right))

	w.body.AddForce(force)

	// Forces applied off the mass center rotate the body.
	arm := w.cfg.Offset.X - w.body.CenterOfMass().X
	bodyRight := w.body.Right()
	w.body.AddYawMoment(arm * r3.Dot(force, bodyRight))
}

func clampAbs(v, limit float64) float64 {
	if limit < 0 {
		limit = 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
