// Package drive implements the per-tick drive control loop for a
// wheeled vehicle: it turns normalized driver intent into steering,
// torque, and brake commands on wheel actuators, derives kinematic
// state from body motion, and drives speed-coupled feedback effects
// (camera field of view, tire-skid audio).
//
// The package owns no physics. The rigid body, the wheel model, input
// reading, audio playback, and the camera are collaborators supplied
// behind the interfaces below.
package drive

import "gonum.org/v1/gonum/spatial/r3"

// GroundContact exposes a wheel's tire slip state as reported by the
// wheel model. Slip values are signed ratios.
type GroundContact struct {
	ForwardSlip  float64
	SidewaysSlip float64
}

// Body is the rigid body the controller commands. Position and
// velocity are world-space; Up is the body's up axis.
type Body interface {
	Position() r3.Vec
	Velocity() r3.Vec
	Up() r3.Vec
	AddForce(r3.Vec)
	SetCenterOfMass(r3.Vec)
}

// InputSource provides normalized driver intent. The controller treats
// the values as already clamped; it performs no normalization itself.
type InputSource interface {
	// Refresh pulls the latest state from the underlying device.
	Refresh()
	// Acceleration is throttle intent in [-1,1]; sign selects
	// forward or reverse.
	Acceleration() float64
	// Rotation is steering intent in [-1,1].
	Rotation() float64
	// Handbrake reports whether the handbrake is engaged.
	Handbrake() bool
}

// WheelActuator accepts drive commands and reports contact state.
// SyncVisual copies the wheel's physical pose into its renderable
// representation; it must not mutate physics state.
type WheelActuator interface {
	SetTorque(nm float64)
	SetBrake(nm float64)
	SetSteer(rad float64)
	Contact() GroundContact
	SyncVisual()
}

// CameraSink receives the speed-coupled field of view. Optional.
type CameraSink interface {
	SetFieldOfView(deg float64)
}

// AudioCue is a loopable audio effect such as the tire-skid cue.
type AudioCue interface {
	IsPlaying() bool
	Play()
	Stop()
}

// Settings holds the drive constants. They are set once at
// construction and never reconfigured by the controller.
type Settings struct {
	MaxSteerAngle        float64 // radians at full steering input
	MaxHandbrakeTorque   float64 // brake torque when handbrake engaged
	DownforceCoefficient float64 // downforce per unit of body speed
	SlipLimit            float64 // slip magnitude that counts as skidding
	ReverseMultiplier    float64 // <1, reverse gearing is weaker

	// Camera feedback: field of view interpolates between Min and Max
	// as speed approaches FOVMaxSpeed.
	FOVMin      float64
	FOVMax      float64
	FOVMaxSpeed float64

	CenterOfMass r3.Vec // pushed to the body once at construction
}
