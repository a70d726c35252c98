// Package components defines ECS components for the simulation.
package components

// Position represents an entity's world position on the ground plane.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity.
type Velocity struct {
	X, Y float32
}

// Rotation represents an entity's heading.
type Rotation struct {
	Heading float32 // radians
}

// Vehicle bundles identity and display state for one chassis.
type Vehicle struct {
	ID     uint32
	Player bool // receives keyboard input instead of the autopilot

	// Per-tick readouts mirrored from the drive controller for
	// rendering and the HUD.
	SpeedKmh   float32
	EngineFrac float32
	Gear       int8
	Slipping   bool
	Handbrake  bool
}

// Chassis holds render dimensions for a vehicle body.
type Chassis struct {
	Length float32 // m, along heading
	Width  float32 // m, across heading
	Hue    float32 // base color hue, degrees
}

// WheelPose carries the render-side wheel state synchronized from the
// physics wheels once per frame.
type WheelPose struct {
	Steer [4]float32 // radians, front pair only in practice
	Spin  [4]float32 // surface speed, m/s
}
