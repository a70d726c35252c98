package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/drive"
)

// VehicleConfig sizes a four-wheeled chassis. Wheel loads are the
// static weight split evenly across the axles.
type VehicleConfig struct {
	Body        BodyConfig
	WheelRadius float64
	WheelGrip   float64
	TrackWidth  float64 // lateral wheel separation, m
}

// Vehicle is a chassis with four wheels mounted front-left,
// front-right, rear-left, rear-right. The wheel ordering matches what
// a drive controller expects: the first pair steers.
type Vehicle struct {
	body   *RigidBody
	wheels [4]*Wheel
}

// NewVehicle builds a chassis at pos facing heading.
func NewVehicle(cfg VehicleConfig, pos r3.Vec, heading float64) *Vehicle {
	body := NewRigidBody(cfg.Body, pos, heading)

	const g = 9.81
	load := cfg.Body.Mass * g / 4

	halfBase := cfg.Body.Wheelbase / 2
	halfTrack := cfg.TrackWidth / 2
	offsets := [4]r3.Vec{
		{X: halfBase, Z: -halfTrack},  // front left
		{X: halfBase, Z: halfTrack},   // front right
		{X: -halfBase, Z: -halfTrack}, // rear left
		{X: -halfBase, Z: halfTrack},  // rear right
	}

	v := &Vehicle{body: body}
	for i, off := range offsets {
		v.wheels[i] = NewWheel(WheelConfig{
			Radius: cfg.WheelRadius,
			Grip:   cfg.WheelGrip,
			Load:   load,
			Offset: off,
		}, body)
	}
	return v
}

// Body returns the chassis rigid body.
func (v *Vehicle) Body() *RigidBody { return v.body }

// Wheels returns the four wheels in controller order.
func (v *Vehicle) Wheels() [4]*Wheel { return v.wheels }

// Actuators adapts the wheels to the interface slice a drive
// controller consumes.
func (v *Vehicle) Actuators() []drive.WheelActuator {
	out := make([]drive.WheelActuator, len(v.wheels))
	for i, w := range v.wheels {
		out[i] = w
	}
	return out
}

// Step advances the vehicle by dt seconds: each wheel pushes on the
// body, then the body integrates once.
func (v *Vehicle) Step(dt float64) {
	for _, w := range v.wheels {
		w.Step(dt)
	}
	v.body.Integrate(dt)
}
