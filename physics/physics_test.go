package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/drive"
)

var (
	_ drive.Body          = (*RigidBody)(nil)
	_ drive.WheelActuator = (*Wheel)(nil)
)

const dt = 1.0 / 60.0

func testVehicle() *Vehicle {
	return NewVehicle(VehicleConfig{
		Body: BodyConfig{
			Mass:              1200,
			DragCoefficient:   0.4257,
			RollingResistance: 12.8,
			Wheelbase:         2.6,
		},
		WheelRadius: 0.34,
		WheelGrip:   1.0,
		TrackWidth:  1.6,
	}, r3.Vec{}, 0)
}

func TestRigidBodyIntegratesForce(t *testing.T) {
	b := NewRigidBody(BodyConfig{Mass: 100}, r3.Vec{}, 0)

	b.AddForce(r3.Vec{X: 1000})
	b.Integrate(1.0)

	if math.Abs(b.Velocity().X-10) > 1e-9 {
		t.Errorf("velocity.X = %f, want 10", b.Velocity().X)
	}
	if b.Position().X <= 0 {
		t.Errorf("position.X = %f, want > 0", b.Position().X)
	}
}

func TestRigidBodyForceAccumulatorClears(t *testing.T) {
	b := NewRigidBody(BodyConfig{Mass: 100}, r3.Vec{}, 0)

	b.AddForce(r3.Vec{X: 1000})
	b.Integrate(1.0)
	v1 := b.Velocity().X
	b.Integrate(1.0)

	if b.Velocity().X > v1 {
		t.Errorf("velocity grew after forces cleared: %f > %f", b.Velocity().X, v1)
	}
}

func TestRigidBodyDragOpposesMotion(t *testing.T) {
	b := NewRigidBody(BodyConfig{Mass: 100, DragCoefficient: 0.5, RollingResistance: 15}, r3.Vec{}, 0)

	b.AddForce(r3.Vec{X: 5000})
	b.Integrate(1.0)
	v1 := b.Speed()
	b.Integrate(1.0)
	v2 := b.Speed()

	if v2 >= v1 {
		t.Errorf("coasting body did not slow: %f >= %f", v2, v1)
	}
	if v2 < 0 {
		t.Errorf("drag reversed the body: %f", v2)
	}
}

func TestRigidBodyHeadingAxes(t *testing.T) {
	b := NewRigidBody(BodyConfig{Mass: 100}, r3.Vec{}, math.Pi/2)

	f := b.Forward()
	if math.Abs(f.X) > 1e-9 || math.Abs(f.Z-1) > 1e-9 {
		t.Errorf("forward at pi/2 = %+v, want (0, 0, 1)", f)
	}
	if math.Abs(r3.Dot(b.Forward(), b.Right())) > 1e-9 {
		t.Error("forward and right are not orthogonal")
	}
}

func TestWheelDriveForceClampedByGrip(t *testing.T) {
	body := NewRigidBody(BodyConfig{Mass: 1000}, r3.Vec{}, 0)
	w := NewWheel(WheelConfig{Radius: 0.5, Grip: 1.0, Load: 2500}, body)

	// 10000 Nm over 0.5 m radius asks for 20000 N; the patch can
	// transmit 2500 N.
	w.SetTorque(10000)
	w.Step(dt)
	body.Integrate(dt)

	maxDV := 2500.0 / 1000.0 * dt
	if body.Velocity().X > maxDV+1e-9 {
		t.Errorf("velocity gain %f exceeds grip-limited %f", body.Velocity().X, maxDV)
	}
	if w.Contact().ForwardSlip <= 0 {
		t.Errorf("expected forward slip under excess torque, got %f", w.Contact().ForwardSlip)
	}
}

func TestWheelNoSlipUnderModestTorque(t *testing.T) {
	body := NewRigidBody(BodyConfig{Mass: 1000}, r3.Vec{}, 0)
	w := NewWheel(WheelConfig{Radius: 0.5, Grip: 1.0, Load: 2500}, body)

	w.SetTorque(500) // 1000 N, well under the 2500 N limit
	w.Step(dt)

	if w.Contact().ForwardSlip != 0 {
		t.Errorf("expected no slip, got %f", w.Contact().ForwardSlip)
	}
}

func TestWheelSyncVisualDecoupled(t *testing.T) {
	body := NewRigidBody(BodyConfig{Mass: 1000}, r3.Vec{}, 0)
	w := NewWheel(WheelConfig{Radius: 0.5, Grip: 1.0, Load: 2500}, body)

	w.SetSteer(0.3)
	if w.VisualSteer() != 0 {
		t.Error("visual steer updated before sync")
	}
	w.SyncVisual()
	if w.VisualSteer() != 0.3 {
		t.Errorf("visual steer = %f, want 0.3", w.VisualSteer())
	}
}

func TestVehicleAcceleratesForward(t *testing.T) {
	v := testVehicle()

	for _, w := range v.Wheels() {
		w.SetTorque(300)
	}
	for i := 0; i < 60; i++ {
		v.Step(dt)
	}

	if v.Body().ForwardSpeed() <= 0 {
		t.Errorf("forward speed = %f after a second of torque", v.Body().ForwardSpeed())
	}
	if math.Abs(v.Body().Velocity().Z) > math.Abs(v.Body().Velocity().X) {
		t.Error("straight-line run drifted sideways")
	}
}

func TestVehicleBrakingSlows(t *testing.T) {
	v := testVehicle()

	for _, w := range v.Wheels() {
		w.SetTorque(300)
	}
	for i := 0; i < 120; i++ {
		v.Step(dt)
	}
	cruise := v.Body().Speed()

	for _, w := range v.Wheels() {
		w.SetTorque(0)
		w.SetBrake(1000)
	}
	for i := 0; i < 60; i++ {
		v.Step(dt)
	}

	if v.Body().Speed() >= cruise {
		t.Errorf("braking did not slow the vehicle: %f >= %f", v.Body().Speed(), cruise)
	}
}

func TestVehicleSteeringTurns(t *testing.T) {
	v := testVehicle()

	for _, w := range v.Wheels() {
		w.SetTorque(300)
	}
	steered := v.Wheels()
	for i := 0; i < 120; i++ {
		steered[0].SetSteer(0.3)
		steered[1].SetSteer(0.3)
		v.Step(dt)
	}

	if v.Body().Heading() == 0 {
		t.Error("steered vehicle never changed heading")
	}
}

func TestVehicleActuatorOrder(t *testing.T) {
	v := testVehicle()

	acts := v.Actuators()
	if len(acts) != 4 {
		t.Fatalf("expected 4 actuators, got %d", len(acts))
	}
	wheels := v.Wheels()
	for i := range wheels {
		if acts[i] != drive.WheelActuator(wheels[i]) {
			t.Errorf("actuator %d does not match wheel %d", i, i)
		}
	}
	// Front pair mounts ahead of the mass center.
	if wheels[0].Offset().X <= 0 || wheels[1].Offset().X <= 0 {
		t.Error("first wheel pair is not the front axle")
	}
	if wheels[2].Offset().X >= 0 || wheels[3].Offset().X >= 0 {
		t.Error("second wheel pair is not the rear axle")
	}
}
