package drive

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/telemetry"
	"github.com/pthm-cable/trackdrive/transmission"
)

type fakeBody struct {
	pos    r3.Vec
	vel    r3.Vec
	up     r3.Vec
	com    r3.Vec
	comSet int
	forces []r3.Vec
}

func (b *fakeBody) Position() r3.Vec      { return b.pos }
func (b *fakeBody) Velocity() r3.Vec      { return b.vel }
func (b *fakeBody) Up() r3.Vec            { return b.up }
func (b *fakeBody) AddForce(f r3.Vec)     { b.forces = append(b.forces, f) }
func (b *fakeBody) SetCenterOfMass(p r3.Vec) {
	b.com = p
	b.comSet++
}

type fakeInput struct {
	accel     float64
	rot       float64
	handbrake bool
	refreshes int
}

func (i *fakeInput) Refresh()              { i.refreshes++ }
func (i *fakeInput) Acceleration() float64 { return i.accel }
func (i *fakeInput) Rotation() float64     { return i.rot }
func (i *fakeInput) Handbrake() bool       { return i.handbrake }

type fakeWheel struct {
	torque    float64
	brake     float64
	steer     float64
	torqueSet int
	steerSet  int
	contact   GroundContact
	syncs     int
}

func (w *fakeWheel) SetTorque(nm float64) {
	w.torque = nm
	w.torqueSet++
}
func (w *fakeWheel) SetBrake(nm float64)  { w.brake = nm }
func (w *fakeWheel) SetSteer(rad float64) {
	w.steer = rad
	w.steerSet++
}
func (w *fakeWheel) Contact() GroundContact { return w.contact }
func (w *fakeWheel) SyncVisual()            { w.syncs++ }

type fakeCamera struct {
	fov float64
	set int
}

func (c *fakeCamera) SetFieldOfView(deg float64) {
	c.fov = deg
	c.set++
}

type fakeCue struct {
	playing bool
	plays   int
	stops   int
}

func (c *fakeCue) IsPlaying() bool { return c.playing }
func (c *fakeCue) Play() {
	c.playing = true
	c.plays++
}
func (c *fakeCue) Stop() {
	c.playing = false
	c.stops++
}

type captureRecorder struct {
	events []telemetry.Event
}

func (r *captureRecorder) Record(e telemetry.Event) {
	r.events = append(r.events, e)
}

func (r *captureRecorder) count(t telemetry.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func testSettings() Settings {
	return Settings{
		MaxSteerAngle:        0.44,
		MaxHandbrakeTorque:   1000,
		DownforceCoefficient: 100,
		SlipLimit:            0.4,
		ReverseMultiplier:    0.4,
		FOVMin:               60,
		FOVMax:               75,
		FOVMaxSpeed:          120,
		CenterOfMass:         r3.Vec{Y: -0.4},
	}
}

// flatModel returns a model whose torque is a constant 200 across the
// whole speed range, which keeps command arithmetic easy to assert.
func flatModel() *transmission.Model {
	return transmission.NewModel([]transmission.Curve{
		{Keys: []transmission.Key{{Time: 0, Value: 200}, {Time: 300, Value: 200}}},
	}, &captureRecorder{})
}

type rig struct {
	body   *fakeBody
	input  *fakeInput
	wheels []*fakeWheel
	rec    *captureRecorder
	cue    *fakeCue
	cam    *fakeCamera
	ctl    *Controller
}

func newRig() *rig {
	r := &rig{
		body:  &fakeBody{up: r3.Vec{Y: 1}},
		input: &fakeInput{},
		rec:   &captureRecorder{},
		cue:   &fakeCue{},
		cam:   &fakeCamera{},
	}
	actuators := make([]WheelActuator, 4)
	for i := 0; i < 4; i++ {
		w := &fakeWheel{}
		r.wheels = append(r.wheels, w)
		actuators[i] = w
	}
	r.ctl = New(r.body, r.input, actuators, flatModel(), testSettings(), Options{
		Camera: r.cam,
		Skid:   r.cue,
		Events: r.rec,
	})
	return r
}

func TestNewSetsCenterOfMassOnce(t *testing.T) {
	r := newRig()

	if r.ctl.Disabled() {
		t.Fatal("fully wired controller should be active")
	}
	if r.body.comSet != 1 {
		t.Errorf("expected center of mass set once, got %d", r.body.comSet)
	}
	if r.body.com.Y != -0.4 {
		t.Errorf("expected center of mass offset -0.4, got %f", r.body.com.Y)
	}
}

func TestSteeringGoesToFrontPairOnly(t *testing.T) {
	r := newRig()
	r.input.rot = 0.5

	r.ctl.AdvancePhysics(1.0 / 60.0)

	want := 0.5 * 0.44
	for i := 0; i < 2; i++ {
		if math.Abs(r.wheels[i].steer-want) > 1e-9 {
			t.Errorf("front wheel %d steer = %f, want %f", i, r.wheels[i].steer, want)
		}
	}
	for i := 2; i < 4; i++ {
		if r.wheels[i].steerSet != 0 {
			t.Errorf("rear wheel %d should not receive steering", i)
		}
	}
}

func TestSpeedFromDisplacement(t *testing.T) {
	r := newRig()

	// Controller captured the origin at construction. Move 10 units
	// along X (with a vertical component that must be ignored) over
	// half a second: 20 m/s * 3.6 = 72.0 km/h.
	r.body.pos = r3.Vec{X: 10, Y: 5, Z: 0}
	r.ctl.AdvancePhysics(0.5)

	if r.ctl.Speed() != 72.0 {
		t.Errorf("expected speed 72.0, got %f", r.ctl.Speed())
	}
}

func TestSpeedRoundsToOneDecimal(t *testing.T) {
	r := newRig()

	// 1.0 / 0.7 * 3.6 = 5.1428... -> 5.1
	r.body.pos = r3.Vec{X: 1}
	r.ctl.AdvancePhysics(0.7)

	if r.ctl.Speed() != 5.1 {
		t.Errorf("expected speed 5.1, got %f", r.ctl.Speed())
	}
}

func TestZeroElapsedTimeLeavesSpeedUnchanged(t *testing.T) {
	r := newRig()

	r.body.pos = r3.Vec{X: 10}
	r.ctl.AdvancePhysics(0.5)
	if r.ctl.Speed() != 72.0 {
		t.Fatalf("setup: expected speed 72.0, got %f", r.ctl.Speed())
	}

	// Further movement with dt <= 0 must not touch the speed.
	r.body.pos = r3.Vec{X: 500}
	r.ctl.AdvancePhysics(0)
	if r.ctl.Speed() != 72.0 {
		t.Errorf("dt=0 changed speed to %f", r.ctl.Speed())
	}

	r.ctl.AdvancePhysics(-0.1)
	if r.ctl.Speed() != 72.0 {
		t.Errorf("dt<0 changed speed to %f", r.ctl.Speed())
	}
}

func TestReverseMultiplier(t *testing.T) {
	r := newRig()

	// Flat curve torque is 200. Forward: 0.5 * 200 = 100.
	r.input.accel = 0.5
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if math.Abs(r.wheels[3].torque-100) > 1e-9 {
		t.Errorf("forward torque = %f, want 100", r.wheels[3].torque)
	}

	// Reverse: -0.5 * 200 * 0.4 = -40.
	r.input.accel = -0.5
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if math.Abs(r.wheels[3].torque-(-40)) > 1e-9 {
		t.Errorf("reverse torque = %f, want -40", r.wheels[3].torque)
	}
}

func TestHandbrakeTorque(t *testing.T) {
	r := newRig()

	r.ctl.AdvancePhysics(1.0 / 60.0)
	if r.wheels[0].brake != 0 {
		t.Errorf("expected no brake torque, got %f", r.wheels[0].brake)
	}

	r.input.handbrake = true
	r.ctl.AdvancePhysics(1.0 / 60.0)
	for i, w := range r.wheels {
		if w.brake != 1000 {
			t.Errorf("wheel %d brake = %f, want 1000", i, w.brake)
		}
	}
}

func TestCameraFOVClamps(t *testing.T) {
	r := newRig()

	// Standing still: first extreme.
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if r.cam.fov != 60 {
		t.Errorf("FOV at rest = %f, want 60", r.cam.fov)
	}

	// Far beyond FOVMaxSpeed: second extreme.
	r.body.pos = r3.Vec{X: 1000}
	r.ctl.AdvancePhysics(0.5)
	if r.cam.fov != 75 {
		t.Errorf("FOV above max speed = %f, want 75", r.cam.fov)
	}
}

func TestOptionalCameraAbsent(t *testing.T) {
	body := &fakeBody{up: r3.Vec{Y: 1}}
	wheels := []WheelActuator{&fakeWheel{}, &fakeWheel{}, &fakeWheel{}, &fakeWheel{}}
	ctl := New(body, &fakeInput{}, wheels, flatModel(), testSettings(), Options{
		Events: &captureRecorder{},
	})

	if ctl.Disabled() {
		t.Fatal("camera is optional; controller should be active")
	}
	ctl.AdvancePhysics(1.0 / 60.0) // must not panic
}

func TestDownforceOpposesUpAxis(t *testing.T) {
	r := newRig()
	r.body.vel = r3.Vec{X: 3, Z: 4} // magnitude 5

	r.ctl.AdvancePhysics(1.0 / 60.0)

	if len(r.body.forces) != 1 {
		t.Fatalf("expected one applied force, got %d", len(r.body.forces))
	}
	f := r.body.forces[0]
	// coefficient 100 * speed 5 along -up
	if math.Abs(f.Y-(-500)) > 1e-9 || f.X != 0 || f.Z != 0 {
		t.Errorf("downforce = %+v, want (0, -500, 0)", f)
	}
}

func TestSlipAudioToggleIdempotent(t *testing.T) {
	r := newRig()

	// Below limit and not playing: Stop must not be invoked.
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if r.cue.stops != 0 {
		t.Errorf("stop invoked while already silent: %d", r.cue.stops)
	}

	// Cross the limit on one wheel's sideways slip.
	r.wheels[2].contact = GroundContact{SidewaysSlip: -0.5}
	r.ctl.AdvancePhysics(1.0 / 60.0)
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if r.cue.plays != 1 {
		t.Errorf("play invoked %d times while slipping, want 1", r.cue.plays)
	}

	// Regain grip: one stop, then silence stays silent.
	r.wheels[2].contact = GroundContact{}
	r.ctl.AdvancePhysics(1.0 / 60.0)
	r.ctl.AdvancePhysics(1.0 / 60.0)
	if r.cue.stops != 1 {
		t.Errorf("stop invoked %d times after grip returned, want 1", r.cue.stops)
	}
}

func TestSlipUsesMaxOfBothAxes(t *testing.T) {
	r := newRig()

	// Forward slip above limit, sideways below: still slipping.
	r.wheels[0].contact = GroundContact{ForwardSlip: 0.45, SidewaysSlip: 0.1}
	r.ctl.AdvancePhysics(1.0 / 60.0)

	if !r.ctl.Slipping() {
		t.Error("expected slipping with forward slip above limit")
	}
	if math.Abs(r.ctl.MaxSlip()-0.45) > 1e-9 {
		t.Errorf("MaxSlip = %f, want 0.45", r.ctl.MaxSlip())
	}
}

func TestMissingWheelTolerated(t *testing.T) {
	body := &fakeBody{up: r3.Vec{Y: 1}}
	w0, w1, w3 := &fakeWheel{}, &fakeWheel{}, &fakeWheel{}
	rec := &captureRecorder{}
	ctl := New(body, &fakeInput{accel: 1}, []WheelActuator{w0, w1, nil, w3}, flatModel(), testSettings(), Options{Events: rec})

	ctl.AdvancePhysics(1.0 / 60.0)

	// The remaining three wheels received torque.
	for i, w := range []*fakeWheel{w0, w1, w3} {
		if w.torqueSet != 1 {
			t.Errorf("wheel %d torque sets = %d, want 1", i, w.torqueSet)
		}
	}

	if rec.count(telemetry.EventMissingWheel) != 1 {
		t.Errorf("expected one missing_wheel event, got %d", rec.count(telemetry.EventMissingWheel))
	}
	for _, e := range rec.events {
		if e.Type == telemetry.EventMissingWheel && e.Wheel != 2 {
			t.Errorf("missing wheel index = %d, want 2", e.Wheel)
		}
	}
}

func TestMissingRequiredCollaboratorDisables(t *testing.T) {
	body := &fakeBody{up: r3.Vec{Y: 1}}
	w := &fakeWheel{}
	wheels := []WheelActuator{w, w, w, w}
	rec := &captureRecorder{}

	ctl := New(body, nil, wheels, flatModel(), testSettings(), Options{Events: rec})

	if !ctl.Disabled() {
		t.Fatal("controller with nil input source must be disabled")
	}
	if rec.count(telemetry.EventMissingDependency) != 1 {
		t.Errorf("expected one missing_dependency event, got %d", rec.count(telemetry.EventMissingDependency))
	}

	// Disabled controller never touches body or wheels.
	ctl.AdvancePhysics(1.0 / 60.0)
	ctl.RefreshVisuals()
	if len(body.forces) != 0 || body.comSet != 0 {
		t.Error("disabled controller mutated the body")
	}
	if w.torqueSet != 0 || w.syncs != 0 {
		t.Error("disabled controller commanded a wheel")
	}
}

func TestDisabledCausesAreAllReported(t *testing.T) {
	rec := &captureRecorder{}
	ctl := New(nil, nil, nil, nil, testSettings(), Options{Events: rec})

	if !ctl.Disabled() {
		t.Fatal("expected disabled controller")
	}
	if got := rec.count(telemetry.EventMissingDependency); got != 4 {
		t.Errorf("expected 4 missing_dependency events, got %d", got)
	}
}

func TestRefreshVisualsSyncsEveryWheel(t *testing.T) {
	r := newRig()

	r.ctl.RefreshVisuals()
	r.ctl.RefreshVisuals()

	for i, w := range r.wheels {
		if w.syncs != 2 {
			t.Errorf("wheel %d syncs = %d, want 2", i, w.syncs)
		}
	}
}

func TestInputRefreshedEachTick(t *testing.T) {
	r := newRig()

	r.ctl.AdvancePhysics(1.0 / 60.0)
	r.ctl.AdvancePhysics(1.0 / 60.0)
	r.ctl.AdvancePhysics(1.0 / 60.0)

	if r.input.refreshes != 3 {
		t.Errorf("input refreshed %d times, want 3", r.input.refreshes)
	}
}
