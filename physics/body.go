// Package physics provides the minimal rigid-body and wheel dynamics
// backing a drive.Controller. The model is a planar bicycle-style
// approximation lifted into 3D vectors: bodies live on the ground
// plane (Y up), forces accumulate over a tick and integrate once.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BodyConfig sizes a rigid body.
type BodyConfig struct {
	Mass              float64 // kg
	DragCoefficient   float64 // 0.5 * Cd * A * rho, lumped
	RollingResistance float64 // linear term, typically 30x drag
	Wheelbase         float64 // front-to-rear axle distance, m
}

// RigidBody is a ground vehicle chassis. It satisfies the body
// contract a drive controller expects: queryable pose, force
// accumulation, and an adjustable center of mass.
type RigidBody struct {
	cfg BodyConfig

	pos     r3.Vec
	vel     r3.Vec
	heading float64 // yaw around +Y, radians
	yawRate float64

	com    r3.Vec
	forces r3.Vec
	yawAcc float64
}

// NewRigidBody places a body at pos facing along heading.
func NewRigidBody(cfg BodyConfig, pos r3.Vec, heading float64) *RigidBody {
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	return &RigidBody{cfg: cfg, pos: pos, heading: heading}
}

func (b *RigidBody) Position() r3.Vec { return b.pos }
func (b *RigidBody) Velocity() r3.Vec { return b.vel }

// Up returns the body's up axis. Bodies never roll or pitch, so this
// is the world Y axis.
func (b *RigidBody) Up() r3.Vec { return r3.Vec{Y: 1} }

// Heading returns the yaw angle in radians.
func (b *RigidBody) Heading() float64 { return b.heading }

// Forward returns the unit heading vector on the ground plane.
func (b *RigidBody) Forward() r3.Vec {
	return r3.Vec{X: math.Cos(b.heading), Z: math.Sin(b.heading)}
}

// Right returns the unit lateral vector on the ground plane.
func (b *RigidBody) Right() r3.Vec {
	return r3.Vec{X: -math.Sin(b.heading), Z: math.Cos(b.heading)}
}

// AddForce accumulates a world-space force for the current tick.
func (b *RigidBody) AddForce(f r3.Vec) {
	b.forces = r3.Add(b.forces, f)
}

// AddYawMoment accumulates a torque around the up axis.
func (b *RigidBody) AddYawMoment(nm float64) {
	b.yawAcc += nm
}

// SetCenterOfMass offsets the mass center from the body origin. A low
// center keeps the simulated chassis from feeling top-heavy; the
// offset currently only shifts where wheel loads are referenced.
func (b *RigidBody) SetCenterOfMass(p r3.Vec) { b.com = p }

// CenterOfMass returns the configured mass center offset.
func (b *RigidBody) CenterOfMass() r3.Vec { return b.com }

// Mass returns the chassis mass in kg.
func (b *RigidBody) Mass() float64 { return b.cfg.Mass }

// Speed returns the ground-plane speed in m/s.
func (b *RigidBody) Speed() float64 {
	v := b.vel
	v.Y = 0
	return r3.Norm(v)
}

// ForwardSpeed returns the velocity component along the heading, m/s.
// Negative while reversing.
func (b *RigidBody) ForwardSpeed() float64 {
	return r3.Dot(b.vel, b.Forward())
}

// Integrate advances the body by dt seconds, applying the accumulated
// forces plus drag and rolling resistance, then clears the
// accumulators.
//
//	Flong = Ftraction - Cdrag*v*|v| - Crr*v
func (b *RigidBody) Integrate(dt float64) {
	if dt <= 0 {
		b.forces = r3.Vec{}
		b.yawAcc = 0
		return
	}

	speed := b.Speed()
	drag := r3.Scale(-b.cfg.DragCoefficient*speed, b.vel)
	rolling := r3.Scale(-b.cfg.RollingResistance, b.vel)
	total := r3.Add(b.forces, r3.Add(drag, rolling))

	acc := r3.Scale(1/b.cfg.Mass, total)
	b.vel = r3.Add(b.vel, r3.Scale(dt, acc))
	b.vel.Y = 0

	// Yaw inertia approximated from mass and wheelbase.
	inertia := b.cfg.Mass * b.cfg.Wheelbase * b.cfg.Wheelbase / 12
	if inertia > 0 {
		b.yawRate += b.yawAcc / inertia * dt
	}
	// Yaw damping keeps the body from spinning indefinitely.
	b.yawRate *= 1 - math.Min(1, 4*dt)
	b.heading += b.yawRate * dt

	b.pos = r3.Add(b.pos, r3.Scale(dt, b.vel))

	b.forces = r3.Vec{}
	b.yawAcc = 0
}

// Teleport moves the body without imparting velocity.
func (b *RigidBody) Teleport(pos r3.Vec, heading float64) {
	b.pos = pos
	b.heading = heading
	b.vel = r3.Vec{}
	b.yawRate = 0
}
