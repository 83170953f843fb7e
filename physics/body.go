// Package physics is a small reference physics oracle for one agent: a
// sphere rigid body with linear damping, static flower colliders indexed by
// an R-tree, a cylindrical arena boundary and trigger/collision events.
package physics

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

const gravityAccel = 9.81

// Body is a sphere with linear dynamics. Rotation is set kinematically by
// the controller, so there is no angular state.
type Body struct {
	pos   r3.Vec
	rot   quat.Number
	vel   r3.Vec
	force r3.Vec

	Mass    float64
	Drag    float64
	Radius  float64
	Gravity bool

	asleep bool
}

// NewBody creates a resting body at the origin.
func NewBody(mass, drag, radius float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{rot: geom.Identity, Mass: mass, Drag: drag, Radius: radius}
}

// BodyFromConfig creates a body with the configured physics parameters.
func BodyFromConfig(cfg *config.Config) *Body {
	b := NewBody(cfg.Physics.Mass, cfg.Physics.Drag, cfg.Physics.BodyRadius)
	b.Gravity = cfg.Physics.Gravity
	return b
}

func (b *Body) Position() r3.Vec      { return b.pos }
func (b *Body) Rotation() quat.Number { return b.rot }
func (b *Body) Velocity() r3.Vec      { return b.vel }
func (b *Body) Asleep() bool          { return b.asleep }

// SetPose teleports the body.
func (b *Body) SetPose(pos r3.Vec, rot quat.Number) {
	b.pos = pos
	b.rot = geom.Normalize(rot)
}

func (b *Body) SetRotation(rot quat.Number) {
	b.rot = geom.Normalize(rot)
}

// AddForce accumulates a force applied at the next Step.
func (b *Body) AddForce(f r3.Vec) {
	b.force = r3.Add(b.force, f)
}

func (b *Body) ResetVelocity() {
	b.vel = r3.Vec{}
}

// Sleep stops the body and ignores forces until WakeUp.
func (b *Body) Sleep() {
	b.asleep = true
	b.vel = r3.Vec{}
	b.force = r3.Vec{}
}

func (b *Body) WakeUp() {
	b.asleep = false
}

// integrate advances the body by dt with semi-implicit Euler.
func (b *Body) integrate(dt float64) {
	acc := r3.Scale(1/b.Mass, b.force)
	if b.Gravity {
		acc.Y -= gravityAccel
	}
	b.force = r3.Vec{}

	b.vel = r3.Add(b.vel, r3.Scale(dt, acc))
	b.vel = r3.Scale(1/(1+b.Drag*dt), b.vel)
	b.pos = r3.Add(b.pos, r3.Scale(dt, b.vel))
}

// push moves the body by depth along normal n and removes velocity into it.
func (b *Body) push(n r3.Vec, depth float64) {
	b.pos = r3.Add(b.pos, r3.Scale(depth, n))
	if vn := r3.Dot(b.vel, n); vn < 0 {
		b.vel = r3.Sub(b.vel, r3.Scale(vn, n))
	}
}
