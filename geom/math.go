// Package geom provides the 3D vector and rotation helpers shared by the
// arena, agent and physics packages.
//
// Conventions: +Y is world up, +Z is forward, +X is right. Euler angles are in
// degrees and applied yaw (Y), then pitch (X), then roll (Z). Positive pitch
// tips the forward axis down, positive yaw turns it toward +X.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Basis vectors.
var (
	Up      = r3.Vec{X: 0, Y: 1, Z: 0}
	Forward = r3.Vec{X: 0, Y: 0, Z: 1}
	Right   = r3.Vec{X: 1, Y: 0, Z: 0}
)

// Identity is the identity rotation.
var Identity = quat.Number{Real: 1}

const degToRad = math.Pi / 180

// axisAngle returns the rotation of angle degrees about a unit axis.
func axisAngle(axis r3.Vec, degrees float64) quat.Number {
	half := degrees * degToRad / 2
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// Euler returns the rotation for the given pitch, yaw and roll in degrees.
func Euler(pitch, yaw, roll float64) quat.Number {
	q := quat.Mul(axisAngle(Up, yaw), axisAngle(Right, pitch))
	return quat.Mul(q, axisAngle(Forward, roll))
}

// Rotate applies rotation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Normalize returns q scaled to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Unit returns v scaled to unit length, or the zero vector when v is zero.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-12 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// PitchYaw returns the pitch and yaw of q in degrees, each in [0, 360).
// Roll does not affect the forward axis, so it is not reported.
func PitchYaw(q quat.Number) (pitch, yaw float64) {
	f := Rotate(q, Forward)
	pitch = math.Asin(Clamp(-f.Y, -1, 1)) / degToRad
	yaw = math.Atan2(f.X, f.Z) / degToRad
	return wrap360(pitch), wrap360(yaw)
}

// LookRotation returns the rotation whose forward axis points along forward
// and whose up axis is as close to up as possible. When forward is parallel
// to up the world right axis is used to complete the basis.
func LookRotation(forward, up r3.Vec) quat.Number {
	f := Unit(forward)
	if f == (r3.Vec{}) {
		return Identity
	}
	r := Unit(r3.Cross(up, f))
	if r == (r3.Vec{}) {
		r = Unit(r3.Cross(Forward, f))
		if r == (r3.Vec{}) {
			r = Right
		}
	}
	u := r3.Cross(f, r)
	return fromBasis(r, u, f)
}

// fromBasis converts an orthonormal basis (columns right, up, forward) to a quaternion.
func fromBasis(r, u, f r3.Vec) quat.Number {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	trace := m00 + m11 + m22
	var q quat.Number
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	return Normalize(q)
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// wrap360 wraps an angle in degrees to [0, 360).
func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
