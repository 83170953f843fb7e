package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func vecNear(a, b r3.Vec, tol float64) bool {
	return Distance(a, b) <= tol
}

func TestEulerAxes(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float64
		wantFwd          r3.Vec
	}{
		{"identity", 0, 0, 0, Forward},
		{"yaw right", 0, 90, 0, Right},
		{"yaw left", 0, -90, 0, r3.Vec{X: -1}},
		{"pitch down", 90, 0, 0, r3.Vec{Y: -1}},
		{"pitch up", -90, 0, 0, Up},
		{"roll keeps forward", 0, 0, 45, Forward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(Euler(tt.pitch, tt.yaw, tt.roll), Forward)
			if !vecNear(got, tt.wantFwd, 1e-9) {
				t.Errorf("forward = %v, want %v", got, tt.wantFwd)
			}
		})
	}
}

func TestPitchYawRoundTrip(t *testing.T) {
	tests := []struct {
		pitch, yaw         float64
		wantPitch, wantYaw float64
	}{
		{0, 0, 0, 0},
		{30, 45, 30, 45},
		{-30, -45, 330, 315},
		{80, 179, 80, 179},
		{-60, -180, 300, 180},
	}

	for _, tt := range tests {
		p, y := PitchYaw(Euler(tt.pitch, tt.yaw, 0))
		if math.Abs(p-tt.wantPitch) > 1e-6 {
			t.Errorf("Euler(%v,%v): pitch = %v, want %v", tt.pitch, tt.yaw, p, tt.wantPitch)
		}
		if math.Abs(y-tt.wantYaw) > 1e-6 && math.Abs(math.Abs(y-tt.wantYaw)-360) > 1e-6 {
			t.Errorf("Euler(%v,%v): yaw = %v, want %v", tt.pitch, tt.yaw, y, tt.wantYaw)
		}
	}
}

func TestLookRotation(t *testing.T) {
	dirs := []r3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 0.3, Y: -0.5, Z: 0.8},
		{X: -1, Y: 1, Z: -1},
		{X: 0, Y: -1, Z: 0}, // parallel to up
	}

	for _, d := range dirs {
		q := LookRotation(d, Up)
		got := Rotate(q, Forward)
		if !vecNear(got, Unit(d), 1e-9) {
			t.Errorf("LookRotation(%v) forward = %v, want %v", d, got, Unit(d))
		}
		if math.Abs(math.Sqrt(q.Real*q.Real+q.Imag*q.Imag+q.Jmag*q.Jmag+q.Kmag*q.Kmag)-1) > eps {
			t.Errorf("LookRotation(%v) not unit: %v", d, q)
		}
	}

	// With world up and a non-vertical forward, the right axis stays horizontal
	q := LookRotation(r3.Vec{X: 0.3, Y: -0.5, Z: 0.8}, Up)
	if r := Rotate(q, Right); math.Abs(r.Y) > eps {
		t.Errorf("right axis has vertical component %v", r.Y)
	}
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		cur, target, max, want float64
	}{
		{0, 1, 0.04, 0.04},
		{0, -1, 0.04, -0.04},
		{0.99, 1, 0.04, 1},
		{0.5, 0.5, 0.04, 0.5},
		{-1, 1, 0.5, -0.5},
	}
	for _, tt := range tests {
		if got := MoveTowards(tt.cur, tt.target, tt.max); math.Abs(got-tt.want) > eps {
			t.Errorf("MoveTowards(%v, %v, %v) = %v, want %v", tt.cur, tt.target, tt.max, got, tt.want)
		}
	}
}

func TestUnitZero(t *testing.T) {
	if got := Unit(r3.Vec{}); got != (r3.Vec{}) {
		t.Errorf("Unit(zero) = %v, want zero", got)
	}
}
