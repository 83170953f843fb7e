package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
		want       [3]float32
	}{
		{"behind level", 0, 0, [3]float32{0, 1, -10}},
		{"above", 0, 90, [3]float32{0, 11, 0}},
		{"side", 90, 0, [3]float32{-10, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New([3]float32{0, 1, 0}, 10)
			cam.MaxPitch = 90
			cam.Yaw, cam.Pitch = tt.yaw, tt.pitch

			got := cam.Position()
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Fatalf("Position = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestOrbit(t *testing.T) {
	cam := New([3]float32{}, 10)

	cam.Orbit(-30, 0)
	if !near(cam.Yaw, 330) {
		t.Errorf("yaw = %v, want 330", cam.Yaw)
	}
	cam.Orbit(400, 0)
	if !near(cam.Yaw, 10) {
		t.Errorf("yaw = %v, want 10", cam.Yaw)
	}

	cam.Orbit(0, 500)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch = %v, want clamp to %v", cam.Pitch, cam.MaxPitch)
	}
	cam.Orbit(0, -500)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("pitch = %v, want clamp to %v", cam.Pitch, cam.MinPitch)
	}
}

func TestZoomBy(t *testing.T) {
	cam := New([3]float32{}, 10)

	cam.ZoomBy(2)
	if !near(cam.Distance, 5) {
		t.Errorf("distance = %v, want 5", cam.Distance)
	}
	cam.ZoomBy(1000)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %v, want min %v", cam.Distance, cam.MinDistance)
	}
	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance = %v, want max %v", cam.Distance, cam.MaxDistance)
	}
	cam.ZoomBy(-1)
	if cam.Distance != cam.MaxDistance {
		t.Error("negative factor changed distance")
	}
}

func TestFollowAndReset(t *testing.T) {
	cam := New([3]float32{0, 0, 0}, 10)

	cam.Follow([3]float32{10, 0, -4}, 0.5)
	if !near(cam.Target[0], 5) || !near(cam.Target[2], -2) {
		t.Errorf("target = %v", cam.Target)
	}

	cam.Orbit(45, 10)
	cam.ZoomBy(2)
	cam.Reset()
	if cam.Target != [3]float32{} || cam.Distance != 10 || cam.Yaw != 0 || cam.Pitch != 30 {
		t.Errorf("after reset: %+v", cam)
	}
}
