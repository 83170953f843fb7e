package policy

import "github.com/chewxy/math32"

const radToDeg = 180 / math32.Pi

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampUnit clamps a float32 value to the [-1, 1] action range.
func clampUnit(v float32) float32 {
	return clampFloat(v, -1, 1)
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	for angle > math32.Pi {
		angle -= 2 * math32.Pi
	}
	for angle < -math32.Pi {
		angle += 2 * math32.Pi
	}
	return angle
}

type vec3 struct{ x, y, z float32 }

func (v vec3) scale(s float32) vec3 { return vec3{v.x * s, v.y * s, v.z * s} }
func (v vec3) add(o vec3) vec3      { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }

// heading returns the pitch (positive nose down) and yaw of a direction, in radians.
func heading(v vec3) (pitch, yaw float32) {
	n := math32.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
	if n == 0 {
		return 0, 0
	}
	return math32.Asin(clampUnit(-v.y / n)), math32.Atan2(v.x, v.z)
}

// forwardOf returns the forward axis of the orientation quaternion (x, y, z, w).
func forwardOf(x, y, z, w float32) vec3 {
	return vec3{
		x: 2 * (x*z + w*y),
		y: 2 * (y*z - w*x),
		z: 1 - 2*(x*x+y*y),
	}
}
