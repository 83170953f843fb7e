// Package camera provides an orbit camera for viewing an arena.
package camera

import "github.com/chewxy/math32"

// Camera orbits a target point at a distance. Angles are in degrees:
// yaw 0 looks along +Z, positive pitch looks down from above.
type Camera struct {
	Target   [3]float32
	Yaw      float32
	Pitch    float32
	Distance float32

	// Constraints
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	home         [3]float32
	homeDistance float32
}

// New creates a camera looking at target from the given distance, slightly above.
func New(target [3]float32, distance float32) *Camera {
	return &Camera{
		Target:       target,
		Pitch:        30,
		Distance:     distance,
		MinDistance:  0.5,
		MaxDistance:  distance * 4,
		MinPitch:     -80,
		MaxPitch:     89,
		home:         target,
		homeDistance: distance,
	}
}

// Position returns the camera position in world coordinates.
func (c *Camera) Position() [3]float32 {
	yaw := c.Yaw * math32.Pi / 180
	pitch := c.Pitch * math32.Pi / 180
	back := [3]float32{
		-math32.Cos(pitch) * math32.Sin(yaw),
		math32.Sin(pitch),
		-math32.Cos(pitch) * math32.Cos(yaw),
	}
	return [3]float32{
		c.Target[0] + back[0]*c.Distance,
		c.Target[1] + back[1]*c.Distance,
		c.Target[2] + back[2]*c.Distance,
	}
}

// Orbit rotates the camera around its target. Yaw wraps, pitch is clamped.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw = mod(c.Yaw+dYaw, 360)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the distance by factor, so factors above 1 move closer.
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Follow moves the target a fraction rate of the way towards p.
func (c *Camera) Follow(p [3]float32, rate float32) {
	rate = clamp(rate, 0, 1)
	for i := range c.Target {
		c.Target[i] += (p[i] - c.Target[i]) * rate
	}
}

// Reset returns the camera to its initial target and distance.
func (c *Camera) Reset() {
	c.Target = c.home
	c.Distance = c.homeDistance
	c.Yaw = 0
	c.Pitch = 30
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := math32.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
