// Package renderer draws a foraging arena in 3D with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// FlowerView holds the presented color of one flower. It is attached to the
// flower as its presenter, so refills and drains recolor it.
type FlowerView struct {
	Color rl.Color
}

// SetColor implements arena.Presenter.
func (v *FlowerView) SetColor(c color.RGBA) {
	v.Color = c
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
