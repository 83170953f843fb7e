package arena

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/geom"
)

// Transform is a node in the pose hierarchy. World poses are composed from
// the parent chain on every query; arena trees are a few levels deep.
type Transform struct {
	LocalPosition r3.Vec
	LocalRotation quat.Number
	parent        *Transform
}

// NewTransform creates a transform under parent (nil for a root).
func NewTransform(parent *Transform, pos r3.Vec, rot quat.Number) *Transform {
	return &Transform{LocalPosition: pos, LocalRotation: rot, parent: parent}
}

// Parent returns the parent transform, or nil for a root.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Rotation returns the world rotation.
func (t *Transform) Rotation() quat.Number {
	if t.parent == nil {
		return t.LocalRotation
	}
	return geom.Normalize(quat.Mul(t.parent.Rotation(), t.LocalRotation))
}

// Position returns the world position.
func (t *Transform) Position() r3.Vec {
	if t.parent == nil {
		return t.LocalPosition
	}
	return r3.Add(t.parent.Position(), geom.Rotate(t.parent.Rotation(), t.LocalPosition))
}

// Up returns the world direction of the local +Y axis.
func (t *Transform) Up() r3.Vec {
	return geom.Rotate(t.Rotation(), geom.Up)
}
