package physics

import (
	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/geom"
)

// minExtent keeps R-tree rectangles non-degenerate for zero-radius colliders.
const minExtent = 1e-6

// Collider is a static sphere belonging to a flower: either its solid petal
// cup or its nectar trigger. Its geometry follows the flower whenever the
// world resynchronizes with the area.
type Collider struct {
	index  int
	tag    arena.Tag
	flower *arena.Flower
	center r3.Vec
	radius float64
	bounds rtreego.Rect
}

func newCollider(index int, tag arena.Tag, f *arena.Flower) *Collider {
	c := &Collider{index: index, tag: tag, flower: f}
	c.sync()
	return c
}

// sync re-reads the collider geometry from its flower.
func (c *Collider) sync() {
	if c.tag == arena.TagNectar {
		c.center = c.flower.CenterPosition()
		c.radius = c.flower.NectarRadius()
	} else {
		c.center = c.flower.PetalCenter()
		c.radius = c.flower.PetalRadius()
	}
	c.bounds = sphereRect(c.center, c.radius)
}

// Bounds implements rtreego.Spatial.
func (c *Collider) Bounds() rtreego.Rect {
	return c.bounds
}

func (c *Collider) Tag() arena.Tag {
	return c.tag
}

// Region returns the nectar region id of the owning flower.
func (c *Collider) Region() arena.RegionID {
	return c.flower.Region()
}

func (c *Collider) Flower() *arena.Flower {
	return c.flower
}

func (c *Collider) Center() r3.Vec {
	return c.center
}

func (c *Collider) Radius() float64 {
	return c.radius
}

// Trigger reports whether the collider reports overlaps instead of blocking.
func (c *Collider) Trigger() bool {
	return c.tag == arena.TagNectar
}

// Active reports whether the flower currently enables this region.
func (c *Collider) Active() bool {
	if c.tag == arena.TagNectar {
		return c.flower.NectarActive()
	}
	return c.flower.PetalActive()
}

// ClosestPoint returns the point of the sphere nearest to p, or p itself
// when it lies inside.
func (c *Collider) ClosestPoint(p r3.Vec) r3.Vec {
	d := r3.Sub(p, c.center)
	if r3.Norm(d) <= c.radius {
		return p
	}
	return r3.Add(c.center, r3.Scale(c.radius, geom.Unit(d)))
}

// overlaps reports whether a sphere intersects the collider.
func (c *Collider) overlaps(p r3.Vec, radius float64) bool {
	return geom.Distance(p, c.center) < radius+c.radius
}

func sphereRect(c r3.Vec, r float64) rtreego.Rect {
	r = max(r, minExtent)
	rect, _ := rtreego.NewRect(rtreego.Point{c.X - r, c.Y - r, c.Z - r}, []float64{2 * r, 2 * r, 2 * r})
	return rect
}
