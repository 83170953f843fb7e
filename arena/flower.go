package arena

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/geom"
)

// RegionID identifies a nectar region. Each region belongs to exactly one flower.
type RegionID string

// Tag classifies a collision region.
type Tag uint8

const (
	TagNone     Tag = iota
	TagNectar       // Nectar trigger of a flower
	TagPetal        // Solid petal body of a flower
	TagBoundary     // Arena walls, ground and ceiling
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagNectar:
		return "nectar"
	case TagPetal:
		return "petal"
	case TagBoundary:
		return "boundary"
	default:
		return "none"
	}
}

// Default presentation colors.
var (
	DefaultFullColor  = color.RGBA{R: 255, G: 0, B: 77, A: 255}
	DefaultEmptyColor = color.RGBA{R: 128, G: 0, B: 255, A: 255}
)

// Presenter receives flower color changes. Implementations must not call
// back into the flower.
type Presenter interface {
	SetColor(c color.RGBA)
}

// Flower holds a depletable amount of nectar in [0, 1] and the two collision
// regions that are enabled only while it has nectar.
type Flower struct {
	Name       string
	FullColor  color.RGBA
	EmptyColor color.RGBA

	nectar       float64
	petalActive  bool
	nectarActive bool
	color        color.RGBA

	region       RegionID
	body         *Transform // Flower anchor (petals)
	nectarRegion *Transform // Child of body
	petalRadius  float64
	nectarRadius float64
	presenter    Presenter
}

func newFlower(name string, body *Transform, spec *FlowerSpec, region RegionID) *Flower {
	f := &Flower{
		Name:         name,
		FullColor:    toRGBA(spec.FullColor, DefaultFullColor),
		EmptyColor:   toRGBA(spec.EmptyColor, DefaultEmptyColor),
		region:       region,
		body:         body,
		nectarRegion: NewTransform(body, vec(spec.NectarOffset), geom.Identity),
		petalRadius:  spec.PetalRadius,
		nectarRadius: spec.NectarRadius,
	}
	f.ResetFlower()
	return f
}

// NectarAmount returns the remaining nectar.
func (f *Flower) NectarAmount() float64 {
	return f.nectar
}

// HasNectar reports whether any nectar remains.
func (f *Flower) HasNectar() bool {
	return f.nectar > 0
}

// Feed removes amount from the flower and returns how much was actually
// available, clamped to [0, NectarAmount]. When the flower runs dry both
// collision regions are disabled.
//
// The full requested amount is subtracted before the floor at zero is
// applied, so an over-sized request still leaves the flower at exactly 0.
func (f *Flower) Feed(amount float64) float64 {
	taken := geom.Clamp(amount, 0, f.nectar)

	f.nectar -= amount

	if f.nectar <= 0 {
		f.nectar = 0
		f.petalActive = false
		f.nectarActive = false
		f.present(f.EmptyColor)
	}

	return taken
}

// ResetFlower refills the flower and re-enables both regions.
func (f *Flower) ResetFlower() {
	f.nectar = 1
	f.petalActive = true
	f.nectarActive = true
	f.present(f.FullColor)
}

// SetPresenter attaches a presentation collaborator and sends it the current color.
func (f *Flower) SetPresenter(p Presenter) {
	f.presenter = p
	if p != nil {
		p.SetColor(f.color)
	}
}

func (f *Flower) present(c color.RGBA) {
	f.color = c
	if f.presenter != nil {
		f.presenter.SetColor(c)
	}
}

// Color returns the current presentation color.
func (f *Flower) Color() color.RGBA {
	return f.color
}

// PetalActive reports whether the solid petal region is enabled.
func (f *Flower) PetalActive() bool {
	return f.petalActive
}

// NectarActive reports whether the nectar trigger region is enabled.
func (f *Flower) NectarActive() bool {
	return f.nectarActive
}

// Region returns the id of the flower's nectar region.
func (f *Flower) Region() RegionID {
	return f.region
}

// UpAxis returns the outward direction of the nectar opening.
func (f *Flower) UpAxis() r3.Vec {
	return f.nectarRegion.Up()
}

// CenterPosition returns the world position of the nectar region.
func (f *Flower) CenterPosition() r3.Vec {
	return f.nectarRegion.Position()
}

// AnchorPosition returns the world position of the flower body.
func (f *Flower) AnchorPosition() r3.Vec {
	return f.body.Position()
}

// PetalCenter returns the center of the solid petal region. The petal cup
// sits just below the anchor so the nectar opening stays reachable.
func (f *Flower) PetalCenter() r3.Vec {
	return r3.Sub(f.body.Position(), r3.Scale(f.petalRadius, f.body.Up()))
}

// PetalRadius returns the radius of the solid petal region.
func (f *Flower) PetalRadius() float64 {
	return f.petalRadius
}

// NectarRadius returns the radius of the nectar trigger region.
func (f *Flower) NectarRadius() float64 {
	return f.nectarRadius
}

func toRGBA(c [4]uint8, fallback color.RGBA) color.RGBA {
	if c == ([4]uint8{}) {
		return fallback
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
