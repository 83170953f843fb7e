package arena

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/geom"
)

// AreaDiameter is the nominal diameter of a flower area and the default of
// arena.diameter, which normalizes observation distances.
const AreaDiameter = 20.0

// Plant jitter applied by ResetFlowers, in degrees.
const (
	plantTilt = 5.0
	plantSpin = 180.0
)

// FlowerArea owns the flowers of one arena and maps nectar regions back to
// their flowers. The set of flowers is fixed at construction.
type FlowerArea struct {
	root       *Transform
	plants     []*Transform
	flowers    []*Flower
	index      map[RegionID]int
	generation uint64
}

// NewFlowerArea builds an area from a node tree. Nodes below the root are
// visited depth first: a plant is recorded and its children searched, a flower is
// recorded and not descended into, anything else is passed through.
func NewFlowerArea(root *Node) (*FlowerArea, error) {
	if root == nil {
		return nil, fmt.Errorf("flower area: nil layout")
	}

	a := &FlowerArea{index: make(map[RegionID]int)}
	transforms := make(map[*Node]*Transform)
	parents := make(map[*Node]*Node)

	var err error
	Walk(root, func(n *Node, path string) bool {
		if err != nil {
			return false
		}
		for _, c := range n.Children {
			parents[c] = n
		}

		t := NewTransform(transforms[parents[n]], vec(n.Position), geom.Euler(n.Rotation[0], n.Rotation[1], n.Rotation[2]))
		transforms[n] = t
		// The root is the area itself, only its descendants are classified
		if n == root {
			a.root = t
			return true
		}

		switch n.Kind {
		case NodePlant:
			a.plants = append(a.plants, t)
			return true
		case NodeFlower:
			spec := n.Flower
			if spec == nil {
				spec = &FlowerSpec{}
			}
			region := spec.Region
			if region == "" {
				region = RegionID(path + "/nectar")
			}
			if prev, dup := a.index[region]; dup {
				err = fmt.Errorf("flower area: region %q at %s already owned by %s", region, path, a.flowers[prev].Name)
				return false
			}
			a.index[region] = len(a.flowers)
			a.flowers = append(a.flowers, newFlower(path, t, spec, region))
			return false
		default:
			return true
		}
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Flowers returns the flowers in discovery order. The slice must not be modified.
func (a *FlowerArea) Flowers() []*Flower {
	return a.flowers
}

// Plants returns the plant transforms in discovery order.
func (a *FlowerArea) Plants() []*Transform {
	return a.plants
}

// Rotation returns the world rotation of the area root.
func (a *FlowerArea) Rotation() quat.Number {
	return a.root.Rotation()
}

// Center returns the world position of the area root.
func (a *FlowerArea) Center() r3.Vec {
	return a.root.Position()
}

// Generation increments every time plants are re-posed, so callers caching
// flower geometry know when to rebuild.
func (a *FlowerArea) Generation() uint64 {
	return a.generation
}

// ResetFlowers gives each plant a new random orientation and refills every flower.
func (a *FlowerArea) ResetFlowers(rng *rand.Rand) {
	for _, p := range a.plants {
		p.LocalRotation = geom.Euler(
			uniform(rng, -plantTilt, plantTilt),
			uniform(rng, -plantSpin, plantSpin),
			uniform(rng, -plantTilt, plantTilt),
		)
	}
	a.generation++

	for _, f := range a.flowers {
		f.ResetFlower()
	}
}

// FlowerOwning returns the flower that owns a nectar region. An unknown
// region means the area was built from a different layout than the
// colliders reporting contacts, so it panics.
func (a *FlowerArea) FlowerOwning(id RegionID) *Flower {
	i, ok := a.index[id]
	if !ok {
		panic(fmt.Sprintf("flower area: no flower owns nectar region %q", id))
	}
	return a.flowers[i]
}

// LookupFlower returns the flower owning a region and its index, if any.
func (a *FlowerArea) LookupFlower(id RegionID) (*Flower, int, bool) {
	i, ok := a.index[id]
	if !ok {
		return nil, -1, false
	}
	return a.flowers[i], i, true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
