package physics

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

// R-tree fan-out. Arenas hold tens of flowers, so the exact values matter little.
const (
	treeMinChildren = 25
	treeMaxChildren = 50
)

// Listener receives contact events. *agent.Agent implements it.
type Listener interface {
	OnTriggerEnter(c agent.TriggerContact)
	OnTriggerStay(c agent.TriggerContact)
	OnCollisionEnter(tag arena.Tag)
}

// Bounds is the arena boundary: a ground plane at Center.Y, a ceiling
// Ceiling above it and a cylindrical wall of the given Radius.
type Bounds struct {
	Center  r3.Vec
	Radius  float64
	Ceiling float64
}

// BoundsFromConfig builds the boundary around an area.
func BoundsFromConfig(cfg *config.Config, area *arena.FlowerArea) Bounds {
	return Bounds{Center: area.Center(), Radius: cfg.Derived.AreaRadius, Ceiling: cfg.Arena.CeilingHeight}
}

// boundary surfaces, used as contact keys alongside colliders
type surface uint8

const (
	surfaceGround surface = iota + 1
	surfaceCeiling
	surfaceWall
)

type contactKey struct {
	collider *Collider
	surface  surface
}

// World steps one body against the static geometry of one flower area.
type World struct {
	area   *arena.FlowerArea
	body   *Body
	bounds Bounds

	colliders  []*Collider
	tree       *rtreego.Rtree
	generation uint64

	listener    Listener
	probe       func() r3.Vec
	probeRadius float64

	solids   map[contactKey]bool
	triggers map[*Collider]bool
}

// NewWorld creates colliders for every flower of area: one solid petal
// sphere and one nectar trigger each.
func NewWorld(area *arena.FlowerArea, body *Body, bounds Bounds) *World {
	w := &World{
		area:     area,
		body:     body,
		bounds:   bounds,
		solids:   make(map[contactKey]bool),
		triggers: make(map[*Collider]bool),
	}
	for _, f := range area.Flowers() {
		w.colliders = append(w.colliders,
			newCollider(len(w.colliders), arena.TagPetal, f),
			newCollider(len(w.colliders)+1, arena.TagNectar, f),
		)
	}
	w.rebuild()
	return w
}

// SetListener sets the receiver of contact events.
func (w *World) SetListener(l Listener) {
	w.listener = l
}

// SetProbe adds a second sphere, typically the beak tip, that can touch
// triggers without being part of the solid body.
func (w *World) SetProbe(probe func() r3.Vec, radius float64) {
	w.probe = probe
	w.probeRadius = radius
}

// Body returns the simulated body.
func (w *World) Body() *Body {
	return w.body
}

// Colliders returns the flower colliders in creation order.
func (w *World) Colliders() []*Collider {
	return w.colliders
}

// rebuild refreshes collider geometry and the spatial index.
func (w *World) rebuild() {
	spatials := make([]rtreego.Spatial, len(w.colliders))
	for i, c := range w.colliders {
		c.sync()
		spatials[i] = c
	}
	w.tree = rtreego.NewTree(3, treeMinChildren, treeMaxChildren, spatials...)
	w.generation = w.area.Generation()
}

// sync rebuilds the index when plants were re-posed since the last query.
func (w *World) sync() {
	if w.area.Generation() != w.generation {
		w.rebuild()
	}
}

// nearby returns the active colliders intersecting a sphere, in creation order.
func (w *World) nearby(p r3.Vec, radius float64) []*Collider {
	hits := w.tree.SearchIntersect(sphereRect(p, radius))
	out := make([]*Collider, 0, len(hits))
	for _, h := range hits {
		c := h.(*Collider)
		if c.Active() && c.overlaps(p, radius) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// OverlapsAnything reports whether a sphere touches the boundary or any
// active flower region, triggers included.
func (w *World) OverlapsAnything(point r3.Vec, radius float64) bool {
	w.sync()
	if w.outside(point, radius) {
		return true
	}
	return len(w.nearby(point, radius)) > 0
}

func (w *World) outside(p r3.Vec, radius float64) bool {
	b := w.bounds
	if p.Y-radius < b.Center.Y || p.Y+radius > b.Center.Y+b.Ceiling {
		return true
	}
	flat := r3.Vec{X: p.X - b.Center.X, Z: p.Z - b.Center.Z}
	return r3.Norm(flat)+radius > b.Radius
}

// Step integrates the body, resolves solid contacts and reports trigger
// overlaps, in that order. A sleeping body does not move and reports nothing.
func (w *World) Step(dt float64) {
	w.sync()
	if w.body.asleep {
		return
	}

	w.body.integrate(dt)
	w.resolveSolids()
	w.detectTriggers()
}

func (w *World) resolveSolids() {
	b := w.body
	current := make(map[contactKey]bool)
	var entered []arena.Tag

	touch := func(k contactKey, tag arena.Tag) {
		current[k] = true
		if !w.solids[k] {
			entered = append(entered, tag)
		}
	}

	bc := w.bounds
	if b.pos.Y-b.Radius < bc.Center.Y {
		b.push(geom.Up, bc.Center.Y+b.Radius-b.pos.Y)
		touch(contactKey{surface: surfaceGround}, arena.TagBoundary)
	}
	if top := bc.Center.Y + bc.Ceiling; b.pos.Y+b.Radius > top {
		b.push(r3.Scale(-1, geom.Up), b.pos.Y+b.Radius-top)
		touch(contactKey{surface: surfaceCeiling}, arena.TagBoundary)
	}
	flat := r3.Vec{X: b.pos.X - bc.Center.X, Z: b.pos.Z - bc.Center.Z}
	if d := r3.Norm(flat); d+b.Radius > bc.Radius {
		inward := r3.Scale(-1, geom.Unit(flat))
		b.push(inward, d+b.Radius-bc.Radius)
		touch(contactKey{surface: surfaceWall}, arena.TagBoundary)
	}

	for _, c := range w.nearby(b.pos, b.Radius) {
		if c.Trigger() {
			continue
		}
		d := r3.Sub(b.pos, c.center)
		n := geom.Unit(d)
		if n == (r3.Vec{}) {
			n = geom.Up
		}
		b.push(n, b.Radius+c.radius-r3.Norm(d))
		touch(contactKey{collider: c}, c.tag)
	}

	w.solids = current
	if w.listener != nil {
		for _, tag := range entered {
			w.listener.OnCollisionEnter(tag)
		}
	}
}

func (w *World) detectTriggers() {
	current := make(map[*Collider]bool)
	var touching []*Collider

	add := func(cs []*Collider) {
		for _, c := range cs {
			if c.Trigger() && !current[c] {
				current[c] = true
				touching = append(touching, c)
			}
		}
	}
	add(w.nearby(w.body.pos, w.body.Radius))
	if w.probe != nil {
		add(w.nearby(w.probe(), w.probeRadius))
	}
	sort.Slice(touching, func(i, j int) bool { return touching[i].index < touching[j].index })

	previous := w.triggers
	w.triggers = current
	if w.listener == nil {
		return
	}
	for _, c := range touching {
		if previous[c] {
			w.listener.OnTriggerStay(c)
		} else {
			w.listener.OnTriggerEnter(c)
		}
	}
}
