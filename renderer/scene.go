package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/camera"
	"github.com/pthm-cable/hummingbird/components"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
	"github.com/pthm-cable/hummingbird/ui"
)

// Scene colors.
var (
	stemColor     = rl.Color{R: 60, G: 140, B: 60, A: 255}
	nectarColor   = rl.Color{R: 255, G: 220, B: 80, A: 255}
	birdColor     = rl.Color{R: 40, G: 200, B: 170, A: 255}
	beakColor     = rl.Color{R: 30, G: 30, B: 30, A: 255}
	nearestColor  = rl.Color{R: 0, G: 255, B: 255, A: 255}
	boundaryColor = rl.Color{R: 90, G: 110, B: 140, A: 255}
	colliderColor = rl.Color{R: 255, G: 255, B: 255, A: 90}
	skyColor      = rl.Color{R: 18, G: 22, B: 32, A: 255}
)

const (
	sphereRings  = 8
	sphereSlices = 12
	wallSlices   = 48
	upAxisLength = 0.15
)

// Scene draws one arena: flowers, plants, the agent and debug overlays.
type Scene struct {
	arena   *components.Arena
	learner *components.Learner
	views   []*FlowerView
	bounds  struct {
		radius  float32
		ceiling float32
	}
}

// NewScene attaches a FlowerView to every flower of the arena.
func NewScene(cfg *config.Config, a *components.Arena, l *components.Learner) *Scene {
	s := &Scene{arena: a, learner: l}
	s.bounds.radius = float32(cfg.Derived.AreaRadius)
	s.bounds.ceiling = float32(cfg.Arena.CeilingHeight)

	for _, f := range a.Area.Flowers() {
		v := &FlowerView{}
		f.SetPresenter(v)
		s.views = append(s.views, v)
	}
	return s
}

// Camera converts the orbit camera to a raylib camera.
func Camera(c *camera.Camera) rl.Camera3D {
	pos := c.Position()
	return rl.Camera3D{
		Position:   rl.NewVector3(pos[0], pos[1], pos[2]),
		Target:     rl.NewVector3(c.Target[0], c.Target[1], c.Target[2]),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       55,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the arena from cam with the enabled overlays.
func (s *Scene) Draw(cam *camera.Camera, overlays *ui.OverlayRegistry) {
	rl.ClearBackground(skyColor)
	rl.BeginMode3D(Camera(cam))
	defer rl.EndMode3D()

	center := vec3(s.arena.Area.Center())

	if overlays.IsEnabled(ui.OverlayGrid) {
		rl.DrawGrid(int32(2*s.bounds.radius), 1)
	}
	if overlays.IsEnabled(ui.OverlayBoundary) {
		rl.DrawCylinderWires(center, s.bounds.radius, s.bounds.radius, s.bounds.ceiling, wallSlices, boundaryColor)
	}

	for i, f := range s.arena.Area.Flowers() {
		s.drawFlower(f, s.views[i], overlays)
	}
	if overlays.IsEnabled(ui.OverlayColliders) {
		for _, c := range s.arena.World.Colliders() {
			if c.Active() {
				rl.DrawSphereWires(vec3(c.Center()), float32(c.Radius()), sphereRings, sphereSlices, colliderColor)
			}
		}
	}

	s.drawAgent(overlays)
}

func (s *Scene) drawFlower(f *arena.Flower, v *FlowerView, overlays *ui.OverlayRegistry) {
	anchor := f.AnchorPosition()
	ground := r3.Vec{X: anchor.X, Y: s.arena.Area.Center().Y, Z: anchor.Z}
	rl.DrawLine3D(vec3(ground), vec3(anchor), stemColor)

	rl.DrawSphere(vec3(f.PetalCenter()), float32(f.PetalRadius()), v.Color)

	if overlays.IsEnabled(ui.OverlayNectar) && f.HasNectar() {
		rl.DrawSphere(vec3(f.CenterPosition()), float32(f.NectarRadius()), nectarColor)
	}
	if overlays.IsEnabled(ui.OverlayUpAxes) {
		tip := r3.Add(f.CenterPosition(), r3.Scale(upAxisLength, f.UpAxis()))
		rl.DrawLine3D(vec3(f.CenterPosition()), vec3(tip), rl.White)
	}
}

func (s *Scene) drawAgent(overlays *ui.OverlayRegistry) {
	ag := s.learner.Agent
	body := s.arena.World.Body()

	pos := body.Position()
	rl.DrawSphere(vec3(pos), float32(body.Radius), birdColor)

	// Beak from the body surface to the tip
	fwd := ag.Forward()
	root := r3.Add(pos, r3.Scale(body.Radius, fwd))
	tip := ag.BeakTip()
	if r3.Norm(r3.Sub(tip, pos)) <= body.Radius {
		tip = r3.Add(root, r3.Scale(body.Radius, fwd))
	}
	rl.DrawLine3D(vec3(root), vec3(tip), beakColor)

	if overlays.IsEnabled(ui.OverlayBeakProbe) {
		rl.DrawSphereWires(vec3(ag.BeakTip()), float32(ag.Params().BeakTipRadius), sphereRings, sphereSlices, beakColor)
	}
	if overlays.IsEnabled(ui.OverlayNearestLine) {
		if from, to, ok := ag.NearestFlowerLine(); ok {
			rl.DrawLine3D(vec3(from), vec3(to), nearestColor)
		}
	}

	up := r3.Add(pos, r3.Scale(2*body.Radius, geom.Rotate(body.Rotation(), geom.Up)))
	rl.DrawLine3D(vec3(pos), vec3(up), birdColor)
}
