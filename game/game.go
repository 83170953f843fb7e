// Package game hosts the interactive viewer: it steps a sim.Runner at the
// display rate and draws one of its arenas.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/camera"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/inspector"
	"github.com/pthm-cable/hummingbird/renderer"
	"github.com/pthm-cable/hummingbird/sim"
	"github.com/pthm-cable/hummingbird/telemetry"
	"github.com/pthm-cable/hummingbird/ui"
)

const (
	maxSpeed    = 20   // steps per frame
	followRate  = 0.08 // camera target catch-up per frame
	orbitRate   = 12   // degrees per second of automatic orbit
	mouseOrbit  = 0.3  // degrees per pixel of drag
	wheelZoom   = 0.1
	cameraScale = 1.6 // initial distance in arena radii
)

// Game holds the viewer state around a running simulation.
type Game struct {
	cfg    *config.Config
	runner *sim.Runner

	// Viewed arena
	viewed int
	scene  *renderer.Scene

	camera    *camera.Camera
	hud       *ui.HUD
	legend    *ui.LegendPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector
	curves    *inspector.CurvesPanel

	speed int // steps per frame

	screenWidth, screenHeight int32
}

// New starts a runner with opts and wraps it in a viewer. The raylib
// window must already be open.
func New(cfg *config.Config, opts sim.Options, stepsPerUpdate int) (*Game, error) {
	g := &Game{
		cfg:          cfg,
		hud:          ui.NewHUD(),
		overlays:     ui.NewOverlayRegistry(),
		speed:        max(1, min(stepsPerUpdate, maxSpeed)),
		screenWidth:  int32(cfg.Screen.Width),
		screenHeight: int32(cfg.Screen.Height),
	}
	g.legend = ui.NewLegendPanel(g.screenWidth-230, 10, 220)
	g.inspector = inspector.NewInspector(g.screenWidth, g.screenHeight)
	g.curves = inspector.NewCurvesPanel(g.screenWidth, g.screenHeight)

	onWindow := opts.OnWindow
	opts.OnWindow = func(s telemetry.WindowStats) {
		g.curves.Update(s)
		if onWindow != nil {
			onWindow(s)
		}
	}

	r, err := sim.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	g.runner = r
	g.view(0)
	return g, nil
}

// view switches the scene and camera to arena i.
func (g *Game) view(i int) {
	a, l, _ := g.runner.Arena(i)
	g.viewed = i
	g.scene = renderer.NewScene(g.cfg, a, l)

	c := a.Area.Center()
	target := [3]float32{float32(c.X), float32(c.Y + g.cfg.Arena.CeilingHeight/3), float32(c.Z)}
	g.camera = camera.New(target, float32(g.cfg.Derived.AreaRadius*cameraScale))
}

// Update handles input and advances the simulation. It returns the
// runner's error when an episode could not be restarted.
func (g *Game) Update() error {
	g.handleInput()

	if err := g.runner.Update(g.speed); err != nil {
		return err
	}

	g.updateCamera()
	return nil
}

func (g *Game) updateCamera() {
	if g.overlays.IsEnabled(ui.OverlayFollow) {
		a, _, _ := g.runner.Arena(g.viewed)
		p := a.World.Body().Position()
		g.camera.Follow(vec32(p), followRate)
	}
	if g.overlays.IsEnabled(ui.OverlayOrbit) {
		g.camera.Orbit(orbitRate*rl.GetFrameTime(), 0)
	}
}

// Draw renders the viewed arena and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	g.scene.Draw(g.camera, g.overlays)
	g.drawUI()

	g.runner.Perf().RecordFrame()
}

// Tick returns the runner tick.
func (g *Game) Tick() int64 {
	return g.runner.Tick()
}

// Unload closes the runner and flushes its outputs.
func (g *Game) Unload() {
	if err := g.runner.Close(); err != nil {
		slog.Error("failed to close runner", "error", err)
	}
}

func (g *Game) title() string {
	return fmt.Sprintf("Arena %d / %d", g.viewed+1, g.runner.Arenas())
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
