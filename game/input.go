package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.runner.SetPaused(!g.runner.Paused())
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.toggleFreeze()
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < maxSpeed {
		g.speed++
	}

	// Cycle the viewed arena
	if rl.IsKeyPressed(rl.KeyTab) && g.runner.Arenas() > 1 {
		g.view((g.viewed + 1) % g.runner.Arenas())
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.legend.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyI) {
		g.inspector.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.curves.Toggle()
	}
	g.inspector.HandleInput()
	g.curves.HandleInput()
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()
}

// toggleFreeze freezes or releases the viewed agent. Training agents
// cannot be frozen.
func (g *Game) toggleFreeze() {
	_, l, _ := g.runner.Arena(g.viewed)
	in, err := l.Agent.Interactive()
	if err != nil {
		slog.Debug("freeze ignored", "error", err)
		return
	}
	if in.Frozen() {
		in.Unfreeze()
	} else {
		in.Freeze()
	}
}

// handleResize keeps the legend anchored to the right edge.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.legend.SetPosition(w-230, 10)
	g.inspector.Resize(w, h)
	g.curves.Resize(w, h)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Orbit(-d.X*mouseOrbit, d.Y*mouseOrbit)
	}

	// Arrow keys orbit as well
	step := 90 * rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(step, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -step)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*wheelZoom)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
