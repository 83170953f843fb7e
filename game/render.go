package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hummingbird/geom"
	"github.com/pthm-cable/hummingbird/inspector"
	"github.com/pthm-cable/hummingbird/ui"
)

const controls = "SPACE pause | F freeze | , . speed | TAB arena | H legend | I agent | P curves | RMB/arrows orbit | wheel zoom | HOME camera"

// drawUI renders the HUD, legend and control line and applies HUD clicks.
func (g *Game) drawUI() {
	act := g.hud.Draw(g.hudData())
	if act.TogglePause {
		g.runner.SetPaused(!g.runner.Paused())
	}
	if act.ToggleFreeze {
		g.toggleFreeze()
	}
	if act.ResetCamera {
		g.camera.Reset()
	}

	g.legend.Draw(g.overlays)
	g.curves.Draw()
	g.inspector.Draw(inspector.NewAgentView(g.runner.Arena(g.viewed)))
	g.hud.DrawControls(g.screenHeight, controls)
}

func (g *Game) hudData() ui.HUDData {
	a, l, ep := g.runner.Arena(g.viewed)
	ag := l.Agent
	stats := ag.Stats()

	nearest := -1.0
	if f, _ := ag.Nearest(); f != nil {
		nearest = geom.Distance(a.World.Body().Position(), f.CenterPosition())
	}

	data := ui.HUDData{
		Title:       g.title(),
		Mode:        ag.Mode().String(),
		Tick:        g.runner.Tick(),
		Episode:     ep.Number,
		Step:        ep.Step,
		MaxSteps:    ag.MaxStep(),
		Nectar:      ag.NectarObtained(),
		Reward:      ep.Reward,
		FlowersLeft: a.FlowersWithNectar(),
		Flowers:     len(a.Area.Flowers()),
		Sips:        stats.Sips,
		Boundary:    stats.BoundaryHits,
		NearestDist: nearest,
		Arenas:      g.runner.Arenas(),
		Speed:       g.speed,
		FPS:         rl.GetFPS(),
		TicksPerSec: g.runner.Perf().Stats().TicksPerSecond,
		Paused:      g.runner.Paused(),
	}
	if in, err := ag.Interactive(); err == nil {
		data.CanFreeze = true
		data.Frozen = in.Frozen()
	}
	return data
}
