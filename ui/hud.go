package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD shows about the viewed arena.
type HUDData struct {
	Title       string
	Mode        string
	Tick        int64
	Episode     int
	Step        int
	MaxSteps    int // 0 for unbounded
	Nectar      float64
	Reward      float64
	FlowersLeft int
	Flowers     int
	Sips        int
	Boundary    int
	NearestDist float64 // -1 when no flower is tracked
	Arenas      int
	Speed       int
	FPS         int32
	TicksPerSec float64
	Paused      bool
	Frozen      bool
	CanFreeze   bool
}

// HUDActions reports which buttons were clicked this frame.
type HUDActions struct {
	TogglePause  bool
	ToggleFreeze bool
	ResetCamera  bool
}

// HUD renders the episode panel and its buttons.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 300}
}

// Draw renders the HUD and returns button clicks.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight

	height := lh*14 + pad*3 + 28
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	status := "Running"
	statusColor := rl.Green
	switch {
	case data.Paused:
		status, statusColor = "PAUSED", rl.Yellow
	case data.Frozen:
		status, statusColor = "FROZEN", rl.SkyBlue
	}
	rl.DrawText(fmt.Sprintf("%s | %s", data.Mode, status), x, y, r.Theme.FontSize, statusColor)
	y += lh + 4

	steps := fmt.Sprintf("%d", data.Step)
	if data.MaxSteps > 0 {
		steps = fmt.Sprintf("%d / %d", data.Step, data.MaxSteps)
	}
	nearest := "none"
	if data.NearestDist >= 0 {
		nearest = fmt.Sprintf("%.2f m", data.NearestDist)
	}

	y = r.DrawLabelValue(x, y, "Episode", fmt.Sprintf("%d", data.Episode))
	y = r.DrawLabelValue(x, y, "Step", steps)
	y = r.DrawLabelValue(x, y, "Nectar", fmt.Sprintf("%.3f", data.Nectar))
	y = r.DrawLabelValue(x, y, "Reward", fmt.Sprintf("%.3f", data.Reward))
	y = r.DrawLabelValue(x, y, "Sips", fmt.Sprintf("%d", data.Sips))
	y = r.DrawLabelValue(x, y, "Wall hits", fmt.Sprintf("%d", data.Boundary))
	y = r.DrawLabelValue(x, y, "Nearest", nearest)

	var left float32
	if data.Flowers > 0 {
		left = float32(data.FlowersLeft) / float32(data.Flowers)
	}
	y = r.DrawBar(x, y, fmt.Sprintf("Flowers %d/%d", data.FlowersLeft, data.Flowers), left, h.width-pad*2)

	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx | %d arenas", data.Speed, data.Arenas))
	y = r.DrawLabelValue(x, y, "Perf", fmt.Sprintf("%d fps | %.0f ticks/s", data.FPS, data.TicksPerSec))
	y += 6

	var act HUDActions
	bw := float32(h.width-pad*4) / 3
	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	act.TogglePause = gui.Button(rl.NewRectangle(float32(x), float32(y), bw, 24), pauseLabel)

	if data.CanFreeze {
		freezeLabel := "Freeze"
		if data.Frozen {
			freezeLabel = "Unfreeze"
		}
		act.ToggleFreeze = gui.Button(rl.NewRectangle(float32(x)+bw+float32(pad), float32(y), bw, 24), freezeLabel)
	}
	act.ResetCamera = gui.Button(rl.NewRectangle(float32(x)+2*(bw+float32(pad)), float32(y), bw, 24), "Camera")

	return act
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
