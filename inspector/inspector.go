// Package inspector shows the state of the viewed agent and the training
// curves of a run.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/components"
	"github.com/pthm-cable/hummingbird/geom"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
	diagramSize  = 200
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorLabelDim    = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// AgentView is the inspected agent state. Tags pick the widgets.
type AgentView struct {
	Mode        string      `inspect:"label"`
	Episode     int         `inspect:"label"`
	Step        int         `inspect:"label"`
	Reward      float64     `inspect:"label,fmt:%.3f"`
	Nectar      float64     `inspect:"label,fmt:%.3f"`
	Sips        int         `inspect:"label"`
	Nearest     int         `inspect:"label,name:Nearest flower"`
	Speed       float64     `inspect:"bar,max:5,name:Speed m/s"`
	Pitch       float64     `inspect:"angle"`
	Yaw         float64     `inspect:"angle"`
	Frozen      bool        `inspect:"bool"`
	Stats       agent.Stats `inspect:"skip"`

	Observation agent.Observation `inspect:"bar,min:-1,max:1,labels:qx;qy;qz;qw;dx;dy;dz;fr;al;d"`
	Action      agent.Action      `inspect:"bar,min:-1,max:1,labels:mx;my;mz;p;y"`
}

// NewAgentView snapshots the learner of an arena.
func NewAgentView(a *components.Arena, l *components.Learner, ep *components.Episode) AgentView {
	ag := l.Agent
	body := a.World.Body()
	pitch, yaw := geom.PitchYaw(body.Rotation())
	_, nearest := ag.Nearest()

	v := AgentView{
		Mode:        ag.Mode().String(),
		Episode:     ep.Number,
		Step:        ep.Step,
		Reward:      ep.Reward,
		Nectar:      ag.NectarObtained(),
		Stats:       ag.Stats(),
		Nearest:     nearest,
		Speed:       r3.Norm(body.Velocity()),
		Pitch:       pitch,
		Yaw:         yaw,
		Observation: ag.CollectObservations(),
		Action:      l.Action,
	}
	v.Sips = v.Stats.Sips
	if in, err := ag.Interactive(); err == nil {
		v.Frozen = in.Frozen()
	}
	return v
}

// Inspector draws the agent panel for the viewed arena.
type Inspector struct {
	visible      bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a hidden inspector anchored to the right edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Toggle shows or hides the panel and returns the new visibility.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool {
	return ins.visible
}

// HandleInput hides the panel on Escape or a click on its close button.
func (ins *Inspector) HandleInput() {
	if !ins.visible {
		return
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.visible = false
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	closeBtn := rl.NewRectangle(float32(ins.panelX+PanelWidth-25), float32(ins.panelY+5), 20, 20)
	if rl.CheckCollisionPointRec(m, closeBtn) {
		ins.visible = false
	}
}

// Draw renders the panel for view.
func (ins *Inspector) Draw(view AgentView) {
	if !ins.visible {
		return
	}

	fields := ExtractFields(&view)
	panelHeight := ins.panelHeight(fields)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.NewRectangle(float32(ins.panelX), float32(ins.panelY), PanelWidth, float32(panelHeight)),
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("AGENT", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	for _, f := range fields {
		y += DrawField(x, y, f)
	}

	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	ins.drawSectionHeader(x, y, "POLICY")
	y += 20
	s := view.Stats
	rl.DrawText(fmt.Sprintf("emptied %d | wall hits %d | spawn tries %d", s.FlowersEmptied, s.BoundaryHits, s.SpawnAttempts), x, y, 12, ColorLabelDim)
	y += 16

	DrawPolicyDiagram(x, y, PanelWidth-2*PanelPadding, diagramSize, view.Observation, view.Action)
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

func (ins *Inspector) panelHeight(fields []Field) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, f := range fields {
		h += FieldHeight(f)
	}
	h += 12      // separator
	h += 20 + 16 // policy header and stats line
	h += diagramSize
	return h + PanelPadding
}
