package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hummingbird/agent"
)

// ObservationLabels names the observation channels.
var ObservationLabels = [agent.ObservationSize]string{
	"Rot x", "Rot y", "Rot z", "Rot w",
	"Dir x", "Dir y", "Dir z",
	"Front", "Aligned", "Dist",
}

// ActionLabels names the action channels.
var ActionLabels = [agent.ActionSize]string{"Move x", "Move y", "Move z", "Pitch", "Yaw"}

// Diagram colors
var (
	ColorNodeBorder = rl.Color{R: 100, G: 100, B: 100, A: 255}
	ColorEdge       = rl.Color{R: 90, G: 90, B: 110, A: 60}
)

// DrawPolicyDiagram draws the observation channels feeding the action
// channels, each node colored by its current value.
func DrawPolicyDiagram(x, y, width, height int32, obs agent.Observation, act agent.Action) {
	nodeRadius := float32(6)
	inputX := float32(x) + float32(width)/3
	outputX := float32(x) + 2*float32(width)/3

	inputs := column(inputX, float32(y), float32(height), agent.ObservationSize)
	outputs := column(outputX, float32(y), float32(height), agent.ActionSize)

	for _, in := range inputs {
		for _, out := range outputs {
			rl.DrawLineEx(in, out, 1, ColorEdge)
		}
	}

	for i, p := range inputs {
		drawNode(p, nodeRadius, obs[i])
		w := float32(rl.MeasureText(ObservationLabels[i], 10))
		rl.DrawText(ObservationLabels[i], int32(p.X-nodeRadius-w-4), int32(p.Y)-5, 10, ColorLabelDim)
	}
	for i, p := range outputs {
		drawNode(p, nodeRadius+2, act[i])
		rl.DrawText(ActionLabels[i], int32(p.X+nodeRadius+6), int32(p.Y)-5, 10, ColorLabelDim)
	}
}

// column spaces n nodes evenly over a vertical span.
func column(x, top, height float32, n int) []rl.Vector2 {
	spacing := (height - 20) / float32(n)
	pts := make([]rl.Vector2, n)
	for i := range pts {
		pts[i] = rl.NewVector2(x, top+10+spacing*(float32(i)+0.5))
	}
	return pts
}

func drawNode(pos rl.Vector2, radius, value float32) {
	rl.DrawCircleV(pos, radius, valueColor(value))
	rl.DrawCircleLinesV(pos, radius, ColorNodeBorder)
}

// valueColor shades negative values blue and positive values red.
func valueColor(v float32) rl.Color {
	t := min(max(v, -1), 1)
	if t >= 0 {
		return rl.Color{R: uint8(60 + t*195), G: uint8(60 - t*30), B: uint8(60 - t*30), A: 255}
	}
	t = -t
	return rl.Color{R: uint8(60 - t*30), G: uint8(60 - t*30), B: uint8(60 + t*195), A: 255}
}
