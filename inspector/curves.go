package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hummingbird/telemetry"
)

// curveHistorySize is the number of stats windows kept for the graph.
const curveHistorySize = 120

// Series indices
const (
	seriesReward = iota
	seriesNectar
	seriesSips
	seriesBoundary
	seriesFlowers
	numSeries
)

// Curves panel colors
var (
	colorCurvesTitle = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorCurvesBg    = rl.Color{R: 20, G: 20, B: 30, A: 230}
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

var (
	seriesNames  = [numSeries]string{"Reward", "Nectar", "Sips/ep", "Walls/ep", "Flowers"}
	seriesColors = [numSeries]rl.Color{
		{R: 255, G: 220, B: 80, A: 255},
		{R: 80, G: 180, B: 80, A: 255},
		{R: 100, G: 149, B: 237, A: 255},
		{R: 255, G: 100, B: 80, A: 255},
		{R: 200, G: 120, B: 220, A: 255},
	}
)

// CurvesPanel plots windowed training statistics along the bottom of the screen.
type CurvesPanel struct {
	history *History
	last    telemetry.WindowStats

	visible       bool
	seriesVisible [numSeries]bool

	panelX, panelY int32
	panelWidth     int32
	panelHeight    int32
}

// NewCurvesPanel creates a hidden panel sized to the screen.
func NewCurvesPanel(screenWidth, screenHeight int32) *CurvesPanel {
	p := &CurvesPanel{
		history:       NewHistory(numSeries, curveHistorySize),
		seriesVisible: [numSeries]bool{true, true, false, false, false},
		panelX:        10,
		panelHeight:   200,
	}
	p.Resize(screenWidth, screenHeight)
	return p
}

// Resize keeps the panel along the bottom edge, clear of the inspector.
func (p *CurvesPanel) Resize(screenWidth, screenHeight int32) {
	p.panelWidth = max(screenWidth-PanelWidth-40, 400)
	p.panelY = screenHeight - p.panelHeight - 40
}

// Toggle shows or hides the panel and returns the new visibility.
func (p *CurvesPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Update records a closed stats window. Windows without finished episodes
// repeat the last episode statistics so the lines stay continuous.
func (p *CurvesPanel) Update(stats telemetry.WindowStats) {
	if stats.Episodes > 0 || p.history.Len() == 0 {
		p.last = stats
	}
	p.history.Push(
		p.last.RewardMean,
		p.last.NectarMean,
		p.last.SipsPerEpisode,
		p.last.BoundaryPerEpisode,
		stats.FlowersWithNectar,
	)
}

// HandleInput toggles series by clicking their legend entries.
func (p *CurvesPanel) HandleInput() {
	if !p.visible || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	legendX, legendY := p.panelX+10, p.panelY+p.panelHeight-24
	for i := 0; i < numSeries; i++ {
		item := rl.NewRectangle(float32(legendX+int32(i)*90), float32(legendY), 85, 18)
		if rl.CheckCollisionPointRec(m, item) {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return
		}
	}
}

// Draw renders the panel.
func (p *CurvesPanel) Draw() {
	if !p.visible {
		return
	}

	rl.DrawRectangle(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorCurvesBg)
	rl.DrawRectangleLines(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorGraphBorder)
	rl.DrawText("TRAINING", p.panelX+10, p.panelY+6, 14, colorCurvesTitle)

	if p.history.Len() == 0 {
		rl.DrawText("Waiting for the first stats window...", p.panelX+100, p.panelY+80, 14, ColorTextDim)
		return
	}

	summaryWidth := int32(160)
	p.drawSummary(p.panelX+10, p.panelY+28)
	p.drawGraph(p.panelX+summaryWidth+20, p.panelY+24, p.panelWidth-summaryWidth-40, p.panelHeight-54)
	p.drawLegend(p.panelX+10, p.panelY+p.panelHeight-24)
}

// drawSummary lists the latest window on the left.
func (p *CurvesPanel) drawSummary(x, y int32) {
	s := p.last
	lines := []string{
		fmt.Sprintf("Episodes  %d", s.Episodes),
		fmt.Sprintf("Reward    %.3f +- %.3f", s.RewardMean, s.RewardStd),
		fmt.Sprintf("Nectar    %.3f", s.NectarMean),
		fmt.Sprintf("  p10/p90 %.2f / %.2f", s.NectarP10, s.NectarP90),
		fmt.Sprintf("Near spawn %.0f%%", s.NearSpawnFrac*100),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, 11, ColorText)
		y += 16
	}
}

// drawGraph plots every visible series on a shared scale.
func (p *CurvesPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		rl.DrawLine(x, y+h*i/4, x+w, y+h*i/4, colorGraphGrid)
	}
	for i := int32(1); i < 6; i++ {
		rl.DrawLine(x+w*i/6, y, x+w*i/6, y+h, colorGraphGrid)
	}

	if p.history.Len() < 2 {
		return
	}

	var visible []int
	for s := 0; s < numSeries; s++ {
		if p.seriesVisible[s] {
			visible = append(visible, s)
		}
	}
	lo, hi := p.history.Range(visible)

	for _, s := range visible {
		p.drawSeriesLine(x, y, w, h, s, lo, hi)
	}

	rl.DrawText(fmt.Sprintf("%.2f", hi), x+2, y+2, 9, ColorTextDim)
	rl.DrawText(fmt.Sprintf("%.2f", lo), x+2, y+h-10, 9, ColorTextDim)
}

func (p *CurvesPanel) drawSeriesLine(x, y, w, h int32, series int, lo, hi float64) {
	values := p.history.Values(series)
	var prevX, prevY int32
	for i, v := range values {
		px := x + int32(float64(i)*float64(w)/float64(len(values)-1))
		py := y + h - int32((v-lo)/(hi-lo)*float64(h))
		py = min(max(py, y), y+h)

		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, seriesColors[series])
		}
		prevX, prevY = px, py
	}
}

func (p *CurvesPanel) drawLegend(x, y int32) {
	const itemWidth = 90
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*itemWidth
		color, textColor := seriesColors[i], ColorText
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = ColorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(seriesNames[i], itemX+14, y, 11, textColor)
	}
	rl.DrawText("(click to toggle)", x+numSeries*itemWidth+10, y, 10, ColorTextDim)
}
