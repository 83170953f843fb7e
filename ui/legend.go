package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LegendPanel lists the overlays and their toggle keys.
type LegendPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewLegendPanel creates a hidden legend panel.
func NewLegendPanel(x, y, width int32) *LegendPanel {
	return &LegendPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition moves the panel.
func (p *LegendPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Toggle switches panel visibility.
func (p *LegendPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the panel if visible.
func (p *LegendPanel) Draw(overlays *OverlayRegistry) {
	if !p.visible {
		return
	}

	r := p.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(categories) + len(overlays.All())
	r.DrawPanel(p.x, p.y, p.width, int32(rows)*lh+pad*3+lh)

	y := p.y + pad
	rl.DrawText("Overlays", p.x+pad, y, r.Theme.HeaderFontSize, rl.White)
	y += lh + 4

	for _, cat := range categories {
		rl.DrawText(strings.ToUpper(cat), p.x+pad, y, r.Theme.FontSize, r.Theme.SectionHeader)
		y += lh

		for _, desc := range overlays.ByCategory(cat) {
			p.drawToggle(p.x+pad, y, desc, overlays.IsEnabled(desc.ID), p.width-pad*2)
			y += lh
		}
	}
}

func (p *LegendPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := p.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+3, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Gray)
	}
}
