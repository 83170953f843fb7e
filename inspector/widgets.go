package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// ratio maps v into [0, 1] over [lo, hi].
func ratio(v, lo, hi float32) float32 {
	return min(max((v-lo)/(hi-lo), 0), 1)
}

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal bar. Ranges spanning zero fill from the
// zero point so signed values read left or right.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	lo, hi := Range(options)
	barWidth := int32(120)
	barHeight := int32(14)
	barX := x + 80

	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	zero := int32(float32(barWidth) * ratio(0, lo, hi))
	end := int32(float32(barWidth) * ratio(value, lo, hi))
	from, to := min(zero, end), max(zero, end)
	fill := rl.ColorLerp(ColorBarLow, ColorBarFill, ratio(value, lo, hi))
	rl.DrawRectangle(barX+from, y, to-from, barHeight, fill)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawBarGroup renders one vertical mini-bar per value.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	lo, hi := Range(options)
	barWidth := int32(20)
	barHeight := int32(30)
	gap := int32(2)
	labels := Labels(options, len(values))
	labelHeight := int32(0)
	if labels != nil {
		labelHeight = 10
	}

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 60
	zero := int32(float32(barHeight) * ratio(0, lo, hi))
	for i, v := range values {
		bx := barX + int32(i)*(barWidth+gap)
		rl.DrawRectangle(bx, y, barWidth, barHeight, ColorBarBg)

		// Fill up or down from the zero line
		end := int32(float32(barHeight) * ratio(v, lo, hi))
		from, to := min(zero, end), max(zero, end)
		fill := rl.ColorLerp(ColorBarLow, ColorBarFill, ratio(v, lo, hi))
		rl.DrawRectangle(bx, y+barHeight-to, barWidth, to-from, fill)
	}

	for i, label := range labels {
		lx := barX + int32(i)*(barWidth+gap) + barWidth/2
		w := rl.MeasureText(label, 8)
		rl.DrawText(label, lx-w/2, y+barHeight+2, 8, ColorTextDim)
	}

	return barHeight + labelHeight + 4
}

// DrawAngle renders a compass-style indicator for an angle in degrees.
func DrawAngle(x, y int32, name string, degrees float32) int32 {
	size := int32(40)
	centerX := x + 60 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)
	rl.DrawCircle(centerX, centerY, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	// Zero points right, positive angles turn clockwise on screen
	center := rl.NewVector2(float32(centerX), float32(centerY))
	tip := rl.Vector2Add(center, rl.Vector2Rotate(rl.NewVector2(float32(size/2-4), 0), degrees*rl.Deg2rad))
	rl.DrawLineEx(center, tip, 2, ColorAngleNeedle)

	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+60+size+5, y+size/2-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 80
	indicatorSize := int32(14)
	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)
	return 18
}

// DrawField renders a field with its widget and returns the height used.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawBarGroup(x, y, field.Name, values, field.Options)
		}
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight returns the height DrawField uses for field.
func FieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			h := int32(34)
			if Labels(field.Options, len(values)) != nil {
				h += 10
			}
			return h
		}
		if _, ok := GetFloatValue(field.Value); ok {
			return 18
		}
	case WidgetAngle:
		if _, ok := GetFloatValue(field.Value); ok {
			return 44
		}
	case WidgetBool:
		if _, ok := field.Value.(bool); ok {
			return 18
		}
	}
	return 20
}
