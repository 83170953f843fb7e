// Layout preview tool: generates flower arenas from sliders, shows them top
// down and saves the current layout as YAML for arena.layout_path.
//
// Usage: go run ./cmd/layoutpreview -out layout.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// LayoutParams holds the generator settings exposed as sliders.
type LayoutParams struct {
	Plants          int
	FlowersPerPlant int
	RingInner       float32
	RingOuter       float32
	Seed            int64
}

func (p LayoutParams) apply(cfg *config.Config) {
	cfg.Arena.Plants = p.Plants
	cfg.Arena.FlowersPerPlant = p.FlowersPerPlant
	cfg.Arena.RingInner = float64(p.RingInner)
	cfg.Arena.RingOuter = float64(max(p.RingOuter, p.RingInner))
}

// preview is a generated layout and the area built from it.
type preview struct {
	root    *arena.Node
	area    *arena.FlowerArea
	spacing float64 // Closest distance between two flower centers
}

func generate(cfg *config.Config, p LayoutParams) (*preview, error) {
	root := arena.GenerateLayout(cfg, rand.New(rand.NewSource(p.Seed)))
	area, err := arena.NewFlowerArea(root)
	if err != nil {
		return nil, err
	}
	return &preview{root: root, area: area, spacing: minSpacing(area)}, nil
}

func minSpacing(area *arena.FlowerArea) float64 {
	flowers := area.Flowers()
	best := math.Inf(1)
	for i := range flowers {
		for j := i + 1; j < len(flowers); j++ {
			best = min(best, geom.Distance(flowers[i].CenterPosition(), flowers[j].CenterPosition()))
		}
	}
	return best
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "layout.yaml", "Where Save writes the layout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	defaults := LayoutParams{
		Plants:          cfg.Arena.Plants,
		FlowersPerPlant: cfg.Arena.FlowersPerPlant,
		RingInner:       float32(cfg.Arena.RingInner),
		RingOuter:       float32(cfg.Arena.RingOuter),
		Seed:            1,
	}
	params := defaults
	radius := float32(cfg.Derived.AreaRadius)

	rl.InitWindow(windowWidth, windowHeight, "Flower Layout Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var current *preview
	status := ""
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			params.apply(cfg)
			p, err := generate(cfg, params)
			if err != nil {
				status = err.Error()
			} else {
				current = p
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if current != nil {
			drawPreview(current, radius)
			statsY := int32(previewSize + 25)
			rl.DrawText(fmt.Sprintf("Flowers: %d  Closest centers: %.2f m", len(current.area.Flowers()), current.spacing), 15, statsY, 16, rl.DarkGray)
		}
		rl.DrawText(status, 15, previewSize+45, 16, rl.Maroon)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Layout Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		if v, ok := slider(panelX, &panelY, "Plants", float32(params.Plants), 1, 12, "%.0f"); ok {
			params.Plants, changed = int(v), true
		}
		if v, ok := slider(panelX, &panelY, "Flowers per plant", float32(params.FlowersPerPlant), 1, 8, "%.0f"); ok {
			params.FlowersPerPlant, changed = int(v), true
		}
		if v, ok := slider(panelX, &panelY, "Ring inner radius", params.RingInner, 0, radius, "%.2f"); ok {
			params.RingInner, changed = v, true
		}
		if v, ok := slider(panelX, &panelY, "Ring outer radius", params.RingOuter, 0, radius, "%.2f"); ok {
			params.RingOuter, changed = v, true
		}
		needsRegen = needsRegen || changed

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = rand.Int63()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Save") && current != nil {
			if err := arena.WriteLayout(*outPath, current.root); err != nil {
				status = err.Error()
			} else {
				status = "saved " + *outPath
			}
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar, advances y and reports a changed value.
func slider(x float32, y *float32, label string, value, lo, hi float32, format string) (float32, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v, v != value
}

// drawPreview draws the arena from above: +X right, +Z up the screen.
func drawPreview(p *preview, radius float32) {
	const origin = 10 + previewSize/2
	scale := float32(previewSize/2-10) / radius
	toScreen := func(x, z float64) (int32, int32) {
		return int32(origin + float32(x)*scale), int32(origin - float32(z)*scale)
	}

	rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
	rl.DrawCircleLines(origin, origin, radius*scale, rl.Gray)

	for _, plant := range p.area.Plants() {
		x, y := toScreen(plant.Position().X, plant.Position().Z)
		rl.DrawCircle(x, y, 4, rl.DarkGreen)
	}
	for _, f := range p.area.Flowers() {
		c := f.CenterPosition()
		x, y := toScreen(c.X, c.Z)
		rl.DrawCircle(x, y, float32(f.PetalRadius())*scale, f.Color())
		if f.HasNectar() {
			rl.DrawCircle(x, y, float32(f.NectarRadius())*scale, rl.Gold)
		}
	}
}
