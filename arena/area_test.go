package arena

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

const testLayout = `
name: area
position: [1, 0, 2]
children:
  - name: plantA
    kind: plant
    children:
      - name: stem
        children:
          - name: bloom
            kind: flower
            position: [0, 1.5, 0]
            flower:
              nectar_offset: [0, 0.02, 0]
              nectar_radius: 0.015
              petal_radius: 0.04
      - name: side
        kind: flower
        position: [0.2, 1, 0]
        flower:
          region: side-nectar
  - name: loose
    kind: flower
    position: [3, 1, 0]
  - name: plantB
    kind: plant
`

func mustArea(t *testing.T, src string) *FlowerArea {
	t.Helper()
	root, err := ParseLayout([]byte(src))
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	area, err := NewFlowerArea(root)
	if err != nil {
		t.Fatalf("NewFlowerArea: %v", err)
	}
	return area
}

func TestNewFlowerArea_DiscoveryOrder(t *testing.T) {
	area := mustArea(t, testLayout)

	wantNames := []string{"area/plantA/stem/bloom", "area/plantA/side", "area/loose"}
	flowers := area.Flowers()
	if len(flowers) != len(wantNames) {
		t.Fatalf("found %d flowers, want %d", len(flowers), len(wantNames))
	}
	for i, name := range wantNames {
		if flowers[i].Name != name {
			t.Errorf("flower[%d] = %q, want %q", i, flowers[i].Name, name)
		}
	}

	if len(area.Plants()) != 2 {
		t.Errorf("found %d plants, want 2", len(area.Plants()))
	}

	// Every flower has exactly one index entry
	for i, f := range flowers {
		got, idx, ok := area.LookupFlower(f.Region())
		if !ok || got != f || idx != i {
			t.Errorf("LookupFlower(%q) = %v, %d, %v", f.Region(), got, idx, ok)
		}
	}
	if flowers[1].Region() != "side-nectar" {
		t.Errorf("explicit region = %q", flowers[1].Region())
	}
	if flowers[0].Region() != "area/plantA/stem/bloom/nectar" {
		t.Errorf("default region = %q", flowers[0].Region())
	}
}

func TestNewFlowerArea_WorldPositions(t *testing.T) {
	area := mustArea(t, testLayout)

	if c := area.Center(); c.X != 1 || c.Y != 0 || c.Z != 2 {
		t.Errorf("Center = %v", c)
	}
	loose := area.Flowers()[2]
	if got := loose.AnchorPosition(); got.X != 4 || got.Y != 1 || got.Z != 2 {
		t.Errorf("loose anchor = %v", got)
	}
}

func TestNewFlowerArea_DuplicateRegion(t *testing.T) {
	src := `
children:
  - kind: flower
    flower: {region: dup}
  - kind: flower
    flower: {region: dup}
`
	root, err := ParseLayout([]byte(src))
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if _, err := NewFlowerArea(root); err == nil || !strings.Contains(err.Error(), "dup") {
		t.Errorf("expected duplicate region error, got %v", err)
	}
}

func TestFlowerOwning_UnknownPanics(t *testing.T) {
	area := mustArea(t, testLayout)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown region")
		}
	}()
	area.FlowerOwning("nowhere")
}

func TestFlowerOwning_Known(t *testing.T) {
	area := mustArea(t, testLayout)
	f := area.Flowers()[1]
	if got := area.FlowerOwning(f.Region()); got != f {
		t.Errorf("FlowerOwning returned %v, want %v", got.Name, f.Name)
	}
}

func TestResetFlowers_RefillsAndRotates(t *testing.T) {
	area := mustArea(t, testLayout)
	rng := rand.New(rand.NewSource(7))

	flowers := area.Flowers()
	flowers[0].Feed(2)
	flowers[1].Feed(0.3)
	before := flowers[1].AnchorPosition()
	gen := area.Generation()

	area.ResetFlowers(rng)

	for _, f := range flowers {
		if f.NectarAmount() != 1 || !f.PetalActive() || !f.NectarActive() {
			t.Errorf("%s after reset: amount=%v petal=%v nectar=%v", f.Name, f.NectarAmount(), f.PetalActive(), f.NectarActive())
		}
	}
	if area.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", area.Generation(), gen+1)
	}
	if geom.Distance(before, flowers[1].AnchorPosition()) < 1e-9 {
		t.Error("plant rotation did not move an off-axis flower")
	}

	for _, p := range area.Plants() {
		pitch, _ := geom.PitchYaw(p.LocalRotation)
		if pitch > 180 {
			pitch -= 360
		}
		if pitch < -5-1e-9 || pitch > 5+1e-9 {
			t.Errorf("plant pitch %v outside jitter range", pitch)
		}
	}
}

func TestParseLayout_FlowerFieldsOnPlant(t *testing.T) {
	src := `
children:
  - kind: plant
    flower: {region: x}
`
	if _, err := ParseLayout([]byte(src)); err == nil {
		t.Error("expected error for flower fields on a plant")
	}
}

func TestParseLayout_UnknownKind(t *testing.T) {
	if _, err := ParseLayout([]byte("kind: tree\n")); err == nil {
		t.Error("expected error for unknown node kind")
	}
}

func TestGenerateLayout(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	area, err := BuildArea(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildArea: %v", err)
	}

	want := cfg.Arena.Plants * cfg.Arena.FlowersPerPlant
	if len(area.Flowers()) != want {
		t.Errorf("generated %d flowers, want %d", len(area.Flowers()), want)
	}
	for _, f := range area.Flowers() {
		d := geom.Distance(f.AnchorPosition(), area.Center())
		if d > cfg.Arena.Diameter/2 {
			t.Errorf("%s at %v lies outside the arena", f.Name, d)
		}
		if f.UpAxis().Y <= 0 {
			t.Errorf("%s opens downward: %v", f.Name, f.UpAxis())
		}
	}
}

func TestWriteLayout_RoundTrip(t *testing.T) {
	cfg, _ := config.Load("")
	root := GenerateLayout(cfg, rand.New(rand.NewSource(3)))
	path := t.TempDir() + "/layout.yaml"

	if err := WriteLayout(path, root); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	back, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}

	a, _ := NewFlowerArea(root)
	b, _ := NewFlowerArea(back)
	if len(a.Flowers()) != len(b.Flowers()) {
		t.Fatalf("flower count %d != %d", len(a.Flowers()), len(b.Flowers()))
	}
	for i := range a.Flowers() {
		if geom.Distance(a.Flowers()[i].CenterPosition(), b.Flowers()[i].CenterPosition()) > 1e-9 {
			t.Errorf("flower %d moved after round trip", i)
		}
	}
}

func TestNewFlowerArea_RootNotClassified(t *testing.T) {
	tests := []struct {
		name        string
		layout      string
		wantFlowers int
		wantPlants  int
	}{
		{"flower root", `
name: area
kind: flower
children:
  - name: bloom
    kind: flower
`, 1, 0},
		{"plant root", `
name: area
kind: plant
children:
  - name: bloom
    kind: flower
  - name: bush
    kind: plant
`, 1, 1},
		{"bare flower root", "name: area\nkind: flower\n", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := mustArea(t, tt.layout)
			if got := len(area.Flowers()); got != tt.wantFlowers {
				t.Errorf("flowers = %d, want %d", got, tt.wantFlowers)
			}
			if got := len(area.Plants()); got != tt.wantPlants {
				t.Errorf("plants = %d, want %d", got, tt.wantPlants)
			}
		})
	}
}

func TestNewFlowerArea_Rotation(t *testing.T) {
	area := mustArea(t, "name: area\nrotation: [0, 90, 0]\nchildren:\n  - name: bloom\n    kind: flower\n")
	want := geom.Euler(0, 90, 0)
	if got := area.Rotation(); got != want {
		t.Errorf("Rotation() = %v, want %v", got, want)
	}
}

func TestAreaDiameter_MatchesDefaultConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arena.Diameter != AreaDiameter {
		t.Errorf("arena.diameter default = %v, want AreaDiameter %v", cfg.Arena.Diameter, AreaDiameter)
	}
}
