package inspector

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/hummingbird/telemetry"
)

func TestHistory_Wraps(t *testing.T) {
	h := NewHistory(2, 3)
	for i := 1; i <= 5; i++ {
		h.Push(float64(i), float64(-i))
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if got := h.Values(0); !reflect.DeepEqual(got, []float64{3, 4, 5}) {
		t.Errorf("series 0 = %v, want [3 4 5]", got)
	}
	if got := h.Values(1); !reflect.DeepEqual(got, []float64{-3, -4, -5}) {
		t.Errorf("series 1 = %v, want [-3 -4 -5]", got)
	}
}

func TestHistory_MissingValuesAreZero(t *testing.T) {
	h := NewHistory(3, 4)
	h.Push(1)
	if got := h.Values(2); len(got) != 1 || got[0] != 0 {
		t.Errorf("series 2 = %v, want [0]", got)
	}
}

func TestHistory_Range(t *testing.T) {
	tests := []struct {
		name   string
		pushes [][]float64
		series []int
		lo, hi float64
	}{
		{"empty", nil, []int{0}, 0, 1},
		{"flat", [][]float64{{2, 0}, {2, 0}}, []int{0}, 1.5, 2.5},
		{"padded", [][]float64{{0, 10}, {10, 0}}, []int{0}, -1, 11},
		{"two series", [][]float64{{0, -10}, {1, 0}}, []int{0, 1}, -11.1, 2.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(2, 8)
			for _, p := range tt.pushes {
				h.Push(p...)
			}
			lo, hi := h.Range(tt.series)
			if math.Abs(lo-tt.lo) > 1e-9 || math.Abs(hi-tt.hi) > 1e-9 {
				t.Errorf("Range = [%v, %v], want [%v, %v]", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestCurvesPanel_UpdateHoldsLastEpisodes(t *testing.T) {
	p := NewCurvesPanel(1280, 800)
	p.Update(telemetry.WindowStats{Episodes: 2, RewardMean: 1.5, FlowersWithNectar: 0.9})
	p.Update(telemetry.WindowStats{Episodes: 0, FlowersWithNectar: 0.4})

	rewards := p.history.Values(seriesReward)
	if !reflect.DeepEqual(rewards, []float64{1.5, 1.5}) {
		t.Errorf("reward series = %v, want [1.5 1.5]", rewards)
	}
	flowers := p.history.Values(seriesFlowers)
	if !reflect.DeepEqual(flowers, []float64{0.9, 0.4}) {
		t.Errorf("flower series = %v, want [0.9 0.4]", flowers)
	}
}
