package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/hummingbird/config"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i := range v {
		v[i] = 100
	}
	v[0] = -100

	got := pv.Clamp(v)
	if got[0] != pv.Specs[0].Min {
		t.Errorf("low value: got %v, want %v", got[0], pv.Specs[0].Min)
	}
	for i := 1; i < len(got); i++ {
		if got[i] != pv.Specs[i].Max {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], pv.Specs[i].Max)
		}
	}
}

func TestParamVector_ApplyAndExtract(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	want := []float64{0.5, 0.1, 1.0, 0.5, 0.3}
	pv.ApplyToConfig(cfg, want)

	if cfg.Policy.TurnGain != 0.1 {
		t.Errorf("TurnGain = %v, want 0.1", cfg.Policy.TurnGain)
	}
	got := pv.ExtractFromConfig(cfg)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestParamVector_DefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, d := range pv.DefaultVector() {
		if got[i] != d {
			t.Errorf("%s: config has %v, spec default %v", pv.Specs[i].Name, got[i], d)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"59s", "0m59s"},
		{"61s", "1m01s"},
		{"3725s", "1h02m05s"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := time.ParseDuration(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := formatDuration(d); got != tt.want {
				t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
