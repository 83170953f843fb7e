package telemetry

import (
	"math"
	"testing"
)

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(100, 0.02)

	if c.ShouldFlush(99) {
		t.Error("flushed before a full window")
	}
	if !c.ShouldFlush(100) {
		t.Error("did not flush after a full window")
	}

	c.Flush(100, 1)
	if c.ShouldFlush(150) {
		t.Error("window start not advanced by Flush")
	}
	if !c.ShouldFlush(200) {
		t.Error("second window never flushes")
	}
}

func TestCollector_Flush(t *testing.T) {
	c := NewCollector(50, 0.02)
	c.Record(EpisodeRecord{Reward: 1, Nectar: 0.2, Sips: 20, FlowersEmptied: 0, BoundaryHits: 2, SpawnAttempts: 1, NearSpawn: true})
	c.Record(EpisodeRecord{Reward: 3, Nectar: 0.6, Sips: 60, FlowersEmptied: 1, BoundaryHits: 0, SpawnAttempts: 3})

	if c.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", c.Pending())
	}

	s := c.Flush(50, 0.75)

	if s.WindowStartTick != 0 || s.WindowEndTick != 50 {
		t.Errorf("window = [%d, %d], want [0, 50]", s.WindowStartTick, s.WindowEndTick)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1", s.SimTimeSec)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"episodes", float64(s.Episodes), 2},
		{"reward mean", s.RewardMean, 2},
		{"reward std", s.RewardStd, math.Sqrt2},
		{"nectar mean", s.NectarMean, 0.4},
		{"sips", s.SipsPerEpisode, 40},
		{"emptied", s.EmptiedPerEpisode, 0.5},
		{"boundary", s.BoundaryPerEpisode, 1},
		{"spawn attempts", s.SpawnAttemptsMean, 2},
		{"near spawn", s.NearSpawnFrac, 0.5},
		{"flowers", s.FlowersWithNectar, 0.75},
	}
	for _, ch := range checks {
		if math.Abs(ch.got-ch.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", ch.name, ch.got, ch.want)
		}
	}

	if c.Pending() != 0 {
		t.Errorf("Pending after flush = %d, want 0", c.Pending())
	}
}

func TestCollector_EmptyWindow(t *testing.T) {
	c := NewCollector(0, 0.02)
	if c.WindowTicks() != 1 {
		t.Errorf("WindowTicks = %d, want 1", c.WindowTicks())
	}

	s := c.Flush(10, 1)
	if s.Episodes != 0 || s.RewardMean != 0 || s.NectarP90 != 0 {
		t.Errorf("empty window = %+v", s)
	}
}
