package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for the episodes that ended
// within one time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Episodes int `csv:"episodes"`

	RewardMean float64 `csv:"reward_mean"`
	RewardStd  float64 `csv:"reward_std"`

	NectarMean float64 `csv:"nectar_mean"`
	NectarP10  float64 `csv:"nectar_p10"`
	NectarP50  float64 `csv:"nectar_p50"`
	NectarP90  float64 `csv:"nectar_p90"`

	// Per-episode rates
	SipsPerEpisode     float64 `csv:"sips_per_episode"`
	EmptiedPerEpisode  float64 `csv:"emptied_per_episode"`
	BoundaryPerEpisode float64 `csv:"boundary_per_episode"`
	SpawnAttemptsMean  float64 `csv:"spawn_attempts_mean"`
	NearSpawnFrac      float64 `csv:"near_spawn_frac"`

	// Sampled at window end across all arenas
	FlowersWithNectar float64 `csv:"flowers_with_nectar"`
}

// Distribution returns the mean and the 10th, 50th and 90th percentiles of
// values. An empty slice yields zeros.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// MeanStd returns the mean and sample standard deviation of values. Fewer
// than two values have no spread.
func MeanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("episodes", s.Episodes),
		slog.Float64("reward_mean", s.RewardMean),
		slog.Float64("reward_std", s.RewardStd),
		slog.Float64("nectar_mean", s.NectarMean),
		slog.Float64("nectar_p10", s.NectarP10),
		slog.Float64("nectar_p50", s.NectarP50),
		slog.Float64("nectar_p90", s.NectarP90),
		slog.Float64("sips_per_episode", s.SipsPerEpisode),
		slog.Float64("emptied_per_episode", s.EmptiedPerEpisode),
		slog.Float64("boundary_per_episode", s.BoundaryPerEpisode),
		slog.Float64("spawn_attempts_mean", s.SpawnAttemptsMean),
		slog.Float64("near_spawn_frac", s.NearSpawnFrac),
		slog.Float64("flowers_with_nectar", s.FlowersWithNectar),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"episodes", s.Episodes,
		"reward_mean", s.RewardMean,
		"reward_std", s.RewardStd,
		"nectar_p50", s.NectarP50,
		"sips_per_episode", s.SipsPerEpisode,
		"emptied_per_episode", s.EmptiedPerEpisode,
		"boundary_per_episode", s.BoundaryPerEpisode,
		"flowers_with_nectar", s.FlowersWithNectar,
	)
}
