package sim

import "log/slog"

// flushTelemetry closes the stats window when due and reports bookmarks.
func (r *Runner) flushTelemetry() {
	if !r.collector.ShouldFlush(r.tick) {
		return
	}

	stats := r.collector.Flush(r.tick, r.flowerFraction())
	perfStats := r.perf.Stats()

	if r.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if r.opts.OnWindow != nil {
		r.opts.OnWindow(stats)
	}

	for _, bm := range r.bookmarks.Check(stats) {
		if r.opts.LogStats {
			bm.LogBookmark()
		}
		if err := r.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// flowerFraction returns the share of flowers across all arenas that hold nectar.
func (r *Runner) flowerFraction() float64 {
	var full, total int
	query := r.filter.Query()
	for query.Next() {
		a, _, _ := query.Get()
		full += a.FlowersWithNectar()
		total += len(a.Area.Flowers())
	}
	if total == 0 {
		return 0
	}
	return float64(full) / float64(total)
}
