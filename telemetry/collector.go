package telemetry

// Collector accumulates finished episodes within time windows and produces WindowStats.
type Collector struct {
	windowTicks int64
	dt          float64

	windowStartTick int64
	episodes        []EpisodeRecord
}

// NewCollector creates a collector flushing every windowTicks steps of dt seconds.
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks), dt: dt}
}

// Record adds a finished episode to the current window.
func (c *Collector) Record(r EpisodeRecord) {
	c.episodes = append(c.episodes, r)
}

// Pending returns the number of episodes recorded since the last flush.
func (c *Collector) Pending() int {
	return len(c.episodes)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets for the next window.
// flowersWithNectar is the fraction of flowers across all arenas that still
// hold nectar at currentTick.
func (c *Collector) Flush(currentTick int64, flowersWithNectar float64) WindowStats {
	stats := WindowStats{
		WindowStartTick:   c.windowStartTick,
		WindowEndTick:     currentTick,
		SimTimeSec:        float64(currentTick) * c.dt,
		Episodes:          len(c.episodes),
		FlowersWithNectar: flowersWithNectar,
	}

	if n := len(c.episodes); n > 0 {
		rewards := make([]float64, n)
		nectar := make([]float64, n)
		var sips, emptied, boundary, attempts, near int
		for i, e := range c.episodes {
			rewards[i] = e.Reward
			nectar[i] = e.Nectar
			sips += e.Sips
			emptied += e.FlowersEmptied
			boundary += e.BoundaryHits
			attempts += e.SpawnAttempts
			if e.NearSpawn {
				near++
			}
		}

		stats.RewardMean, stats.RewardStd = MeanStd(rewards)
		stats.NectarMean, stats.NectarP10, stats.NectarP50, stats.NectarP90 = Distribution(nectar)
		stats.SipsPerEpisode = float64(sips) / float64(n)
		stats.EmptiedPerEpisode = float64(emptied) / float64(n)
		stats.BoundaryPerEpisode = float64(boundary) / float64(n)
		stats.SpawnAttemptsMean = float64(attempts) / float64(n)
		stats.NearSpawnFrac = float64(near) / float64(n)
	}

	c.windowStartTick = currentTick
	c.episodes = c.episodes[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
