// Package telemetry records finished episodes and windowed statistics of a run.
package telemetry

import (
	"log/slog"

	"github.com/google/uuid"
)

// End reasons for an episode.
const (
	EndMaxSteps = "max_steps"
	EndDoneWhen = "done_when"
)

// EpisodeRecord summarizes one finished episode of one arena.
type EpisodeRecord struct {
	RunID          string  `csv:"run_id"`
	EpisodeID      string  `csv:"episode_id"`
	Arena          int     `csv:"arena"`
	Episode        int     `csv:"episode"`
	EndTick        int64   `csv:"end_tick"`
	Steps          int     `csv:"steps"`
	Reward         float64 `csv:"reward"`
	Nectar         float64 `csv:"nectar"`
	Sips           int     `csv:"sips"`
	FlowersEmptied int     `csv:"flowers_emptied"`
	FlowersLeft    int     `csv:"flowers_left"`
	BoundaryHits   int     `csv:"boundary_hits"`
	SpawnAttempts  int     `csv:"spawn_attempts"`
	NearSpawn      bool    `csv:"near_spawn"`
	Reason         string  `csv:"reason"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// NewEpisodeID returns a fresh identifier for an episode.
func NewEpisodeID() string {
	return uuid.NewString()
}

// LogValue implements slog.LogValuer for structured logging.
func (r EpisodeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.EpisodeID),
		slog.Int("arena", r.Arena),
		slog.Int("episode", r.Episode),
		slog.Int("steps", r.Steps),
		slog.Float64("reward", r.Reward),
		slog.Float64("nectar", r.Nectar),
		slog.Int("sips", r.Sips),
		slog.Int("flowers_emptied", r.FlowersEmptied),
		slog.Int("boundary_hits", r.BoundaryHits),
		slog.String("reason", r.Reason),
	)
}
