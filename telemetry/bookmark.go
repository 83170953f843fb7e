package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNectarBreakthrough BookmarkType = "nectar_breakthrough"
	BookmarkRewardCollapse     BookmarkType = "reward_collapse"
	BookmarkBoundaryStorm      BookmarkType = "boundary_storm"
	BookmarkSpawnPressure      BookmarkType = "spawn_pressure"
	BookmarkStableForaging     BookmarkType = "stable_foraging"
)

// Thresholds for bookmark detection.
const (
	breakthroughFactor = 2.0
	minBreakthrough    = 0.1 // nectar per episode
	collapseFraction   = 0.5
	spawnPressureMean  = 10.0 // attempts per episode
	stableWindows      = 5
	stableSpan         = 4
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in a training run. Windows in
// which no episode ended carry no signal and are ignored.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	rewardPeak   float64
	stableCount  int
	spawnFlagged bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	if stats.Episodes == 0 {
		return nil
	}

	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkNectarBreakthrough,
		bd.checkRewardCollapse,
		bd.checkBoundaryStorm,
		bd.checkSpawnPressure,
		bd.checkStableForaging,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.RewardMean > bd.rewardPeak {
		bd.rewardPeak = stats.RewardMean
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) average(field func(WindowStats) float64) (float64, bool) {
	history := bd.getHistory()
	if len(history) < 3 {
		return 0, false
	}
	var sum float64
	for _, h := range history {
		sum += field(h)
	}
	return sum / float64(len(history)), true
}

func (bd *BookmarkDetector) checkNectarBreakthrough(stats WindowStats) *Bookmark {
	avg, ok := bd.average(func(s WindowStats) float64 { return s.NectarMean })
	if !ok || avg == 0 {
		return nil
	}

	if stats.NectarMean > avg*breakthroughFactor && stats.NectarMean > minBreakthrough {
		return &Bookmark{
			Type:        BookmarkNectarBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Nectar per episode %.3f is %.1fx average (%.3f)", stats.NectarMean, stats.NectarMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkRewardCollapse(stats WindowStats) *Bookmark {
	if bd.rewardPeak <= 0 {
		return nil
	}

	if stats.RewardMean < bd.rewardPeak*collapseFraction {
		oldPeak := bd.rewardPeak
		bd.rewardPeak = stats.RewardMean

		return &Bookmark{
			Type:        BookmarkRewardCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean reward fell from peak %.3f to %.3f", oldPeak, stats.RewardMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkBoundaryStorm(stats WindowStats) *Bookmark {
	avg, ok := bd.average(func(s WindowStats) float64 { return s.BoundaryPerEpisode })
	if !ok {
		return nil
	}

	if stats.BoundaryPerEpisode >= 1 && stats.BoundaryPerEpisode > avg*breakthroughFactor {
		return &Bookmark{
			Type:        BookmarkBoundaryStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Boundary hits per episode %.2f against average %.2f", stats.BoundaryPerEpisode, avg),
		}
	}
	return nil
}

// checkSpawnPressure fires once each time safe placement starts needing many retries.
func (bd *BookmarkDetector) checkSpawnPressure(stats WindowStats) *Bookmark {
	if stats.SpawnAttemptsMean < spawnPressureMean {
		bd.spawnFlagged = false
		return nil
	}
	if bd.spawnFlagged {
		return nil
	}
	bd.spawnFlagged = true

	return &Bookmark{
		Type:        BookmarkSpawnPressure,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Spawn needed %.1f attempts per episode", stats.SpawnAttemptsMean),
	}
}

func (bd *BookmarkDetector) checkStableForaging(stats WindowStats) *Bookmark {
	if stats.RewardMean <= 0 {
		bd.stableCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < stableSpan {
		return nil
	}

	recent := make([]float64, stableSpan)
	for i, h := range history[len(history)-stableSpan:] {
		recent[i] = h.RewardMean
	}
	mean, std := MeanStd(recent)

	// Coefficient of variation below 20%
	if mean > 0 && std/mean < 0.2 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == stableWindows {
		return &Bookmark{
			Type:        BookmarkStableForaging,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean reward steady near %.3f over %d windows", mean, stableWindows),
		}
	}
	return nil
}
