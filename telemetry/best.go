package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// BestEpisodes keeps the highest-reward episodes of a run, sorted descending.
type BestEpisodes struct {
	entries []EpisodeRecord
	maxSize int
}

// NewBestEpisodes creates a ranking holding at most maxSize episodes.
func NewBestEpisodes(maxSize int) *BestEpisodes {
	if maxSize < 1 {
		maxSize = 1
	}
	return &BestEpisodes{entries: make([]EpisodeRecord, 0, maxSize), maxSize: maxSize}
}

// Consider offers an episode to the ranking and reports whether it was kept.
// Ties keep the earlier episode ahead.
func (b *BestEpisodes) Consider(r EpisodeRecord) bool {
	idx := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].Reward < r.Reward
	})

	if len(b.entries) >= b.maxSize && idx >= b.maxSize {
		return false
	}

	b.entries = append(b.entries, EpisodeRecord{})
	copy(b.entries[idx+1:], b.entries[idx:])
	b.entries[idx] = r

	if len(b.entries) > b.maxSize {
		b.entries = b.entries[:b.maxSize]
	}
	return true
}

// Entries returns the ranking, best first. The slice must not be modified.
func (b *BestEpisodes) Entries() []EpisodeRecord {
	return b.entries
}

// Len returns the number of ranked episodes.
func (b *BestEpisodes) Len() int {
	return len(b.entries)
}

// TopReward returns the best reward, or 0 when empty.
func (b *BestEpisodes) TopReward() float64 {
	if len(b.entries) == 0 {
		return 0
	}
	return b.entries[0].Reward
}

type bestEpisodesJSON struct {
	MaxSize  int             `json:"max_size"`
	Episodes []EpisodeRecord `json:"episodes"`
}

// MarshalJSON serializes the ranking.
func (b *BestEpisodes) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(bestEpisodesJSON{MaxSize: b.maxSize, Episodes: b.entries}, "", "  ")
}

// LoadBestEpisodes reads a ranking written by MarshalJSON.
func LoadBestEpisodes(path string) (*BestEpisodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading best episodes: %w", err)
	}

	var raw bestEpisodesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing best episodes JSON: %w", err)
	}

	b := NewBestEpisodes(max(raw.MaxSize, len(raw.Episodes)))
	for _, e := range raw.Episodes {
		b.Consider(e)
	}
	return b, nil
}
