package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/policy"
	"github.com/pthm-cable/hummingbird/sim"
	"github.com/pthm-cable/hummingbird/telemetry"
)

// FitnessEvaluator runs headless training episodes and scores a decoded
// search point by the episode rewards it earns.
type FitnessEvaluator struct {
	encoding   Encoding
	episodes   int
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestRun     *telemetry.BestEpisodes
	lastNectar  float64 // mean nectar per episode of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(encoding Encoding, episodes int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		encoding:    encoding,
		episodes:    episodes,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestEpisodes returns the best episodes of the best evaluation.
func (fe *FitnessEvaluator) BestEpisodes() *telemetry.BestEpisodes {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRun
}

// LastNectar returns the mean nectar per episode from the most recent evaluation.
func (fe *FitnessEvaluator) LastNectar() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastNectar
}

// runResult holds the results from a single seed.
type runResult struct {
	rewards []float64
	nectar  []float64
	best    *telemetry.BestEpisodes
	err     error
}

// Evaluate computes fitness for decoded values (lower = better).
// Fitness is the negated mean episode reward across all seeds.
func (fe *FitnessEvaluator) Evaluate(values []float64) float64 {
	cfg := fe.baseConfig.Clone()
	newPolicy, err := fe.encoding.Apply(cfg, values)
	if err != nil {
		return math.Inf(1)
	}

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg.Clone(), s, newPolicy)
		}(i, seed)
	}
	wg.Wait()

	var rewards, nectar []float64
	var bestSeed *telemetry.BestEpisodes
	for _, r := range results {
		if r.err != nil {
			// A run that cannot place its agent scores as badly as possible
			return math.Inf(1)
		}
		rewards = append(rewards, r.rewards...)
		nectar = append(nectar, r.nectar...)
		if bestSeed == nil || r.best.TopReward() > bestSeed.TopReward() {
			bestSeed = r.best
		}
	}
	if len(rewards) == 0 {
		return math.Inf(1)
	}

	fitness := -stat.Mean(rewards, nil)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestRun = bestSeed
	}
	fe.lastNectar = stat.Mean(nectar, nil)
	fe.mu.Unlock()

	return fitness
}

// runSimulation steps one runner until it finished the configured number
// of episodes per arena.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64, newPolicy func(*rand.Rand) policy.Policy) runResult {
	var result runResult
	r, err := sim.New(cfg, sim.Options{
		Seed:      seed,
		Mode:      agent.ModeTraining,
		NewPolicy: newPolicy,
		OnEpisode: func(rec telemetry.EpisodeRecord) {
			result.rewards = append(result.rewards, rec.Reward)
			result.nectar = append(result.nectar, rec.Nectar)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer r.Close()

	// done_when may end episodes early, so count episodes instead of ticks,
	// bounded by the step limit.
	want := fe.episodes * cfg.Arena.Instances
	limit := int64(fe.episodes * max(cfg.Episode.MaxSteps, 1))
	for len(result.rewards) < want && r.Tick() < limit {
		if err := r.Step(); err != nil {
			result.err = err
			return result
		}
	}
	result.best = r.Best()
	return result
}
