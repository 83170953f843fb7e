// Package sim steps one or more foraging arenas at a fixed rate, drives
// their agents with a policy, ends and restarts episodes and reports
// telemetry.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/components"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/physics"
	"github.com/pthm-cable/hummingbird/policy"
	"github.com/pthm-cable/hummingbird/telemetry"
)

// Options configures a Runner.
type Options struct {
	Seed      int64
	Mode      agent.Mode
	LogStats  bool   // Log windows, perf and episodes via slog
	OutputDir string // CSV output, empty disables

	// NewPolicy replaces the configured policy. It is called once per arena
	// with that arena's random source.
	NewPolicy func(rng *rand.Rand) policy.Policy

	// OnEpisode receives every finished episode.
	OnEpisode func(telemetry.EpisodeRecord)

	// OnWindow receives every closed stats window.
	OnWindow func(telemetry.WindowStats)
}

// Runner hosts the arenas as ECS entities and steps them in creation order.
type Runner struct {
	cfg   *config.Config
	opts  Options
	runID string

	world      *ecs.World
	mapper     *ecs.Map3[components.Arena, components.Learner, components.Episode]
	filter     *ecs.Filter3[components.Arena, components.Learner, components.Episode]
	arenaMap   *ecs.Map1[components.Arena]
	learnerMap *ecs.Map1[components.Learner]
	episodeMap *ecs.Map1[components.Episode]
	arenas     []ecs.Entity

	done   *DoneCondition
	tick   int64
	paused bool

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	best      *telemetry.BestEpisodes
	output    *telemetry.OutputManager
}

// New builds cfg.Arena.Instances arenas and begins their first episodes.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	done, err := CompileDone(cfg.Episode.DoneWhen)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	world := ecs.NewWorld()
	r := &Runner{
		cfg:        cfg,
		opts:       opts,
		runID:      telemetry.NewRunID(),
		world:      world,
		mapper:     ecs.NewMap3[components.Arena, components.Learner, components.Episode](world),
		filter:     ecs.NewFilter3[components.Arena, components.Learner, components.Episode](world),
		arenaMap:   ecs.NewMap1[components.Arena](world),
		learnerMap: ecs.NewMap1[components.Learner](world),
		episodeMap: ecs.NewMap1[components.Episode](world),
		done:       done,
		collector:  telemetry.NewCollector(cfg.Derived.WindowSteps, cfg.Physics.DT),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarks:  telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		best:       telemetry.NewBestEpisodes(cfg.Telemetry.BestEpisodes),
		output:     output,
	}

	for i := 0; i < cfg.Arena.Instances; i++ {
		if err := r.addArena(i); err != nil {
			r.Close()
			return nil, err
		}
	}

	slog.Info("runner ready",
		"run_id", r.runID,
		"arenas", len(r.arenas),
		"mode", opts.Mode.String(),
		"policy", cfg.Policy.Kind,
		"done_when", done.String(),
		"seed", opts.Seed,
	)
	return r, nil
}

func (r *Runner) addArena(index int) error {
	rng := rand.New(rand.NewSource(r.opts.Seed + int64(index)))

	area, err := arena.BuildArea(r.cfg, rng)
	if err != nil {
		return fmt.Errorf("arena %d: %w", index, err)
	}

	body := physics.BodyFromConfig(r.cfg)
	pw := physics.NewWorld(area, body, physics.BoundsFromConfig(r.cfg, area))
	params := agent.ParamsFromConfig(r.cfg)
	ag := agent.New(area, body, pw, params, r.opts.Mode, rng)
	pw.SetListener(ag)
	pw.SetProbe(ag.BeakTip, params.BeakTipRadius)

	var pol policy.Policy
	if r.opts.NewPolicy != nil {
		pol = r.opts.NewPolicy(rng)
	} else if pol, err = policy.New(r.cfg, rng); err != nil {
		return fmt.Errorf("arena %d: %w", index, err)
	}

	a := components.Arena{Index: index, Area: area, World: pw}
	l := components.Learner{Agent: ag, Policy: pol}
	var ep components.Episode
	if err := r.beginEpisode(&l, &ep); err != nil {
		return fmt.Errorf("arena %d: %w", index, err)
	}

	r.arenas = append(r.arenas, r.mapper.NewEntity(&a, &l, &ep))
	return nil
}

func (r *Runner) beginEpisode(l *components.Learner, ep *components.Episode) error {
	if err := l.Agent.OnEpisodeBegin(); err != nil {
		return err
	}
	*ep = components.Episode{
		ID:        telemetry.NewEpisodeID(),
		Number:    l.Agent.Episode(),
		StartTick: r.tick,
	}
	l.Action = agent.Action{}
	return nil
}

// Update runs steps ticks unless paused.
func (r *Runner) Update(steps int) error {
	if r.paused {
		return nil
	}
	for i := 0; i < steps; i++ {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances every arena by one fixed step. A failure to restart an
// episode is returned after the remaining arenas were stepped; the run
// cannot continue past it.
func (r *Runner) Step() error {
	r.perf.StartTick()

	var firstErr error
	query := r.filter.Query()
	for query.Next() {
		a, l, ep := query.Get()
		if err := r.stepArena(a, l, ep); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("arena %d: %w", a.Index, err)
		}
	}
	r.tick++

	r.perf.StartPhase(telemetry.PhaseTelemetry)
	r.flushTelemetry()
	r.perf.EndTick()

	return firstErr
}

func (r *Runner) stepArena(a *components.Arena, l *components.Learner, ep *components.Episode) error {
	ag := l.Agent

	r.perf.StartPhase(telemetry.PhasePolicy)
	if ep.Step%r.cfg.Episode.DecisionPeriod == 0 {
		l.Action = l.Policy.Act(ag.CollectObservations())
	}

	r.perf.StartPhase(telemetry.PhaseActions)
	ag.OnActionReceived(l.Action)

	r.perf.StartPhase(telemetry.PhasePhysics)
	a.World.Step(r.cfg.Physics.DT)

	r.perf.StartPhase(telemetry.PhaseAgent)
	ag.FixedUpdate()
	ep.Reward += ag.TakeReward()
	ep.Step++

	r.perf.StartPhase(telemetry.PhaseEpisodes)
	reason, err := r.episodeOver(a, l, ep)
	if err != nil {
		return err
	}
	if reason == "" {
		return nil
	}

	r.endEpisode(a, l, ep, reason)
	return r.beginEpisode(l, ep)
}

// episodeOver returns the end reason, or "" while the episode runs.
func (r *Runner) episodeOver(a *components.Arena, l *components.Learner, ep *components.Episode) (string, error) {
	ag := l.Agent
	if limit := ag.MaxStep(); limit > 0 && ep.Step >= limit {
		return telemetry.EndMaxSteps, nil
	}

	stats := ag.Stats()
	done, err := r.done.Eval(DoneEnv{
		Step:         ep.Step,
		MaxSteps:     ag.MaxStep(),
		Nectar:       ag.NectarObtained(),
		Reward:       ag.CumulativeReward(),
		FlowersLeft:  a.FlowersWithNectar(),
		Sips:         stats.Sips,
		BoundaryHits: stats.BoundaryHits,
	})
	if err != nil {
		return "", err
	}
	if done {
		return telemetry.EndDoneWhen, nil
	}
	return "", nil
}

func (r *Runner) endEpisode(a *components.Arena, l *components.Learner, ep *components.Episode, reason string) {
	rec := r.record(a, l, ep, reason)

	r.collector.Record(rec)
	r.best.Consider(rec)
	if err := r.output.WriteEpisode(rec); err != nil {
		slog.Error("failed to write episode", "error", err)
	}
	if r.opts.LogStats {
		slog.Info("episode", "episode", rec)
	}
	if r.opts.OnEpisode != nil {
		r.opts.OnEpisode(rec)
	}
}

func (r *Runner) record(a *components.Arena, l *components.Learner, ep *components.Episode, reason string) telemetry.EpisodeRecord {
	stats := l.Agent.Stats()
	return telemetry.EpisodeRecord{
		RunID:          r.runID,
		EpisodeID:      ep.ID,
		Arena:          a.Index,
		Episode:        ep.Number,
		EndTick:        r.tick,
		Steps:          ep.Step,
		Reward:         l.Agent.CumulativeReward(),
		Nectar:         l.Agent.NectarObtained(),
		Sips:           stats.Sips,
		FlowersEmptied: stats.FlowersEmptied,
		FlowersLeft:    a.FlowersWithNectar(),
		BoundaryHits:   stats.BoundaryHits,
		SpawnAttempts:  stats.SpawnAttempts,
		NearSpawn:      stats.NearSpawn,
		Reason:         reason,
	}
}

// Tick returns the number of steps taken.
func (r *Runner) Tick() int64 {
	return r.tick
}

// RunID returns the identifier shared by all records of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Arenas returns the number of arenas.
func (r *Runner) Arenas() int {
	return len(r.arenas)
}

// Arena returns the components of arena i.
func (r *Runner) Arena(i int) (*components.Arena, *components.Learner, *components.Episode) {
	e := r.arenas[i]
	return r.arenaMap.Get(e), r.learnerMap.Get(e), r.episodeMap.Get(e)
}

// Primary returns the components of the first arena, the one the viewer shows.
func (r *Runner) Primary() (*components.Arena, *components.Learner, *components.Episode) {
	return r.Arena(0)
}

// Best returns the best episodes so far.
func (r *Runner) Best() *telemetry.BestEpisodes {
	return r.best
}

// Perf returns the step timing collector.
func (r *Runner) Perf() *telemetry.PerfCollector {
	return r.perf
}

// Paused reports whether Update is suspended.
func (r *Runner) Paused() bool {
	return r.paused
}

// SetPaused suspends or resumes Update.
func (r *Runner) SetPaused(p bool) {
	r.paused = p
}

// Close writes the best-episode ranking and closes the output files.
// Episodes still running are not recorded.
func (r *Runner) Close() error {
	if err := r.output.WriteBest(r.best); err != nil {
		slog.Error("failed to write best episodes", "error", err)
	}
	return r.output.Close()
}
