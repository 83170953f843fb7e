package sim

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/policy"
	"github.com/pthm-cable/hummingbird/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Arena.Instances = 1
	cfg.Episode.MaxSteps = 10
	cfg.Episode.DecisionPeriod = 1
	cfg.Episode.DoneWhen = ""
	return cfg
}

type countingPolicy struct{ calls int }

func (p *countingPolicy) Act(agent.Observation) agent.Action {
	p.calls++
	return agent.Action{0, 0, 1, 0, 0}
}

func TestNew_BuildsArenas(t *testing.T) {
	cfg := testConfig(t)
	cfg.Arena.Instances = 3

	r, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Arenas() != 3 {
		t.Fatalf("Arenas = %d, want 3", r.Arenas())
	}
	for i := 0; i < r.Arenas(); i++ {
		a, l, ep := r.Arena(i)
		if a.Index != i {
			t.Errorf("arena %d has index %d", i, a.Index)
		}
		if ep.Number != 1 || ep.Step != 0 || ep.ID == "" {
			t.Errorf("arena %d episode = %+v", i, ep)
		}
		if l.Agent.Area() != a.Area {
			t.Errorf("arena %d agent bound to another area", i)
		}
	}
	if r.RunID() == "" {
		t.Error("empty run id")
	}
}

func TestStep_MaxStepsRestartsEpisode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Arena.Instances = 2

	var records []telemetry.EpisodeRecord
	r, err := New(cfg, Options{Seed: 2, OnEpisode: func(rec telemetry.EpisodeRecord) {
		records = append(records, rec)
	}})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Update(25); err != nil {
		t.Fatal(err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d episodes, want 4", len(records))
	}
	for _, rec := range records {
		if rec.Steps != 10 || rec.Reason != telemetry.EndMaxSteps {
			t.Errorf("record = %+v", rec)
		}
		if rec.RunID != r.RunID() {
			t.Errorf("run id %q, want %q", rec.RunID, r.RunID())
		}
	}
	if records[0].EpisodeID == records[2].EpisodeID {
		t.Error("episode ids repeat across episodes")
	}

	_, _, ep := r.Primary()
	if ep.Number != 3 || ep.Step != 5 {
		t.Errorf("primary episode = %+v, want number 3 at step 5", ep)
	}
	if r.Tick() != 25 {
		t.Errorf("Tick = %d, want 25", r.Tick())
	}
}

func TestStep_DoneWhen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Episode.MaxSteps = 1000
	cfg.Episode.DoneWhen = "step >= 3 && flowers_left > 0"

	var records []telemetry.EpisodeRecord
	r, err := New(cfg, Options{Seed: 3, OnEpisode: func(rec telemetry.EpisodeRecord) {
		records = append(records, rec)
	}})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Update(7); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d episodes, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Steps != 3 || rec.Reason != telemetry.EndDoneWhen {
			t.Errorf("record = %+v", rec)
		}
	}
}

func TestStep_DecisionPeriod(t *testing.T) {
	cfg := testConfig(t)
	cfg.Episode.MaxSteps = 1000
	cfg.Episode.DecisionPeriod = 5

	pol := &countingPolicy{}
	r, err := New(cfg, Options{Seed: 4, NewPolicy: func(*rand.Rand) policy.Policy { return pol }})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Update(12); err != nil {
		t.Fatal(err)
	}
	if pol.calls != 3 {
		t.Errorf("policy called %d times, want 3", pol.calls)
	}

	_, l, _ := r.Primary()
	if l.Action[2] != 1 {
		t.Errorf("last action not kept between decisions: %v", l.Action)
	}
}

func TestStep_InteractiveIsUnbounded(t *testing.T) {
	cfg := testConfig(t)

	ended := 0
	r, err := New(cfg, Options{Seed: 5, Mode: agent.ModeInteractive, OnEpisode: func(telemetry.EpisodeRecord) { ended++ }})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Update(50); err != nil {
		t.Fatal(err)
	}
	if ended != 0 {
		t.Errorf("%d interactive episodes ended", ended)
	}
	if _, _, ep := r.Primary(); ep.Step != 50 {
		t.Errorf("step = %d, want 50", ep.Step)
	}
}

func TestUpdate_Paused(t *testing.T) {
	r, err := New(testConfig(t), Options{Seed: 6})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	r.SetPaused(true)
	if err := r.Update(5); err != nil {
		t.Fatal(err)
	}
	if r.Tick() != 0 {
		t.Errorf("paused runner advanced to tick %d", r.Tick())
	}
	r.SetPaused(false)
	if err := r.Update(5); err != nil {
		t.Fatal(err)
	}
	if r.Tick() != 5 {
		t.Errorf("Tick = %d, want 5", r.Tick())
	}
}

func TestRunner_Deterministic(t *testing.T) {
	run := func() []telemetry.EpisodeRecord {
		var out []telemetry.EpisodeRecord
		cfg := testConfig(t)
		cfg.Episode.MaxSteps = 40
		r, err := New(cfg, Options{Seed: 7, OnEpisode: func(rec telemetry.EpisodeRecord) { out = append(out, rec) }})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		if err := r.Update(120); err != nil {
			t.Fatal(err)
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) || len(a) != 3 {
		t.Fatalf("episode counts %d and %d, want 3", len(a), len(b))
	}
	for i := range a {
		if a[i].Reward != b[i].Reward || a[i].Nectar != b[i].Nectar || a[i].BoundaryHits != b[i].BoundaryHits {
			t.Errorf("episode %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNew_SpawnFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Spawn.ProbeRadius = 1000

	_, err := New(cfg, Options{Seed: 8})
	if !errors.Is(err, agent.ErrNoSafePosition) {
		t.Errorf("err = %v, want ErrNoSafePosition", err)
	}
}

func TestNew_BadDoneWhen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Episode.DoneWhen = "step +"

	if _, err := New(cfg, Options{Seed: 9}); err == nil {
		t.Error("expected compile error")
	}
}

func TestRunner_Output(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := testConfig(t)
	cfg.Derived.WindowSteps = 10

	r, err := New(cfg, Options{Seed: 10, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Update(30); err != nil {
		t.Fatal(err)
	}
	if r.Best().Len() != 3 {
		t.Errorf("best episodes = %d, want 3", r.Best().Len())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{telemetry.EpisodesFile, telemetry.WindowsFile, telemetry.PerfFile, telemetry.BestFile, telemetry.ConfigFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.Size() == 0 {
			t.Errorf("%s missing or empty: %v", name, err)
		}
	}
}

func TestStep_OnWindow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Derived.WindowSteps = 5

	var windows []telemetry.WindowStats
	r, err := New(cfg, Options{Seed: 1, OnWindow: func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for i := 0; i < 12; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 5 || windows[1].WindowEndTick != 10 {
		t.Errorf("window ends = %d, %d, want 5, 10", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[1].Episodes != 1 {
		t.Errorf("second window episodes = %d, want 1", windows[1].Episodes)
	}
}
