package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/game"
	"github.com/pthm-cable/hummingbird/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	interactive := flag.Bool("interactive", false, "Unbounded episodes that keep flower state (freezable)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI override of the stats window
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
		cfg.Derived.WindowSteps = max(1, int(*statsWindow/cfg.Physics.DT))
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	mode := agent.ModeTraining
	if *interactive {
		mode = agent.ModeInteractive
	}

	opts := sim.Options{
		Seed:      rngSeed,
		Mode:      mode,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *maxTicks, *stepsPerUpdate))
	}
	os.Exit(runWindow(cfg, opts, *maxTicks, *stepsPerUpdate))
}

// runHeadless steps the arenas without raylib and returns the exit code.
func runHeadless(cfg *config.Config, opts sim.Options, maxTicks int64, steps int) int {
	r, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return 1
	}
	defer closeRunner(r)

	slog.Info("starting headless simulation",
		"run_id", r.RunID(),
		"seed", opts.Seed,
		"mode", opts.Mode.String(),
		"arenas", r.Arenas(),
		"max_ticks", maxTicks,
		"steps_per_update", steps,
	)

	for {
		if err := r.Update(steps); err != nil {
			slog.Error("simulation stopped", "tick", r.Tick(), "error", err)
			return 1
		}
		if maxTicks > 0 && r.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", r.Tick())
			return 0
		}
	}
}

// runWindow opens the viewer and returns the exit code.
func runWindow(cfg *config.Config, opts sim.Options, maxTicks int64, steps int) int {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Hummingbird")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts, steps)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return 1
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation stopped", "tick", g.Tick(), "error", err)
			return 1
		}
		g.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return 0
}

func closeRunner(r *sim.Runner) {
	if err := r.Close(); err != nil {
		slog.Error("failed to close runner", "error", err)
	}
}
