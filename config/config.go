// Package config provides configuration loading and access for the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all environment configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Agent     AgentConfig     `yaml:"agent"`
	Reward    RewardConfig    `yaml:"reward"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Arena     ArenaConfig     `yaml:"arena"`
	Episode   EpisodeConfig   `yaml:"episode"`
	Policy    PolicyConfig    `yaml:"policy"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the debug viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the reference physics parameters.
type PhysicsConfig struct {
	DT         float64 `yaml:"dt"`          // Fixed step duration in seconds
	Mass       float64 `yaml:"mass"`        // Agent rigid body mass
	Drag       float64 `yaml:"drag"`        // Linear damping per second
	BodyRadius float64 `yaml:"body_radius"` // Agent collision sphere radius
	Gravity    bool    `yaml:"gravity"`     // Hummingbirds hover; off by default
}

// AgentConfig holds controller parameters for the hummingbird agent.
type AgentConfig struct {
	MoveForce     float64    `yaml:"move_force"`
	PitchSpeed    float64    `yaml:"pitch_speed"`
	YawSpeed      float64    `yaml:"yaw_speed"`
	MaxPitchAngle float64    `yaml:"max_pitch_angle"` // Degrees
	SmoothingRate float64    `yaml:"smoothing_rate"`  // Max rate change per second
	BeakTipOffset [3]float64 `yaml:"beak_tip_offset"` // Local offset of the beak tip from the body origin
	BeakTipRadius float64    `yaml:"beak_tip_radius"` // Acceptance radius for nectar contact
	FeedAmount    float64    `yaml:"feed_amount"`     // Nectar requested per contact step
	TrainingMode  bool       `yaml:"training_mode"`
}

// RewardConfig holds reward shaping constants.
type RewardConfig struct {
	NectarBase           float64 `yaml:"nectar_base"`
	NectarAlignmentBonus float64 `yaml:"nectar_alignment_bonus"`
	BoundaryPenalty      float64 `yaml:"boundary_penalty"`
}

// SpawnConfig holds safe-spawn sampling parameters.
type SpawnConfig struct {
	Attempts         int        `yaml:"attempts"`
	ProbeRadius      float64    `yaml:"probe_radius"`
	NearFlowerChance float64    `yaml:"near_flower_chance"` // Training only
	FlowerDistance   [2]float64 `yaml:"flower_distance"`
	Height           [2]float64 `yaml:"height"`
	Radius           [2]float64 `yaml:"radius"`
	Pitch            [2]float64 `yaml:"pitch"`
}

// ArenaConfig holds arena layout parameters.
type ArenaConfig struct {
	Diameter        float64    `yaml:"diameter"`
	Instances       int        `yaml:"instances"`   // Arenas stepped side by side
	LayoutPath      string     `yaml:"layout_path"` // Optional YAML node tree (empty = generated)
	Plants          int        `yaml:"plants"`
	FlowersPerPlant int        `yaml:"flowers_per_plant"`
	RingInner       float64    `yaml:"ring_inner"`
	RingOuter       float64    `yaml:"ring_outer"`
	FlowerHeight    [2]float64 `yaml:"flower_height"`
	PetalRadius     float64    `yaml:"petal_radius"`
	NectarRadius    float64    `yaml:"nectar_radius"`
	NectarDepth     float64    `yaml:"nectar_depth"` // Offset of the nectar region along the flower up axis
	CeilingHeight   float64    `yaml:"ceiling_height"`
}

// EpisodeConfig holds episode boundary parameters.
type EpisodeConfig struct {
	MaxSteps       int    `yaml:"max_steps"`       // Training only; interactive episodes are unbounded
	DecisionPeriod int    `yaml:"decision_period"` // Steps between policy decisions
	DoneWhen       string `yaml:"done_when"`       // Optional expression ending an episode early
}

// PolicyConfig selects and tunes the scripted policy.
type PolicyConfig struct {
	Kind     string  `yaml:"kind"` // random, seek, tree, neural
	MoveGain float64 `yaml:"move_gain"`
	TurnGain float64 `yaml:"turn_gain"`
	Approach float64 `yaml:"approach"`  // Distance below which the policy slows its approach
	AlignDot float64 `yaml:"align_dot"` // Minimum facing alignment before closing in
	BackOff  float64 `yaml:"back_off"`  // Retreat speed when behind a flower

	WeightsPath string `yaml:"weights_path"` // Network weights for the neural kind; empty means random init
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`     // Seconds of simulated time per window
	BestEpisodes    int     `yaml:"best_episodes"`    // Size of the best-episode ranking
	BookmarkHistory int     `yaml:"bookmark_history"` // Windows remembered by the bookmark detector
	PerfWindow      int     `yaml:"perf_window"`      // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StepsPerSecond int     // 1 / Physics.DT, rounded
	AreaRadius     float64 // Arena.Diameter / 2
	WindowSteps    int     // Telemetry.StatsWindow expressed in steps
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	dup := *c
	return &dup
}

// validate rejects values the environment cannot run with.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Spawn.Attempts <= 0 {
		return fmt.Errorf("spawn.attempts must be positive, got %d", c.Spawn.Attempts)
	}
	if c.Arena.Diameter <= 0 {
		return fmt.Errorf("arena.diameter must be positive, got %v", c.Arena.Diameter)
	}
	if c.Episode.DecisionPeriod < 1 {
		return fmt.Errorf("episode.decision_period must be at least 1, got %d", c.Episode.DecisionPeriod)
	}
	switch c.Policy.Kind {
	case "random", "seek", "tree", "neural":
	default:
		return fmt.Errorf("policy.kind %q is not one of random, seek, tree, neural", c.Policy.Kind)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StepsPerSecond = int(1.0/c.Physics.DT + 0.5)
	c.Derived.AreaRadius = c.Arena.Diameter / 2
	c.Derived.WindowSteps = int(c.Telemetry.StatsWindow / c.Physics.DT)
	if c.Derived.WindowSteps < 1 {
		c.Derived.WindowSteps = 1
	}
	if c.Arena.Instances < 1 {
		c.Arena.Instances = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
