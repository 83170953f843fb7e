// Package agent implements the hummingbird controller: it turns the arena
// state into observations, applies policy actions to a rigid body, tracks
// the nearest flower that still has nectar and shapes rewards.
package agent

import (
	"math/rand"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

// ObservationSize and ActionSize are the lengths of the policy channels.
const (
	ObservationSize = 10
	ActionSize      = 5
)

// Observation is the vector handed to the policy every step.
type Observation [ObservationSize]float32

// Action is the vector returned by the policy: a move direction (0-2) and
// pitch and yaw rates (3-4), each nominally in [-1, 1].
type Action [ActionSize]float32

// Body is the rigid body the agent drives. Integration and collision
// detection belong to the implementation.
type Body interface {
	Position() r3.Vec
	Rotation() quat.Number
	SetPose(pos r3.Vec, rot quat.Number)
	SetRotation(rot quat.Number)
	AddForce(f r3.Vec)
	ResetVelocity()
	Sleep()
	WakeUp()
}

// PlacementOracle answers whether any geometry intersects a sphere.
type PlacementOracle interface {
	OverlapsAnything(point r3.Vec, radius float64) bool
}

// TriggerContact is a trigger region the body is touching.
type TriggerContact interface {
	Tag() arena.Tag
	Region() arena.RegionID
	ClosestPoint(p r3.Vec) r3.Vec
}

// Params holds the controller constants.
type Params struct {
	DT            float64
	MoveForce     float64
	PitchSpeed    float64
	YawSpeed      float64
	MaxPitchAngle float64
	SmoothingRate float64
	BeakTipOffset r3.Vec
	BeakTipRadius float64
	FeedAmount    float64

	NectarBase           float64
	NectarAlignmentBonus float64
	BoundaryPenalty      float64

	SpawnAttempts    int
	ProbeRadius      float64
	NearFlowerChance float64
	FlowerDistance   [2]float64
	SpawnHeight      [2]float64
	SpawnRadius      [2]float64
	SpawnPitch       [2]float64

	MaxSteps     int
	AreaDiameter float64 // Normalizes the observed flower distance
}

// ParamsFromConfig extracts controller constants from the configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	off := cfg.Agent.BeakTipOffset
	return Params{
		DT:            cfg.Physics.DT,
		MoveForce:     cfg.Agent.MoveForce,
		PitchSpeed:    cfg.Agent.PitchSpeed,
		YawSpeed:      cfg.Agent.YawSpeed,
		MaxPitchAngle: cfg.Agent.MaxPitchAngle,
		SmoothingRate: cfg.Agent.SmoothingRate,
		BeakTipOffset: r3.Vec{X: off[0], Y: off[1], Z: off[2]},
		BeakTipRadius: cfg.Agent.BeakTipRadius,
		FeedAmount:    cfg.Agent.FeedAmount,

		NectarBase:           cfg.Reward.NectarBase,
		NectarAlignmentBonus: cfg.Reward.NectarAlignmentBonus,
		BoundaryPenalty:      cfg.Reward.BoundaryPenalty,

		SpawnAttempts:    cfg.Spawn.Attempts,
		ProbeRadius:      cfg.Spawn.ProbeRadius,
		NearFlowerChance: cfg.Spawn.NearFlowerChance,
		FlowerDistance:   cfg.Spawn.FlowerDistance,
		SpawnHeight:      cfg.Spawn.Height,
		SpawnRadius:      cfg.Spawn.Radius,
		SpawnPitch:       cfg.Spawn.Pitch,

		MaxSteps:     cfg.Episode.MaxSteps,
		AreaDiameter: cfg.Arena.Diameter,
	}
}

// Stats counts what happened during the current episode.
type Stats struct {
	Sips           int
	FlowersEmptied int
	BoundaryHits   int
	SpawnAttempts  int
	NearSpawn      bool
}

// Agent is the per-arena controller. It is not safe for concurrent use.
type Agent struct {
	params Params
	area   *arena.FlowerArea
	body   Body
	oracle PlacementOracle
	rng    *rand.Rand

	// nil in training mode
	interactive *Interactive

	nearest        int // Index into area.Flowers(), -1 when none
	smoothPitch    float64
	smoothYaw      float64
	nectarObtained float64

	pendingReward    float64
	cumulativeReward float64

	episode int
	stats   Stats
}

// New creates an agent driving body inside area.
func New(area *arena.FlowerArea, body Body, oracle PlacementOracle, params Params, mode Mode, rng *rand.Rand) *Agent {
	a := &Agent{
		params:  params,
		area:    area,
		body:    body,
		oracle:  oracle,
		rng:     rng,
		nearest: -1,
	}
	if mode == ModeInteractive {
		a.interactive = &Interactive{agent: a}
	}
	return a
}

// Area returns the flower area the agent forages in.
func (a *Agent) Area() *arena.FlowerArea {
	return a.area
}

// Body returns the driven body.
func (a *Agent) Body() Body {
	return a.body
}

// Params returns the controller constants.
func (a *Agent) Params() Params {
	return a.params
}

// BeakTip returns the world position of the beak tip.
func (a *Agent) BeakTip() r3.Vec {
	return r3.Add(a.body.Position(), geom.Rotate(a.body.Rotation(), a.params.BeakTipOffset))
}

// Forward returns the world facing direction.
func (a *Agent) Forward() r3.Vec {
	return geom.Rotate(a.body.Rotation(), geom.Forward)
}

// NectarObtained returns the nectar collected this episode.
func (a *Agent) NectarObtained() float64 {
	return a.nectarObtained
}

// Nearest returns the tracked flower and its index, or nil and -1.
func (a *Agent) Nearest() (*arena.Flower, int) {
	if a.nearest < 0 {
		return nil, -1
	}
	return a.area.Flowers()[a.nearest], a.nearest
}

// NearestFlowerLine returns the segment from the beak tip to the tracked
// flower's nectar, for debug drawing.
func (a *Agent) NearestFlowerLine() (from, to r3.Vec, ok bool) {
	f, _ := a.Nearest()
	if f == nil {
		return r3.Vec{}, r3.Vec{}, false
	}
	return a.BeakTip(), f.CenterPosition(), true
}

// AddReward queues a reward delta for the training framework.
func (a *Agent) AddReward(r float64) {
	a.pendingReward += r
	a.cumulativeReward += r
}

// TakeReward returns and clears the reward accumulated since the last call.
func (a *Agent) TakeReward() float64 {
	r := a.pendingReward
	a.pendingReward = 0
	return r
}

// CumulativeReward returns the total reward of the current episode.
func (a *Agent) CumulativeReward() float64 {
	return a.cumulativeReward
}

// Episode returns the number of episodes begun.
func (a *Agent) Episode() int {
	return a.episode
}

// Stats returns the current episode counters.
func (a *Agent) Stats() Stats {
	return a.stats
}
