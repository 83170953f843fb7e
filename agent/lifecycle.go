package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrTrainingMode is returned when interactive-only control is requested
	// from an agent in training mode.
	ErrTrainingMode = errors.New("agent: freeze control is only available in interactive mode")

	// ErrNoSafePosition is returned when spawn sampling exhausts its
	// attempts. The arena configuration cannot host the agent.
	ErrNoSafePosition = errors.New("agent: no safe spawn position")
)

// Mode selects the agent lifecycle.
type Mode uint8

const (
	ModeTraining    Mode = iota // Flowers reset every episode, rewards shaped, step limit applies
	ModeInteractive             // Unbounded episodes, can be frozen
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeInteractive {
		return "interactive"
	}
	return "training"
}

// ModeFromTraining maps a training flag to a Mode.
func ModeFromTraining(training bool) Mode {
	if training {
		return ModeTraining
	}
	return ModeInteractive
}

// Interactive controls the frozen state of an interactive agent.
type Interactive struct {
	agent  *Agent
	frozen bool
}

// Freeze puts the body to sleep and suppresses actions.
func (i *Interactive) Freeze() {
	i.frozen = true
	i.agent.body.Sleep()
}

// Unfreeze wakes the body and resumes actions.
func (i *Interactive) Unfreeze() {
	i.frozen = false
	i.agent.body.WakeUp()
}

// Frozen reports whether the agent is frozen.
func (i *Interactive) Frozen() bool {
	return i.frozen
}

// Mode returns the agent lifecycle mode.
func (a *Agent) Mode() Mode {
	if a.interactive != nil {
		return ModeInteractive
	}
	return ModeTraining
}

// Training reports whether the agent is in training mode.
func (a *Agent) Training() bool {
	return a.interactive == nil
}

// Interactive returns the freeze control of an interactive agent.
func (a *Agent) Interactive() (*Interactive, error) {
	if a.interactive == nil {
		return nil, ErrTrainingMode
	}
	return a.interactive, nil
}

func (a *Agent) frozen() bool {
	return a.interactive != nil && a.interactive.frozen
}

// MaxStep returns the episode step limit, 0 for unbounded.
func (a *Agent) MaxStep() int {
	if a.Training() {
		return a.params.MaxSteps
	}
	return 0
}

// OnEpisodeBegin prepares a new episode: in training the flowers are reset,
// then the body is stopped, placed somewhere safe and the nearest flower is
// looked up again. Smoothed steering rates carry over.
func (a *Agent) OnEpisodeBegin() error {
	if a.Training() {
		a.area.ResetFlowers(a.rng)
	}

	a.nectarObtained = 0
	a.pendingReward = 0
	a.cumulativeReward = 0
	a.stats = Stats{}
	a.episode++

	a.body.ResetVelocity()

	near := true
	if a.Training() {
		near = a.rng.Float64() < a.params.NearFlowerChance
	}
	a.stats.NearSpawn = near

	attempts, err := a.MoveToSafeRandomPosition(near)
	a.stats.SpawnAttempts = attempts
	if err != nil {
		return fmt.Errorf("episode %d: %w", a.episode, err)
	}

	a.UpdateNearestFlower()
	return nil
}
