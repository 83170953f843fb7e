// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/physics"
	"github.com/pthm-cable/hummingbird/policy"
)

// Arena is one independent flower area with the physics world stepping it.
type Arena struct {
	Index int
	Area  *arena.FlowerArea
	World *physics.World
}

// Learner is the agent foraging in an arena and the policy choosing its actions.
type Learner struct {
	Agent  *agent.Agent
	Policy policy.Policy
	Action agent.Action // Repeated between decisions
}

// Episode tracks the running episode of an arena.
type Episode struct {
	ID        string
	Number    int
	Step      int     // Steps taken in this episode
	StartTick int64   // Runner tick the episode began on
	Reward    float64 // Sum of rewards handed to the learner
}

// FlowersWithNectar counts the flowers of the arena that still hold nectar.
func (a *Arena) FlowersWithNectar() int {
	n := 0
	for _, f := range a.Area.Flowers() {
		if f.HasNectar() {
			n++
		}
	}
	return n
}
