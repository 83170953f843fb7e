// Package policy provides policies that map observations to actions. The
// scripted kinds stand in for a learner when running the environment on its
// own; the neural kind runs a small network whose weights the optimizer can
// search.
package policy

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/neural"
)

// Policy maps an observation to an action.
type Policy interface {
	Act(obs agent.Observation) agent.Action
}

// New builds the configured policy.
func New(cfg *config.Config, rng *rand.Rand) (Policy, error) {
	params := SeekParamsFromConfig(cfg)
	switch cfg.Policy.Kind {
	case "random":
		return NewRandom(rng), nil
	case "seek":
		return NewSeek(params), nil
	case "tree":
		return NewTree(params), nil
	case "neural":
		if cfg.Policy.WeightsPath == "" {
			return NewNeural(neural.NewFFNN(rng)), nil
		}
		net, err := neural.Load(cfg.Policy.WeightsPath)
		if err != nil {
			return nil, err
		}
		return NewNeural(net), nil
	default:
		return nil, fmt.Errorf("unknown policy kind %q", cfg.Policy.Kind)
	}
}

// Random samples every action component uniformly from [-1, 1].
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Act(agent.Observation) agent.Action {
	var act agent.Action
	for i := range act {
		act[i] = r.rng.Float32()*2 - 1
	}
	return act
}
