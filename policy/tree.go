package policy

import (
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/pthm-cable/hummingbird/agent"
)

// wanderTurn is the yaw rate used while no flower is tracked.
const wanderTurn = 0.3

// Tree is a behaviour-tree version of Seek with an explicit wander branch
// and a precision phase that creeps in once the beak is lined up:
//
//	selector
//	├── sequence: no target → wander
//	├── sequence: behind opening → back off
//	├── sequence: close and aligned → creep
//	└── approach
type Tree struct {
	seek Seek
	root bt.Node

	obs agent.Observation
	act agent.Action
}

func NewTree(p SeekParams) *Tree {
	t := &Tree{seek: Seek{Params: p}}
	t.root = bt.New(bt.Selector,
		bt.New(bt.Sequence, t.cond(t.noTarget), t.leaf(t.wander)),
		bt.New(bt.Sequence, t.cond(t.behind), t.leaf(t.retreat)),
		bt.New(bt.Sequence, t.cond(t.lined), t.leaf(t.creep)),
		t.leaf(t.approach),
	)
	return t
}

// Act implements Policy.
func (t *Tree) Act(obs agent.Observation) agent.Action {
	t.obs = obs
	t.act = agent.Action{}
	if _, err := t.root.Tick(); err != nil {
		return agent.Action{}
	}
	return t.act
}

func (t *Tree) cond(fn func() bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if fn() {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
}

func (t *Tree) leaf(fn func()) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		fn()
		return bt.Success, nil
	})
}

func (t *Tree) noTarget() bool {
	return t.obs == (agent.Observation{})
}

func (t *Tree) behind() bool {
	return t.obs[7] < 0
}

func (t *Tree) lined() bool {
	return t.seek.distance(t.obs) < t.seek.Params.Approach && t.obs[8] >= t.seek.Params.AlignDot
}

func (t *Tree) wander() {
	t.act[2] = t.seek.Params.MoveGain * 0.5
	t.act[4] = wanderTurn
}

func (t *Tree) retreat() {
	t.seek.steer(t.obs, &t.act)
	t.seek.backOff(t.obs, &t.act)
}

// creep closes the last gap at a fixed fraction of the move gain so
// contact is kept while feeding.
func (t *Tree) creep() {
	t.seek.steer(t.obs, &t.act)
	setMove(&t.act, toFlower(t.obs).scale(t.seek.Params.MoveGain*0.25))
}

func (t *Tree) approach() {
	t.seek.steer(t.obs, &t.act)
	t.seek.approach(t.obs, &t.act, t.seek.Params.MoveGain)
}
