package policy

import (
	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/config"
)

// SeekParams tunes the scripted steering.
type SeekParams struct {
	MoveGain float32 // Move magnitude far from the flower
	TurnGain float32 // Turn rate per degree of heading error
	Approach float32 // Distance below which the approach slows down
	AlignDot float32 // Facing alignment required before closing the last gap
	BackOff  float32 // Retreat magnitude when the beak is behind the opening
	Diameter float32 // Arena diameter that scales the observed distance
}

// SeekParamsFromConfig reads the policy gains.
func SeekParamsFromConfig(cfg *config.Config) SeekParams {
	pc := cfg.Policy
	return SeekParams{
		MoveGain: float32(pc.MoveGain),
		TurnGain: float32(pc.TurnGain),
		Approach: float32(pc.Approach),
		AlignDot: float32(pc.AlignDot),
		BackOff:  float32(pc.BackOff),
		Diameter: float32(cfg.Arena.Diameter),
	}
}

// Seek turns the beak toward the tracked flower and flies at it, slowing
// down close in until the head is lined up with the opening.
type Seek struct {
	Params SeekParams
}

func NewSeek(p SeekParams) *Seek {
	return &Seek{Params: p}
}

// Act implements Policy.
func (s *Seek) Act(obs agent.Observation) agent.Action {
	var act agent.Action
	if obs == (agent.Observation{}) {
		return act
	}

	s.steer(obs, &act)
	if obs[7] < 0 {
		s.backOff(obs, &act)
		return act
	}
	s.approach(obs, &act, s.Params.MoveGain)
	return act
}

// steer sets pitch and yaw rates proportional to the heading error.
func (s *Seek) steer(obs agent.Observation, act *agent.Action) {
	fwd := forwardOf(obs[0], obs[1], obs[2], obs[3])
	fp, fy := heading(fwd)
	tp, ty := heading(toFlower(obs))

	act[3] = clampUnit(normalizeAngle(tp-fp) * radToDeg * s.Params.TurnGain)
	act[4] = clampUnit(normalizeAngle(ty-fy) * radToDeg * s.Params.TurnGain)
}

// distance recovers the beak to flower distance from the observation.
func (s *Seek) distance(obs agent.Observation) float32 {
	return obs[9] * s.Params.Diameter
}

// approach moves toward the flower, scaling speed down inside the approach
// radius and holding still there until the beak is aligned.
func (s *Seek) approach(obs agent.Observation, act *agent.Action, gain float32) {
	dist := s.distance(obs)
	speed := gain
	if dist < s.Params.Approach {
		speed *= dist / s.Params.Approach
		if obs[8] < s.Params.AlignDot {
			speed = 0
		}
	}
	setMove(act, toFlower(obs).scale(speed))
}

// backOff climbs away from the flower so the next approach starts in front
// of the opening.
func (s *Seek) backOff(obs agent.Observation, act *agent.Action) {
	away := toFlower(obs).scale(-s.Params.BackOff)
	setMove(act, away.add(vec3{y: s.Params.BackOff}))
}

func toFlower(obs agent.Observation) vec3 {
	return vec3{obs[4], obs[5], obs[6]}
}

func setMove(act *agent.Action, v vec3) {
	act[0], act[1], act[2] = v.x, v.y, v.z
}
