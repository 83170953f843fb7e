package agent

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/geom"
)

// CollectObservations builds the policy input. Without a tracked flower the
// zero vector is returned.
//
//	[0:4]  orientation quaternion relative to the area root (x, y, z, w)
//	[4:7]  unit vector from beak tip to flower
//	[7]    beak tip in front of the opening (+1) or behind it (-1)
//	[8]    beak pointing into the opening (+1) or away (-1)
//	[9]    beak tip to flower distance / arena diameter
func (a *Agent) CollectObservations() Observation {
	var obs Observation
	if a.nearest < 0 {
		return obs
	}

	f := a.area.Flowers()[a.nearest]
	rot := geom.Normalize(a.body.Rotation())
	local := geom.Normalize(quat.Mul(quat.Conj(a.area.Rotation()), rot))
	toFlower := r3.Sub(f.CenterPosition(), a.BeakTip())
	dir := geom.Unit(toFlower)
	into := r3.Scale(-1, f.UpAxis())

	obs[0] = float32(local.Imag)
	obs[1] = float32(local.Jmag)
	obs[2] = float32(local.Kmag)
	obs[3] = float32(local.Real)
	obs[4] = float32(dir.X)
	obs[5] = float32(dir.Y)
	obs[6] = float32(dir.Z)
	obs[7] = float32(r3.Dot(dir, into))
	obs[8] = float32(r3.Dot(geom.Rotate(rot, geom.Forward), into))
	obs[9] = float32(r3.Norm(toFlower) / a.params.AreaDiameter)

	return obs
}

// OnActionReceived applies one step of policy output. Out-of-range values
// are not clamped. Nothing happens while frozen.
func (a *Agent) OnActionReceived(act Action) {
	if a.frozen() {
		return
	}
	p := a.params

	move := r3.Vec{X: float64(act[0]), Y: float64(act[1]), Z: float64(act[2])}
	a.body.AddForce(r3.Scale(p.MoveForce, move))

	pitch, yaw := geom.PitchYaw(a.body.Rotation())

	maxDelta := p.SmoothingRate * p.DT
	a.smoothPitch = geom.MoveTowards(a.smoothPitch, float64(act[3]), maxDelta)
	a.smoothYaw = geom.MoveTowards(a.smoothYaw, float64(act[4]), maxDelta)

	pitch += a.smoothPitch * p.DT * p.PitchSpeed
	if pitch > 180 {
		pitch -= 360
	}
	pitch = geom.Clamp(pitch, -p.MaxPitchAngle, p.MaxPitchAngle)

	yaw += a.smoothYaw * p.DT * p.YawSpeed

	a.body.SetRotation(geom.Euler(pitch, yaw, 0))
}

// SmoothedRates returns the current pitch and yaw steering rates.
func (a *Agent) SmoothedRates() (pitch, yaw float64) {
	return a.smoothPitch, a.smoothYaw
}

// UpdateNearestFlower scans every flower and tracks the one with nectar
// closest to the beak tip. Ties keep the first flower seen. When no flower
// has nectar the last tracked flower is kept.
func (a *Agent) UpdateNearestFlower() {
	flowers := a.area.Flowers()
	tip := a.BeakTip()

	for i, f := range flowers {
		if !f.HasNectar() {
			continue
		}
		if a.nearest < 0 {
			a.nearest = i
			continue
		}
		cur := flowers[a.nearest]
		if !cur.HasNectar() || geom.Distance(cur.CenterPosition(), tip) > geom.Distance(f.CenterPosition(), tip) {
			a.nearest = i
		}
	}
}

// OnTriggerEnter handles the body starting to touch a trigger region.
func (a *Agent) OnTriggerEnter(c TriggerContact) {
	a.tryCollect(c)
}

// OnTriggerStay handles the body still touching a trigger region.
func (a *Agent) OnTriggerStay(c TriggerContact) {
	a.tryCollect(c)
}

// tryCollect feeds from a nectar region when the beak tip is inside it.
func (a *Agent) tryCollect(c TriggerContact) {
	if c.Tag() != arena.TagNectar {
		return
	}

	tip := a.BeakTip()
	if geom.Distance(c.ClosestPoint(tip), tip) >= a.params.BeakTipRadius {
		return
	}

	f := a.area.FlowerOwning(c.Region())
	had := f.HasNectar()
	a.nectarObtained += f.Feed(a.params.FeedAmount)
	a.stats.Sips++

	if a.Training() {
		align := geom.Clamp01(r3.Dot(a.Forward(), r3.Scale(-1, f.UpAxis())))
		a.AddReward(a.params.NectarBase + a.params.NectarAlignmentBonus*align)
	}

	if !f.HasNectar() {
		if had {
			a.stats.FlowersEmptied++
		}
		a.UpdateNearestFlower()
	}
}

// OnCollisionEnter handles the body hitting a solid region.
func (a *Agent) OnCollisionEnter(tag arena.Tag) {
	if tag != arena.TagBoundary {
		return
	}
	a.stats.BoundaryHits++
	if a.Training() {
		a.AddReward(a.params.BoundaryPenalty)
	}
}

// FixedUpdate runs once per step after contacts are processed. It picks a
// new flower when the tracked one was drained by someone else.
func (a *Agent) FixedUpdate() {
	if a.nearest >= 0 && !a.area.Flowers()[a.nearest].HasNectar() {
		a.UpdateNearestFlower()
	}
}
