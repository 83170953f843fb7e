package agent

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/arena"
	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/geom"
)

// ---------- Test doubles ----------

type fakeBody struct {
	pos       r3.Vec
	rot       quat.Number
	force     r3.Vec
	velResets int
	poses     int
	asleep    bool
}

func newFakeBody() *fakeBody {
	return &fakeBody{rot: geom.Identity}
}

func (b *fakeBody) Position() r3.Vec          { return b.pos }
func (b *fakeBody) Rotation() quat.Number     { return b.rot }
func (b *fakeBody) SetRotation(q quat.Number) { b.rot = q }
func (b *fakeBody) AddForce(f r3.Vec)         { b.force = r3.Add(b.force, f) }
func (b *fakeBody) ResetVelocity()            { b.velResets++ }
func (b *fakeBody) Sleep()                    { b.asleep = true }
func (b *fakeBody) WakeUp()                   { b.asleep = false }

func (b *fakeBody) SetPose(pos r3.Vec, rot quat.Number) {
	b.pos, b.rot = pos, rot
	b.poses++
}

type oracleFunc func(point r3.Vec, radius float64) bool

func (f oracleFunc) OverlapsAnything(point r3.Vec, radius float64) bool { return f(point, radius) }

var freeSpace = oracleFunc(func(r3.Vec, float64) bool { return false })

type contact struct {
	tag    arena.Tag
	region arena.RegionID
	point  r3.Vec
}

func (c contact) Tag() arena.Tag             { return c.tag }
func (c contact) Region() arena.RegionID     { return c.region }
func (c contact) ClosestPoint(r3.Vec) r3.Vec { return c.point }

// Two flowers on the +Z axis, both opening toward the origin.
const lineLayout = `
name: area
children:
  - name: far
    kind: flower
    position: [0, 0, 5]
    rotation: [-90, 0, 0]
  - name: near
    kind: flower
    position: [0, 0, 2]
    rotation: [-90, 0, 0]
`

func testParams(t *testing.T) Params {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	p := ParamsFromConfig(cfg)
	p.BeakTipOffset = r3.Vec{}
	return p
}

func newTestAgent(t *testing.T, layout string, mode Mode) (*Agent, *fakeBody) {
	t.Helper()
	root, err := arena.ParseLayout([]byte(layout))
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	area, err := arena.NewFlowerArea(root)
	if err != nil {
		t.Fatalf("NewFlowerArea: %v", err)
	}
	body := newFakeBody()
	return New(area, body, freeSpace, testParams(t), mode, rand.New(rand.NewSource(1))), body
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ---------- Observations ----------

func TestCollectObservations_NoFlower(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	for _, f := range a.Area().Flowers() {
		f.Feed(1)
	}
	a.UpdateNearestFlower()

	obs := a.CollectObservations()
	if len(obs) != ObservationSize {
		t.Fatalf("observation length %d", len(obs))
	}
	if obs != (Observation{}) {
		t.Errorf("expected zero observation, got %v", obs)
	}
}

func TestCollectObservations_FacingFlower(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	a.UpdateNearestFlower()

	obs := a.CollectObservations()
	want := Observation{0, 0, 0, 1, 0, 0, 1, 1, 1, 0.1}
	for i := range want {
		if !near(float64(obs[i]), float64(want[i]), 1e-6) {
			t.Errorf("obs[%d] = %v, want %v", i, obs[i], want[i])
		}
	}
	if obs == (Observation{}) {
		t.Error("observation should not be zero with a tracked flower")
	}
}

func TestCollectObservations_BehindFlower(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	body.pos = r3.Vec{Z: 3}
	body.rot = geom.Euler(0, 180, 0)
	a.UpdateNearestFlower()

	obs := a.CollectObservations()
	if !near(float64(obs[7]), -1, 1e-6) {
		t.Errorf("obs[7] = %v, want -1 behind the opening", obs[7])
	}
	if !near(float64(obs[8]), -1, 1e-6) {
		t.Errorf("obs[8] = %v, want -1 facing away from the opening", obs[8])
	}
}

func TestCollectObservations_RelativeToAreaRoot(t *testing.T) {
	const rotatedLayout = `
name: area
rotation: [0, 90, 0]
children:
  - name: bloom
    kind: flower
    position: [0, 0, 2]
    rotation: [-90, 0, 0]
`
	a, body := newTestAgent(t, rotatedLayout, ModeTraining)
	body.rot = geom.Euler(10, 90, 0)
	a.UpdateNearestFlower()

	obs := a.CollectObservations()
	want := geom.Euler(10, 0, 0)
	got := [4]float64{float64(obs[0]), float64(obs[1]), float64(obs[2]), float64(obs[3])}
	for i, w := range [4]float64{want.Imag, want.Jmag, want.Kmag, want.Real} {
		if !near(got[i], w, 1e-6) {
			t.Errorf("obs[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestCollectObservations_DiameterFromParams(t *testing.T) {
	root, err := arena.ParseLayout([]byte(lineLayout))
	if err != nil {
		t.Fatal(err)
	}
	area, err := arena.NewFlowerArea(root)
	if err != nil {
		t.Fatal(err)
	}
	p := testParams(t)
	p.AreaDiameter = 40
	a := New(area, newFakeBody(), freeSpace, p, ModeTraining, rand.New(rand.NewSource(1)))
	a.UpdateNearestFlower()

	if obs := a.CollectObservations(); !near(float64(obs[9]), 0.05, 1e-6) {
		t.Errorf("obs[9] = %v, want 2/40", obs[9])
	}
}

// ---------- Nearest flower ----------

func TestUpdateNearestFlower_SkipsEmpty(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	flowers := a.Area().Flowers()
	flowers[1].Feed(1) // near flower at distance 2 drained

	a.UpdateNearestFlower()
	f, i := a.Nearest()
	if i != 0 || f != flowers[0] {
		t.Errorf("nearest = %d, want the far flower with nectar", i)
	}
}

func TestUpdateNearestFlower_PicksClosest(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	a.UpdateNearestFlower()
	if _, i := a.Nearest(); i != 1 {
		t.Errorf("nearest = %d, want 1", i)
	}
}

func TestUpdateNearestFlower_TieKeepsFirst(t *testing.T) {
	layout := `
children:
  - {name: left, kind: flower, position: [-2, 0, 0]}
  - {name: right, kind: flower, position: [2, 0, 0]}
`
	a, _ := newTestAgent(t, layout, ModeTraining)
	a.UpdateNearestFlower()
	if _, i := a.Nearest(); i != 0 {
		t.Errorf("nearest = %d, want first-seen 0", i)
	}
}

func TestFixedUpdate_RetracksDrainedFlower(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	a.UpdateNearestFlower()

	a.Area().Flowers()[1].Feed(1)
	a.FixedUpdate()

	if _, i := a.Nearest(); i != 0 {
		t.Errorf("nearest = %d after third-party drain, want 0", i)
	}
}

func TestUpdateNearestFlower_AllDrainedKeepsLast(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	a.UpdateNearestFlower()
	if _, i := a.Nearest(); i != 1 {
		t.Fatalf("nearest = %d, want 1", i)
	}

	for _, f := range a.Area().Flowers() {
		f.Feed(1)
	}
	a.FixedUpdate()

	f, i := a.Nearest()
	if i != 1 || f == nil {
		t.Fatalf("nearest = %d after draining every flower, want the last tracked 1", i)
	}
	if f.HasNectar() {
		t.Error("tracked flower should be empty")
	}
	obs := a.CollectObservations()
	if obs == (Observation{}) {
		t.Error("observation should still describe the drained flower")
	}
	if !near(float64(obs[9]), 0.1, 1e-6) {
		t.Errorf("obs[9] = %v, want 0.1", obs[9])
	}
}

// ---------- Collection ----------

func TestCollect_DrainsFlower(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	a.UpdateNearestFlower()
	target := a.Area().Flowers()[1]
	c := contact{tag: arena.TagNectar, region: target.Region(), point: body.pos}

	a.OnTriggerEnter(c)
	for i := 1; i < 100; i++ {
		a.OnTriggerStay(c)
	}

	if target.HasNectar() {
		t.Errorf("flower still has %v nectar after 100 sips", target.NectarAmount())
	}
	if !near(a.NectarObtained(), 1, 1e-9) {
		t.Errorf("NectarObtained = %v, want 1", a.NectarObtained())
	}
	// Facing straight into the opening earns the full alignment bonus
	if !near(a.CumulativeReward(), 100*0.03, 1e-9) {
		t.Errorf("CumulativeReward = %v, want 3", a.CumulativeReward())
	}
	if _, i := a.Nearest(); i != 0 {
		t.Errorf("nearest = %d after draining, want 0", i)
	}
	if s := a.Stats(); s.Sips != 100 || s.FlowersEmptied != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCollect_Ignored(t *testing.T) {
	tests := []struct {
		name string
		c    func(a *Agent) contact
	}{
		{"petal tag", func(a *Agent) contact {
			return contact{tag: arena.TagPetal, region: a.Area().Flowers()[0].Region()}
		}},
		{"beak too far", func(a *Agent) contact {
			return contact{tag: arena.TagNectar, region: a.Area().Flowers()[0].Region(), point: r3.Vec{Z: 0.008}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAgent(t, lineLayout, ModeTraining)
			a.OnTriggerEnter(tt.c(a))
			if a.NectarObtained() != 0 || a.TakeReward() != 0 {
				t.Error("contact should have been ignored")
			}
			if a.Area().Flowers()[0].NectarAmount() != 1 {
				t.Error("flower was fed")
			}
		})
	}
}

func TestCollect_InteractiveNoReward(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeInteractive)
	c := contact{tag: arena.TagNectar, region: a.Area().Flowers()[0].Region(), point: body.pos}

	a.OnTriggerStay(c)
	if !near(a.NectarObtained(), 0.01, 1e-12) {
		t.Errorf("NectarObtained = %v, want 0.01", a.NectarObtained())
	}
	if r := a.TakeReward(); r != 0 {
		t.Errorf("interactive reward = %v, want 0", r)
	}
}

func TestCollect_UnknownRegionPanics(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered nectar region")
		}
	}()
	a.OnTriggerEnter(contact{tag: arena.TagNectar, region: "stray", point: body.pos})
}

// ---------- Boundary ----------

func TestOnCollisionEnter_BoundaryPenalty(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	body.pos = r3.Vec{X: 1, Y: 2, Z: 3}

	a.OnCollisionEnter(arena.TagBoundary)

	if r := a.TakeReward(); !near(r, -0.5, 1e-12) {
		t.Errorf("reward = %v, want -0.5", r)
	}
	if r := a.TakeReward(); r != 0 {
		t.Errorf("reward applied twice: %v", r)
	}
	if body.pos != (r3.Vec{X: 1, Y: 2, Z: 3}) || body.poses != 0 {
		t.Error("boundary collision moved the agent")
	}
	for _, f := range a.Area().Flowers() {
		if f.NectarAmount() != 1 {
			t.Error("boundary collision changed nectar")
		}
	}

	a.OnCollisionEnter(arena.TagPetal)
	if r := a.TakeReward(); r != 0 {
		t.Errorf("petal collision reward = %v", r)
	}
}

func TestOnCollisionEnter_InteractiveNoPenalty(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeInteractive)
	a.OnCollisionEnter(arena.TagBoundary)
	if r := a.TakeReward(); r != 0 {
		t.Errorf("reward = %v, want 0", r)
	}
	if a.Stats().BoundaryHits != 1 {
		t.Errorf("BoundaryHits = %d", a.Stats().BoundaryHits)
	}
}

// ---------- Actions ----------

func TestOnActionReceived_Force(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	a.OnActionReceived(Action{1, -0.5, 2, 0, 0})

	want := r3.Scale(a.Params().MoveForce, r3.Vec{X: 1, Y: -0.5, Z: 2})
	if geom.Distance(body.force, want) > 1e-9 {
		t.Errorf("force = %v, want %v", body.force, want)
	}
}

func TestOnActionReceived_SmoothingIsRateLimited(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	p := a.Params()

	a.OnActionReceived(Action{0, 0, 0, 1, -1})

	sp, sy := a.SmoothedRates()
	step := p.SmoothingRate * p.DT
	if !near(sp, step, 1e-12) || !near(sy, -step, 1e-12) {
		t.Errorf("smoothed rates = %v, %v, want ±%v", sp, sy, step)
	}

	pitch, _ := geom.PitchYaw(body.rot)
	if !near(pitch, step*p.DT*p.PitchSpeed, 1e-6) {
		t.Errorf("pitch = %v, want %v", pitch, step*p.DT*p.PitchSpeed)
	}
}

func TestOnActionReceived_PitchClamped(t *testing.T) {
	tests := []struct {
		name string
		rate float32
		want float64
	}{
		{"down", 1, 80},
		{"up", -1, 280},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, body := newTestAgent(t, lineLayout, ModeTraining)
			for i := 0; i < 500; i++ {
				a.OnActionReceived(Action{0, 0, 0, tt.rate, 0})
			}
			pitch, _ := geom.PitchYaw(body.rot)
			if !near(pitch, tt.want, 1e-6) {
				t.Errorf("pitch = %v, want %v", pitch, tt.want)
			}
			// Roll is always zero: the right axis stays horizontal
			if r := geom.Rotate(body.rot, geom.Right); !near(r.Y, 0, 1e-9) {
				t.Errorf("roll introduced, right = %v", r)
			}
		})
	}
}

func TestOnActionReceived_YawUnclamped(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	for i := 0; i < 60; i++ {
		a.OnActionReceived(Action{0, 0, 0, 0, 1})
	}

	// 25 ramp-up steps cover 26 degrees, the remaining 35 turn 2 degrees each
	_, yaw := geom.PitchYaw(body.rot)
	if !near(yaw, 96, 1e-6) {
		t.Errorf("yaw = %v, want 96", yaw)
	}
}

func TestOnActionReceived_Frozen(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeInteractive)
	ctl, err := a.Interactive()
	if err != nil {
		t.Fatalf("Interactive: %v", err)
	}

	ctl.Freeze()
	if !body.asleep || !ctl.Frozen() {
		t.Error("Freeze did not sleep the body")
	}
	a.OnActionReceived(Action{1, 1, 1, 1, 1})
	if body.force != (r3.Vec{}) || body.rot != geom.Identity {
		t.Error("frozen agent applied an action")
	}

	ctl.Unfreeze()
	if body.asleep {
		t.Error("Unfreeze did not wake the body")
	}
	a.OnActionReceived(Action{1, 0, 0, 0, 0})
	if body.force == (r3.Vec{}) {
		t.Error("unfrozen agent ignored the action")
	}
}

// ---------- Lifecycle ----------

func TestInteractive_TrainingRejected(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	if _, err := a.Interactive(); !errors.Is(err, ErrTrainingMode) {
		t.Errorf("Interactive() error = %v, want ErrTrainingMode", err)
	}
}

func TestMaxStep(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeTraining)
	if a.MaxStep() != a.Params().MaxSteps {
		t.Errorf("training MaxStep = %d", a.MaxStep())
	}
	b, _ := newTestAgent(t, lineLayout, ModeInteractive)
	if b.MaxStep() != 0 {
		t.Errorf("interactive MaxStep = %d, want 0", b.MaxStep())
	}
}

func TestOnEpisodeBegin_Training(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	flowers := a.Area().Flowers()
	flowers[0].Feed(1)
	flowers[1].Feed(0.4)
	a.AddReward(5)
	a.nectarObtained = 0.7
	a.smoothPitch = 0.5

	if err := a.OnEpisodeBegin(); err != nil {
		t.Fatalf("OnEpisodeBegin: %v", err)
	}

	for _, f := range flowers {
		if f.NectarAmount() != 1 {
			t.Errorf("%s not refilled", f.Name)
		}
	}
	if a.NectarObtained() != 0 || a.CumulativeReward() != 0 || a.TakeReward() != 0 {
		t.Error("episode state not cleared")
	}
	if body.velResets != 1 || body.poses != 1 {
		t.Errorf("velResets=%d poses=%d, want 1 each", body.velResets, body.poses)
	}
	if sp, _ := a.SmoothedRates(); sp != 0.5 {
		t.Errorf("smoothed pitch = %v, should carry over", sp)
	}
	if f, _ := a.Nearest(); f == nil {
		t.Error("no flower tracked after episode begin")
	}
	if a.Episode() != 1 {
		t.Errorf("Episode = %d", a.Episode())
	}
}

func TestOnEpisodeBegin_InteractiveKeepsFlowers(t *testing.T) {
	a, _ := newTestAgent(t, lineLayout, ModeInteractive)
	a.Area().Flowers()[0].Feed(0.4)

	if err := a.OnEpisodeBegin(); err != nil {
		t.Fatalf("OnEpisodeBegin: %v", err)
	}
	if !near(a.Area().Flowers()[0].NectarAmount(), 0.6, 1e-12) {
		t.Error("interactive episode reset the flowers")
	}
	if !a.Stats().NearSpawn {
		t.Error("interactive agent should spawn near a flower")
	}
}

// ---------- Spawn ----------

func TestMoveToSafeRandomPosition_Exhausted(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	a.oracle = oracleFunc(func(r3.Vec, float64) bool { return true })

	for _, nearFlower := range []bool{true, false} {
		n, err := a.MoveToSafeRandomPosition(nearFlower)
		if !errors.Is(err, ErrNoSafePosition) {
			t.Errorf("near=%v: error = %v, want ErrNoSafePosition", nearFlower, err)
		}
		if n != a.Params().SpawnAttempts {
			t.Errorf("near=%v: attempts = %d", nearFlower, n)
		}
	}
	if body.poses != 0 {
		t.Error("body moved despite failed placement")
	}

	if err := a.OnEpisodeBegin(); !errors.Is(err, ErrNoSafePosition) {
		t.Errorf("OnEpisodeBegin error = %v", err)
	}
}

func TestMoveToSafeRandomPosition_RetriesUntilFree(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	calls := 0
	a.oracle = oracleFunc(func(p r3.Vec, r float64) bool {
		calls++
		if r != a.Params().ProbeRadius {
			t.Errorf("probe radius = %v", r)
		}
		return calls < 4
	})

	n, err := a.MoveToSafeRandomPosition(false)
	if err != nil {
		t.Fatalf("MoveToSafeRandomPosition: %v", err)
	}
	if n != 4 || body.poses != 1 {
		t.Errorf("attempts = %d, poses = %d", n, body.poses)
	}

	p := a.Params()
	center := a.Area().Center()
	if h := body.pos.Y - center.Y; h < p.SpawnHeight[0] || h > p.SpawnHeight[1] {
		t.Errorf("height %v out of range", h)
	}
	flat := r3.Vec{X: body.pos.X - center.X, Z: body.pos.Z - center.Z}
	if r := r3.Norm(flat); r < p.SpawnRadius[0]-1e-9 || r > p.SpawnRadius[1]+1e-9 {
		t.Errorf("radius %v out of range", r)
	}
	pitch, _ := geom.PitchYaw(body.rot)
	if pitch > 180 {
		pitch -= 360
	}
	if pitch < p.SpawnPitch[0]-1e-6 || pitch > p.SpawnPitch[1]+1e-6 {
		t.Errorf("pitch %v out of range", pitch)
	}
}

func TestMoveToSafeRandomPosition_NearFlower(t *testing.T) {
	a, body := newTestAgent(t, lineLayout, ModeTraining)
	p := a.Params()

	for i := 0; i < 20; i++ {
		if _, err := a.MoveToSafeRandomPosition(true); err != nil {
			t.Fatalf("MoveToSafeRandomPosition: %v", err)
		}

		var target *arena.Flower
		for _, f := range a.Area().Flowers() {
			d := geom.Distance(body.pos, f.AnchorPosition())
			if d >= p.FlowerDistance[0]-1e-9 && d <= p.FlowerDistance[1]+1e-9 {
				target = f
			}
		}
		if target == nil {
			t.Fatalf("spawn %v not in front of any flower", body.pos)
		}

		offset := geom.Unit(r3.Sub(body.pos, target.AnchorPosition()))
		if geom.Distance(offset, target.UpAxis()) > 1e-9 {
			t.Errorf("spawn offset %v not along up axis %v", offset, target.UpAxis())
		}
		aim := geom.Unit(r3.Sub(target.CenterPosition(), body.pos))
		if geom.Distance(a.Forward(), aim) > 1e-9 {
			t.Errorf("forward %v does not look at the flower %v", a.Forward(), aim)
		}
	}
}
