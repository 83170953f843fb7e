package agent

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/hummingbird/geom"
)

// MoveToSafeRandomPosition samples spawn poses until the placement oracle
// reports free space, either hovering in front of a random flower or
// anywhere around the area center. It returns the number of attempts used.
// The body is only moved on success.
func (a *Agent) MoveToSafeRandomPosition(nearFlower bool) (int, error) {
	flowers := a.area.Flowers()
	if len(flowers) == 0 {
		nearFlower = false
	}

	for attempt := 1; attempt <= a.params.SpawnAttempts; attempt++ {
		var pos r3.Vec
		var rot quat.Number

		if nearFlower {
			f := flowers[a.rng.Intn(len(flowers))]
			dist := span(a.rng, a.params.FlowerDistance)
			pos = r3.Add(f.AnchorPosition(), r3.Scale(dist, f.UpAxis()))
			rot = geom.LookRotation(r3.Sub(f.CenterPosition(), pos), geom.Up)
		} else {
			height := span(a.rng, a.params.SpawnHeight)
			radius := span(a.rng, a.params.SpawnRadius)
			dir := geom.Rotate(geom.Euler(0, uniform(a.rng, -180, 180), 0), geom.Forward)

			pos = r3.Add(a.area.Center(), r3.Add(r3.Scale(height, geom.Up), r3.Scale(radius, dir)))
			rot = geom.Euler(span(a.rng, a.params.SpawnPitch), uniform(a.rng, -180, 180), 0)
		}

		if !a.oracle.OverlapsAnything(pos, a.params.ProbeRadius) {
			a.body.SetPose(pos, rot)
			return attempt, nil
		}
	}

	return a.params.SpawnAttempts, fmt.Errorf("%w after %d attempts", ErrNoSafePosition, a.params.SpawnAttempts)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func span(rng *rand.Rand, r [2]float64) float64 {
	return uniform(rng, r[0], r[1])
}
