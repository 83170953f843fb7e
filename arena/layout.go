package arena

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/hummingbird/config"
)

// Tilt range of generated flowers away from vertical, in degrees.
const (
	minFlowerTilt = 15.0
	maxFlowerTilt = 60.0
	flowerSpread  = 0.3 // Horizontal scatter of flowers around their plant stem
)

// GenerateLayout builds a ring of plants around the origin, each carrying
// FlowersPerPlant tilted flowers at random heights.
func GenerateLayout(cfg *config.Config, rng *rand.Rand) *Node {
	ac := cfg.Arena
	root := &Node{Name: "area"}

	for i := 0; i < ac.Plants; i++ {
		angle := 2*math.Pi*float64(i)/float64(max(ac.Plants, 1)) + uniform(rng, -0.2, 0.2)
		radius := uniform(rng, ac.RingInner, ac.RingOuter)

		plant := &Node{
			Name:     fmt.Sprintf("plant%d", i),
			Kind:     NodePlant,
			Position: [3]float64{radius * math.Sin(angle), 0, radius * math.Cos(angle)},
		}

		for j := 0; j < ac.FlowersPerPlant; j++ {
			plant.Children = append(plant.Children, &Node{
				Name: fmt.Sprintf("flower%d", j),
				Kind: NodeFlower,
				Position: [3]float64{
					uniform(rng, -flowerSpread, flowerSpread),
					uniform(rng, ac.FlowerHeight[0], ac.FlowerHeight[1]),
					uniform(rng, -flowerSpread, flowerSpread),
				},
				Rotation: [3]float64{uniform(rng, minFlowerTilt, maxFlowerTilt), uniform(rng, -180, 180), 0},
				Flower: &FlowerSpec{
					NectarOffset: [3]float64{0, ac.NectarDepth, 0},
					NectarRadius: ac.NectarRadius,
					PetalRadius:  ac.PetalRadius,
				},
			})
		}

		root.Children = append(root.Children, plant)
	}

	return root
}

// BuildArea loads the configured layout file, or generates one when no
// path is set, and builds a FlowerArea from it.
func BuildArea(cfg *config.Config, rng *rand.Rand) (*FlowerArea, error) {
	var root *Node
	if cfg.Arena.LayoutPath != "" {
		var err error
		root, err = LoadLayout(cfg.Arena.LayoutPath)
		if err != nil {
			return nil, err
		}
	} else {
		root = GenerateLayout(cfg, rng)
	}

	area, err := NewFlowerArea(root)
	if err != nil {
		return nil, fmt.Errorf("building flower area: %w", err)
	}
	if len(area.Flowers()) == 0 {
		return nil, fmt.Errorf("building flower area: layout has no flowers")
	}
	return area, nil
}
