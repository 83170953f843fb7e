package main

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/pthm-cable/hummingbird/config"
	"github.com/pthm-cable/hummingbird/neural"
	"github.com/pthm-cable/hummingbird/policy"
)

// Encoding maps a CMA-ES search point onto a runnable configuration.
type Encoding interface {
	Dim() int
	// Initial returns the search point the run starts from.
	Initial(base *config.Config) []float64
	// Decode turns a search point into the values that are applied and logged.
	Decode(x []float64) []float64
	// Columns names the decoded values for the evaluation log. Nil logs none.
	Columns() []string
	// Apply writes values into cfg. A non-nil result replaces the
	// configured policy in every arena.
	Apply(cfg *config.Config, values []float64) (func(*rand.Rand) policy.Policy, error)
	// Save writes the result of a run into dir.
	Save(dir string, base *config.Config, values []float64) error
}

// Search space for the scripted policies: gains normalized to [0,1].

func (pv *ParamVector) Initial(base *config.Config) []float64 {
	return pv.Normalize(pv.ExtractFromConfig(base))
}

func (pv *ParamVector) Decode(x []float64) []float64 {
	return pv.Clamp(pv.Denormalize(x))
}

func (pv *ParamVector) Columns() []string {
	names := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		names[i] = spec.Name
	}
	return names
}

func (pv *ParamVector) Apply(cfg *config.Config, values []float64) (func(*rand.Rand) policy.Policy, error) {
	pv.ApplyToConfig(cfg, values)
	return nil, nil
}

func (pv *ParamVector) Save(dir string, base *config.Config, values []float64) error {
	for i, spec := range pv.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, values[i])
	}
	cfg := base.Clone()
	pv.ApplyToConfig(cfg, values)
	return writeConfig(dir, cfg)
}

// WeightVector searches the raw weights of the policy network.
type WeightVector struct {
	seed int64
}

func NewWeightVector(seed int64) *WeightVector {
	return &WeightVector{seed: seed}
}

func (wv *WeightVector) Dim() int { return neural.NumWeights }

// Initial starts from the configured weights when there are any, else from
// a fresh random network.
func (wv *WeightVector) Initial(base *config.Config) []float64 {
	if path := base.Policy.WeightsPath; path != "" {
		if net, err := neural.Load(path); err == nil {
			return net.Flatten()
		}
	}
	return neural.NewFFNN(rand.New(rand.NewSource(wv.seed))).Flatten()
}

func (wv *WeightVector) Decode(x []float64) []float64 {
	return append([]float64(nil), x...)
}

func (wv *WeightVector) Columns() []string { return nil }

func (wv *WeightVector) Apply(cfg *config.Config, values []float64) (func(*rand.Rand) policy.Policy, error) {
	net, err := neural.FromFlat(values)
	if err != nil {
		return nil, err
	}
	cfg.Policy.Kind = "neural"
	// Forward only reads the weights, so arenas can share one network.
	return func(*rand.Rand) policy.Policy { return policy.NewNeural(net) }, nil
}

func (wv *WeightVector) Save(dir string, base *config.Config, values []float64) error {
	net, err := neural.FromFlat(values)
	if err != nil {
		return err
	}
	weightsPath := filepath.Join(dir, "best_weights.json")
	if err := net.Save(weightsPath); err != nil {
		return err
	}
	fmt.Printf("  weights: %s\n", weightsPath)

	cfg := base.Clone()
	cfg.Policy.Kind = "neural"
	cfg.Policy.WeightsPath = weightsPath
	return writeConfig(dir, cfg)
}

func writeConfig(dir string, cfg *config.Config) error {
	path := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("  config: %s\n", path)
	return nil
}
