// Package neural provides a small feedforward network that maps agent
// observations to actions.
package neural

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hummingbird/agent"
)

// Network dimensions.
const (
	NumInputs  = agent.ObservationSize
	NumHidden  = 16
	NumOutputs = agent.ActionSize

	// NumWeights is the length of the flattened parameter vector.
	NumWeights = NumHidden*NumInputs + NumHidden + NumOutputs*NumHidden + NumOutputs
)

// FFNN is a two-layer feedforward network with tanh activations.
type FFNN struct {
	W1 [NumHidden][NumInputs]float32  // input -> hidden weights
	B1 [NumHidden]float32             // hidden biases
	W2 [NumOutputs][NumHidden]float32 // hidden -> output weights
	B2 [NumOutputs]float32            // output biases
}

// NewFFNN creates a network with Xavier-initialized weights and zero biases.
func NewFFNN(rng *rand.Rand) *FFNN {
	nn := &FFNN{}
	scale1 := float32(math.Sqrt(2.0 / float64(NumInputs)))
	scale2 := float32(math.Sqrt(2.0 / float64(NumHidden)))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(rng.NormFloat64()) * scale1
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(rng.NormFloat64()) * scale2
		}
	}
	return nn
}

// Forward computes the action for an observation. Every output is in [-1, 1].
func (nn *FFNN) Forward(obs agent.Observation) agent.Action {
	var hidden [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * obs[j]
		}
		hidden[i] = tanh(sum)
	}

	var out agent.Action
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * hidden[j]
		}
		out[i] = tanh(sum)
	}
	return out
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	c := *nn
	return &c
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}
