package neural

import (
	"encoding/json"
	"fmt"
	"os"
)

// BrainWeights holds flattened network weights for serialization.
type BrainWeights struct {
	W1 []float32 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float32 `json:"b1"` // [NumHidden]
	W2 []float32 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float32 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network weights for JSON serialization.
func (nn *FFNN) MarshalWeights() BrainWeights {
	bw := BrainWeights{
		W1: make([]float32, 0, NumHidden*NumInputs),
		B1: append([]float32(nil), nn.B1[:]...),
		W2: make([]float32, 0, NumOutputs*NumHidden),
		B2: append([]float32(nil), nn.B2[:]...),
	}
	for i := range nn.W1 {
		bw.W1 = append(bw.W1, nn.W1[i][:]...)
	}
	for i := range nn.W2 {
		bw.W2 = append(bw.W2, nn.W2[i][:]...)
	}
	return bw
}

// UnmarshalWeights restores network weights from flattened form. The
// layer sizes must match the network.
func (nn *FFNN) UnmarshalWeights(bw BrainWeights) error {
	if len(bw.W1) != NumHidden*NumInputs || len(bw.B1) != NumHidden ||
		len(bw.W2) != NumOutputs*NumHidden || len(bw.B2) != NumOutputs {
		return fmt.Errorf("weights have layers %d/%d/%d/%d, want %d/%d/%d/%d",
			len(bw.W1), len(bw.B1), len(bw.W2), len(bw.B2),
			NumHidden*NumInputs, NumHidden, NumOutputs*NumHidden, NumOutputs)
	}
	for i := range nn.W1 {
		copy(nn.W1[i][:], bw.W1[i*NumInputs:])
	}
	copy(nn.B1[:], bw.B1)
	for i := range nn.W2 {
		copy(nn.W2[i][:], bw.W2[i*NumHidden:])
	}
	copy(nn.B2[:], bw.B2)
	return nil
}

// Flatten returns every parameter in a single vector, in W1, B1, W2, B2 order.
func (nn *FFNN) Flatten() []float64 {
	bw := nn.MarshalWeights()
	out := make([]float64, 0, NumWeights)
	for _, layer := range [][]float32{bw.W1, bw.B1, bw.W2, bw.B2} {
		for _, w := range layer {
			out = append(out, float64(w))
		}
	}
	return out
}

// FromFlat builds a network from a vector produced by Flatten.
func FromFlat(v []float64) (*FFNN, error) {
	if len(v) != NumWeights {
		return nil, fmt.Errorf("weight vector has %d entries, want %d", len(v), NumWeights)
	}
	take := func(n int) []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = float32(v[i])
		}
		v = v[n:]
		return out
	}
	bw := BrainWeights{
		W1: take(NumHidden * NumInputs),
		B1: take(NumHidden),
		W2: take(NumOutputs * NumHidden),
		B2: take(NumOutputs),
	}
	nn := &FFNN{}
	return nn, nn.UnmarshalWeights(bw)
}

// Save writes the weights as JSON.
func (nn *FFNN) Save(path string) error {
	data, err := json.MarshalIndent(nn.MarshalWeights(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing weights: %w", err)
	}
	return nil
}

// Load reads weights written by Save.
func Load(path string) (*FFNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weights: %w", err)
	}
	var bw BrainWeights
	if err := json.Unmarshal(data, &bw); err != nil {
		return nil, fmt.Errorf("parsing weights: %w", err)
	}
	nn := &FFNN{}
	if err := nn.UnmarshalWeights(bw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nn, nil
}
