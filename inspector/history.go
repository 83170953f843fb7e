package inspector

import "math"

// History keeps the last size samples of several series in ring buffers.
type History struct {
	series [][]float64
	size   int
	index  int
	count  int
}

// NewHistory creates a history of n series holding size samples each.
func NewHistory(n, size int) *History {
	h := &History{series: make([][]float64, n), size: size}
	for i := range h.series {
		h.series[i] = make([]float64, size)
	}
	return h
}

// Push appends one sample per series. Missing values record as zero.
func (h *History) Push(values ...float64) {
	for i := range h.series {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		h.series[i][h.index] = v
	}
	h.index = (h.index + 1) % h.size
	if h.count < h.size {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.count
}

// Values returns series s oldest first.
func (h *History) Values(s int) []float64 {
	out := make([]float64, h.count)
	for i := range out {
		out[i] = h.series[s][(h.index-h.count+i+h.size)%h.size]
	}
	return out
}

// Range returns the padded min and max over the given series, or [0, 1]
// when they hold no spread.
func (h *History) Range(series []int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range h.Values(s) {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo >= hi {
		if math.IsInf(lo, 0) {
			return 0, 1
		}
		return lo - 0.5, hi + 0.5
	}
	pad := max((hi-lo)*0.1, 0.001)
	return lo - pad, hi + pad
}
