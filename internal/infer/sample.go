package infer

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Sampler draws random subsets of column values for the format probes.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler with a random seed.
func NewSampler() *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededSampler returns a deterministic sampler. Two samplers built with
// the same seed produce the same draws for the same calls.
func NewSeededSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// SampleSize returns max(minSamples, floor(n * percent)).
func SampleSize(n int, percent float64, minSamples int) int {
	k := int(math.Floor(float64(n) * percent))
	if k < minSamples {
		return minSamples
	}
	return k
}

// Sample returns the whole column when it is shorter than the required sample
// size, otherwise exactly SampleSize values drawn without replacement.
// Missing values are eligible and show up in the result.
func (s *Sampler) Sample(col *Column, percent float64, minSamples int) []Value {
	n := col.Len()
	k := SampleSize(n, percent, minSamples)
	if n < k {
		out := make([]Value, n)
		copy(out, col.Values)
		return out
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	s.mu.Lock()
	// Partial Fisher-Yates: the first k slots end up holding the draw.
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	s.mu.Unlock()

	out := make([]Value, k)
	for i := 0; i < k; i++ {
		out[i] = col.Values[idx[i]]
	}
	return out
}
