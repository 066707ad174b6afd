package evolution

import "math/rand/v2"

// Generator draws initial vectors within [lower, upper].
type Generator interface {
	Generate(rng *rand.Rand, lower, upper, dst []float64)
}

// UniformGenerator samples every coordinate uniformly within its bounds.
type UniformGenerator struct{}

func (UniformGenerator) Generate(rng *rand.Rand, lower, upper, dst []float64) {
	for i := range dst {
		dst[i] = lower[i] + rng.Float64()*(upper[i]-lower[i])
	}
}

// SeededGenerator samples within ±Spread (relative) of Seed, clamped to
// the bounds. A zero Spread means 10 %.
type SeededGenerator struct {
	Seed   []float64
	Spread float64
}

func (g SeededGenerator) Generate(rng *rand.Rand, lower, upper, dst []float64) {
	spread := g.Spread
	if spread == 0 {
		spread = 0.1
	}
	for i := range dst {
		s := g.Seed[i]
		lo, hi := s*(1-spread), s*(1+spread)
		if lo > hi {
			lo, hi = hi, lo
		}
		dst[i] = clamp(lo+rng.Float64()*(hi-lo), lower[i], upper[i])
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
