package evolution

import "math/rand/v2"

// Mutation is DE/rand/1 with binomial crossover.
type Mutation struct {
	Force     float64
	Crossover float64
	Lower     []float64
	Upper     []float64
}

// Trial writes into dst a trial vector for the target slot of pop. The
// three donors are distinct and differ from target; at least one
// coordinate comes from the mutant. pop must hold at least four
// individuals.
func (m *Mutation) Trial(rng *rand.Rand, pop *Population, target int, dst []float64) {
	n := pop.Len()
	a := pick(rng, n, target, -1, -1)
	b := pick(rng, n, target, a, -1)
	c := pick(rng, n, target, a, b)

	base := pop.Individuals[a].Vector
	d1 := pop.Individuals[b].Vector
	d2 := pop.Individuals[c].Vector
	x := pop.Individuals[target].Vector

	forced := rng.IntN(len(dst))
	for i := range dst {
		if i == forced || rng.Float64() < m.Crossover {
			dst[i] = clamp(base[i]+m.Force*(d1[i]-d2[i]), m.Lower[i], m.Upper[i])
		} else {
			dst[i] = x[i]
		}
	}
}

func pick(rng *rand.Rand, n, not1, not2, not3 int) int {
	for {
		i := rng.IntN(n)
		if i != not1 && i != not2 && i != not3 {
			return i
		}
	}
}
