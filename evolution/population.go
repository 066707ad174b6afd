package evolution

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Individual is a candidate vector and its objective value.
type Individual struct {
	Vector  []float64
	Fitness float64
}

// Clone deep-copies the vector.
func (ind Individual) Clone() Individual {
	return Individual{Vector: append([]float64(nil), ind.Vector...), Fitness: ind.Fitness}
}

// Feasible reports whether the fitness is a real objective value.
func (ind Individual) Feasible() bool {
	return ind.Fitness < math.MaxFloat64
}

// Population is one generation. Individuals keep their slots across
// generations; best indexes the lowest fitness.
type Population struct {
	Individuals []Individual
	best        int
	fitness     []float64
}

func newPopulation(size, dim int) *Population {
	p := &Population{
		Individuals: make([]Individual, size),
		fitness:     make([]float64, size),
	}
	for i := range p.Individuals {
		p.Individuals[i] = Individual{Vector: make([]float64, dim), Fitness: math.MaxFloat64}
		p.fitness[i] = math.MaxFloat64
	}
	return p
}

// Len is the number of individuals.
func (p *Population) Len() int {
	return len(p.Individuals)
}

// Best returns the individual with the lowest fitness.
func (p *Population) Best() (Individual, error) {
	if len(p.Individuals) == 0 {
		return Individual{}, ErrEmptyPopulation
	}
	return p.Individuals[p.best], nil
}

// BestIndex is the slot of the best individual.
func (p *Population) BestIndex() int {
	return p.best
}

// MoveToBest rescans the population and points best at the lowest fitness.
// Ties keep the lowest index.
func (p *Population) MoveToBest() {
	if len(p.Individuals) == 0 {
		return
	}
	if len(p.fitness) != len(p.Individuals) {
		p.fitness = make([]float64, len(p.Individuals))
	}
	for i := range p.Individuals {
		p.fitness[i] = p.Individuals[i].Fitness
	}
	p.best = floats.MinIdx(p.fitness)
}

// Stats summarizes the feasible part of the population.
type Stats struct {
	Best     float64
	Mean     float64
	StdDev   float64
	Feasible int
}

// Stats computes fitness statistics over feasible individuals. With no
// feasible individual every value is math.MaxFloat64.
func (p *Population) Stats() Stats {
	vals := make([]float64, 0, len(p.Individuals))
	for _, ind := range p.Individuals {
		if ind.Feasible() {
			vals = append(vals, ind.Fitness)
		}
	}
	if len(vals) == 0 {
		return Stats{Best: math.MaxFloat64, Mean: math.MaxFloat64, StdDev: math.MaxFloat64}
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	return Stats{
		Best:     floats.Min(vals),
		Mean:     mean,
		StdDev:   std,
		Feasible: len(vals),
	}
}
