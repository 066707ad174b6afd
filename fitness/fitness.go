// Package fitness turns a parameter vector into the optimizer objective:
// burn rate error over the propellant × pressure matrix plus penalties.
package fitness

import (
	"fmt"
	"math"

	"burnrate-go/combustion"
	"burnrate-go/penalty"
)

// Infeasible is the objective of a vector for which some cell has no burn
// rate.
const Infeasible = math.MaxFloat64

// Metric selects how burn rate deviations are aggregated.
type Metric string

const (
	// Absolute is the sum of squared burn rate differences, (m/s)².
	Absolute Metric = "absolute"
	// Relative is the mean over propellants of the RMS relative error.
	Relative Metric = "relative"
)

// ParseMetric accepts "absolute", "relative" or "" for Absolute.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", Absolute:
		return Absolute, nil
	case Relative:
		return Relative, nil
	}
	return "", fmt.Errorf("fitness: unknown metric %q", s)
}

// Evaluator owns a private matrix and is not safe for concurrent use.
// Use Clone to get one evaluator per goroutine.
type Evaluator struct {
	matrix *combustion.Matrix
	chain  penalty.Chain
	bounds combustion.Bounds
	metric Metric
}

// New builds an Evaluator over the propellants and pressures of m.
func New(m *combustion.Matrix, chain penalty.Chain, b combustion.Bounds, metric Metric) (*Evaluator, error) {
	if m == nil || m.Len() == 0 {
		return nil, combustion.ErrEmptyMatrix
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if metric == "" {
		metric = Absolute
	}
	return &Evaluator{matrix: m, chain: chain, bounds: b, metric: metric}, nil
}

// Clone returns an evaluator sharing the inputs with a private matrix.
func (e *Evaluator) Clone() *Evaluator {
	c := *e
	c.matrix = e.matrix.Clone()
	return &c
}

// Pool returns n evaluators, the first of which is e.
func (e *Evaluator) Pool(n int) []*Evaluator {
	out := make([]*Evaluator, n)
	for i := range out {
		if i == 0 {
			out[i] = e
			continue
		}
		out[i] = e.Clone()
	}
	return out
}

// Matrix returns the matrix as left by the last evaluation.
func (e *Evaluator) Matrix() *combustion.Matrix {
	return e.matrix
}

// Penalties returns the chain the evaluator applies.
func (e *Evaluator) Penalties() penalty.Chain {
	return e.chain
}

// Evaluate returns the objective of v, or Infeasible.
func (e *Evaluator) Evaluate(v []float64) float64 {
	p, err := combustion.ParamsFromVector(v)
	if err != nil {
		return Infeasible
	}
	if !e.matrix.Solve(p, e.bounds) {
		return Infeasible
	}
	return e.burnRateError() + e.chain.Apply(e.matrix, nil)
}

func (e *Evaluator) burnRateError() float64 {
	if e.metric == Relative {
		return relativeError(e.matrix)
	}
	return absoluteError(e.matrix)
}

func absoluteError(m *combustion.Matrix) float64 {
	sum := 0.0
	for _, c := range m.Cells() {
		d := c.Result.BurnRate - c.ExperimentalBurnRate
		sum += d * d
	}
	return sum
}

func relativeError(m *combustion.Matrix) float64 {
	total := 0.0
	for i := 0; i < m.Rows; i++ {
		sum := 0.0
		for j := 0; j < m.Cols; j++ {
			c := m.At(i, j)
			d := (c.Result.BurnRate - c.ExperimentalBurnRate) / c.ExperimentalBurnRate
			sum += d * d
		}
		total += math.Sqrt(sum / float64(m.Cols))
	}
	return total / float64(m.Rows)
}
