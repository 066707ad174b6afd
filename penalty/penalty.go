// Package penalty scores solved contexts against physical plausibility
// rules. Every evaluator returns zero when its rule holds.
package penalty

import (
	"fmt"
	"math"

	"burnrate-go/combustion"
)

// Evaluator scores one solved context. Penalty is never negative.
type Evaluator interface {
	Name() string
	Penalty(c *combustion.Context) float64
}

// Chain is an ordered set of evaluators.
type Chain []Evaluator

// Apply sums every evaluator over every cell of m. When out has one slot
// per evaluator it receives the per-evaluator totals.
func (ch Chain) Apply(m *combustion.Matrix, out []float64) float64 {
	track := len(out) == len(ch)
	if track {
		for i := range out {
			out[i] = 0
		}
	}
	total := 0.0
	cells := m.Cells()
	for i := range cells {
		for j, e := range ch {
			v := e.Penalty(&cells[i])
			total += v
			if track {
				out[j] += v
			}
		}
	}
	return total
}

// Names lists evaluator names in chain order.
func (ch Chain) Names() []string {
	names := make([]string, len(ch))
	for i, e := range ch {
		names[i] = e.Name()
	}
	return names
}

// maxRatio stands in for a ratio whose denominator is zero.
const maxRatio = 1e12

// ratio divides num by den, mapping a zero denominator to ±maxRatio (or 0
// when num is also zero) so a penalty never becomes infinite.
func ratio(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Copysign(maxRatio, num)
	}
	return num / den
}

type rate float64

func newRate(r float64) (rate, error) {
	if !(r > 0) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidRate, r)
	}
	return rate(r), nil
}

func validRange(min, max float64) error {
	if !(min < max) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, min, max)
	}
	return nil
}
