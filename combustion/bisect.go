package combustion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Bounds is a bracketed search interval with an absolute tolerance.
type Bounds struct {
	Min float64
	Max float64
	Tol float64
}

// DefaultBounds is the surface temperature search interval.
func DefaultBounds() Bounds {
	return Bounds{Min: MinSurfaceTemperature, Max: MaxSurfaceTemperature, Tol: SurfaceTolerance}
}

func conductivityBounds() Bounds {
	return Bounds{Min: MinConductivity, Max: MaxConductivity, Tol: ConductivityTolerance}
}

// Validate rejects inverted or degenerate intervals.
func (b Bounds) Validate() error {
	if !(b.Min < b.Max) {
		return fmt.Errorf("bounds: min %g must be below max %g", b.Min, b.Max)
	}
	if !(b.Tol > 0) {
		return fmt.Errorf("bounds: tolerance %g must be positive", b.Tol)
	}
	return nil
}

// Bisect finds a root of f in [lo, hi]. When f has the same sign at both
// ends, or is NaN at either end, it returns (NoRoot, false). A root on an
// end point is accepted.
func Bisect(f func(float64) float64, lo, hi, tol float64) (float64, bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	left := f(lo)
	right := f(hi)
	switch {
	case math.IsNaN(left) || math.IsNaN(right):
		return NoRoot, false
	case left*right > 0:
		return NoRoot, false
	case left == 0:
		return lo, true
	case right == 0:
		return hi, true
	}

	mid := (lo + hi) / 2
	for hi-lo > tol {
		v := f(mid)
		if v == 0 {
			return mid, true
		}
		if v*left < 0 {
			hi = mid
		} else {
			lo = mid
			left = v
		}
		mid = (lo + hi) / 2
	}
	return mid, true
}

// polynomial evaluates Σ c[i]·x^i.
func polynomial(c []float64, x float64) float64 {
	if len(c) == 0 {
		return 0
	}
	var pow [16]float64
	powers := pow[:0]
	if len(c) > len(pow) {
		powers = make([]float64, 0, len(c))
	}
	xi := 1.0
	for range c {
		powers = append(powers, xi)
		xi *= x
	}
	return floats.Dot(c, powers)
}
