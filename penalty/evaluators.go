package penalty

import (
	"fmt"
	"math"

	"burnrate-go/combustion"
)

// HeatFluxRatio penalizes pockets where one of the diffusion, skeleton and
// out-skeleton flame fluxes dominates the others by more than Threshold,
// and pockets whose metal flux is below the strongest flame flux.
type HeatFluxRatio struct {
	rate      rate
	Threshold float64
}

// NewHeatFluxRatio needs a threshold above 1.
func NewHeatFluxRatio(r, threshold float64) (*HeatFluxRatio, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	if !(threshold > 1) {
		return nil, fmt.Errorf("%w: heat flux ratio %g must be greater than 1", ErrInvalidThreshold, threshold)
	}
	return &HeatFluxRatio{rate: pr, Threshold: threshold}, nil
}

func (*HeatFluxRatio) Name() string { return "heat_flux_ratio" }

func (e *HeatFluxRatio) Penalty(c *combustion.Context) float64 {
	p := &c.Result.Pocket
	hi := max(p.DiffusionHeatFlux, p.Skeleton.HeatFlux, p.OutSkeleton.HeatFlux)
	lo := min(p.DiffusionHeatFlux, p.Skeleton.HeatFlux, p.OutSkeleton.HeatFlux)

	v := 0.0
	if p.MetalHeatFlux < hi {
		v += float64(e.rate) * math.Abs(ratio(hi, p.MetalHeatFlux))
	}
	if r := ratio(hi, lo); r > e.Threshold {
		v += float64(e.rate) * r
	}
	return v
}

// InterPocketFasterBurn penalizes pockets that burn faster than the
// surrounding inter-pocket matrix.
type InterPocketFasterBurn struct {
	rate rate
}

// NewInterPocketFasterBurn returns the burn rate ordering rule.
func NewInterPocketFasterBurn(r float64) (*InterPocketFasterBurn, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	return &InterPocketFasterBurn{rate: pr}, nil
}

func (*InterPocketFasterBurn) Name() string { return "inter_pocket_faster_burn" }

func (e *InterPocketFasterBurn) Penalty(c *combustion.Context) float64 {
	up := c.Result.Pocket.BurnRate
	uip := c.Result.InterPocket.BurnRate
	if up > uip {
		return float64(e.rate) * ratio(up, uip)
	}
	return 0
}

// KineticFlameHeatFlux caps the heat flux of each kinetic flame, W/m².
type KineticFlameHeatFlux struct {
	rate           rate
	MaxInterPocket float64
	MaxSkeleton    float64
	MaxOutSkeleton float64
}

// NewKineticFlameHeatFlux needs positive ceilings.
func NewKineticFlameHeatFlux(r, maxInterPocket, maxSkeleton, maxOutSkeleton float64) (*KineticFlameHeatFlux, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	for _, m := range []float64{maxInterPocket, maxSkeleton, maxOutSkeleton} {
		if !(m > 0) {
			return nil, fmt.Errorf("%w: kinetic flame heat flux ceiling %g must be greater than 0", ErrInvalidThreshold, m)
		}
	}
	return &KineticFlameHeatFlux{
		rate:           pr,
		MaxInterPocket: maxInterPocket,
		MaxSkeleton:    maxSkeleton,
		MaxOutSkeleton: maxOutSkeleton,
	}, nil
}

func (*KineticFlameHeatFlux) Name() string { return "kinetic_flame_heat_flux" }

func (e *KineticFlameHeatFlux) Penalty(c *combustion.Context) float64 {
	r := &c.Result
	return e.over(r.InterPocket.Flame.HeatFlux, e.MaxInterPocket) +
		e.over(r.Pocket.Skeleton.HeatFlux, e.MaxSkeleton) +
		e.over(r.Pocket.OutSkeleton.HeatFlux, e.MaxOutSkeleton)
}

func (e *KineticFlameHeatFlux) over(q, ceiling float64) float64 {
	if q > ceiling {
		return float64(e.rate) * q / ceiling
	}
	return 0
}

// PoreDiameter penalizes skeleton layers thinner than Threshold pore
// diameters.
type PoreDiameter struct {
	rate      rate
	Threshold float64
}

// NewPoreDiameter needs a positive threshold.
func NewPoreDiameter(r, threshold float64) (*PoreDiameter, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	if !(threshold > 0) {
		return nil, fmt.Errorf("%w: pore diameter threshold %g must be greater than 0", ErrInvalidThreshold, threshold)
	}
	return &PoreDiameter{rate: pr, Threshold: threshold}, nil
}

func (*PoreDiameter) Name() string { return "pore_diameter" }

func (e *PoreDiameter) Penalty(c *combustion.Context) float64 {
	p := &c.Result.Pocket
	d := p.PoreDiameter * e.Threshold
	if p.SkeletonThickness < d {
		return float64(e.rate) * ratio(d, p.SkeletonThickness)
	}
	return 0
}

// RadiativeConductivity penalizes skeleton layers where conduction
// outweighs radiation.
type RadiativeConductivity struct {
	rate rate
}

// NewRadiativeConductivity returns the radiation-over-conduction rule.
func NewRadiativeConductivity(r float64) (*RadiativeConductivity, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	return &RadiativeConductivity{rate: pr}, nil
}

func (*RadiativeConductivity) Name() string { return "radiative_conductivity" }

func (e *RadiativeConductivity) Penalty(c *combustion.Context) float64 {
	p := &c.Result.Pocket
	if p.RadiativeLambda < p.ConductiveLambda {
		return float64(e.rate) * math.Abs(ratio(p.ConductiveLambda, p.RadiativeLambda))
	}
	return 0
}

// SurfaceTemperature keeps both region surface temperatures inside
// [Min, Max].
type SurfaceTemperature struct {
	rate rate
	Min  float64
	Max  float64
}

// NewSurfaceTemperature needs minT < maxT, K.
func NewSurfaceTemperature(r, minT, maxT float64) (*SurfaceTemperature, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	if err := validRange(minT, maxT); err != nil {
		return nil, err
	}
	return &SurfaceTemperature{rate: pr, Min: minT, Max: maxT}, nil
}

func (*SurfaceTemperature) Name() string { return "surface_temperature" }

func (e *SurfaceTemperature) Penalty(c *combustion.Context) float64 {
	return outside(e.rate, c.Result.InterPocket.SurfaceTemperature, e.Min, e.Max) +
		outside(e.rate, c.Result.Pocket.SurfaceTemperature, e.Min, e.Max)
}

// FlameHeight keeps the three kinetic flame heights inside [Min, Max], m.
type FlameHeight struct {
	rate rate
	Min  float64
	Max  float64
}

// NewFlameHeight needs minH < maxH, m.
func NewFlameHeight(r, minH, maxH float64) (*FlameHeight, error) {
	pr, err := newRate(r)
	if err != nil {
		return nil, err
	}
	if err := validRange(minH, maxH); err != nil {
		return nil, err
	}
	return &FlameHeight{rate: pr, Min: minH, Max: maxH}, nil
}

func (*FlameHeight) Name() string { return "flame_height" }

func (e *FlameHeight) Penalty(c *combustion.Context) float64 {
	r := &c.Result
	return outside(e.rate, r.InterPocket.Flame.Height, e.Min, e.Max) +
		outside(e.rate, r.Pocket.Skeleton.Height, e.Min, e.Max) +
		outside(e.rate, r.Pocket.OutSkeleton.Height, e.Min, e.Max)
}

func outside(r rate, v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return float64(r) * ratio(lo, v)
	case v > hi:
		return float64(r) * v / hi
	}
	return 0
}
