package combustion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPocketBalanceWeightsSkeletonFraction(t *testing.T) {
	k := &Known{
		Pressure:           4e6,
		Density:            1800,
		SpecificHeat:       1500,
		InitialTemperature: 293,
		OxidizerDiameter:   2e-4,
		SkeletonFraction:   0.3,
		Skeleton:           KineticFlame{Temperature: 2800, MolarMass: 0.028, Lambda: 0.15},
		OutSkeleton:        KineticFlame{Temperature: 2600, MolarMass: 0.027, Lambda: 0.12},
		Diffusion:          DiffusionFlame{Temperature: 3000, MolarMass: 0.03, Lambda: 0.2, CVolume: 1800},
		Metal:              Metal{Melting: MetalMeltingTemperature},
		Layer:              SkeletonLayer{Porosity: DefaultPorosity, CondensedLambda: DefaultCondensedConductivity},
	}
	p := &SolverParams{
		ADecompose:   1e3,
		EDecompose:   6e4,
		AOutSkeleton: 2e5,
		ASkeleton:    3e5,
		AMetal:       1e-7,
		BMetal:       1e-12,
		DeltaH:       5e5,
		KDiffusion:   1,
	}

	cond := ConductiveConductivity(k.Layer, k.Diffusion.Lambda)
	r := pocketBalance(p, k, 1000, cond)

	assert.Equal(t, cond, r.ConductiveLambda)
	assert.InDelta(t, r.RadiativeLambda+cond, r.EffectiveLambda, 1e-12)

	u := DecomposeRate(p, 1000) / k.Density
	assert.InDelta(t, u, r.BurnRate, 1e-18)
	assert.InDelta(t, MetalMeltingTemperature-1000, r.AverageMetalTemperature, 1e-12)
	assert.InDelta(t, (MetalMeltingTemperature-1000)/r.SkeletonThickness/r.EffectiveLambda, r.MetalHeatFlux, math.Abs(r.MetalHeatFlux)*1e-12)

	h := p.KDiffusion * k.Diffusion.CVolume * r.DecomposeRate * 2e-4 * 2e-4 / 0.2
	assert.InDelta(t, h, r.DiffusionHeight, h*1e-12)

	want := 0.7*r.OutSkeleton.HeatFlux + 0.3*(r.MetalHeatFlux+r.Skeleton.HeatFlux) + r.DiffusionHeatFlux
	assert.InDelta(t, want, r.TotalHeatFlux, math.Abs(want)*1e-12)
	assert.InDelta(t, r.TotalHeatFlux-r.SublimationFlux, r.Error, math.Abs(r.TotalHeatFlux)*1e-12)
}
