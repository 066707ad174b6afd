package combustion

import "math"

// KineticRegion selects the Arrhenius constants and reaction order of one
// kinetic flame region from the parameter vector.
type KineticRegion func(p *SolverParams) (a, e, nu float64)

// Kinetic flame regions.
var (
	InterPocketRegion KineticRegion = func(p *SolverParams) (float64, float64, float64) {
		return p.AInterPocket, p.EInterPocket, p.NuInterPocket
	}
	SkeletonRegion KineticRegion = func(p *SolverParams) (float64, float64, float64) {
		return p.ASkeleton, p.ESkeleton, p.NuSkeleton
	}
	OutSkeletonRegion KineticRegion = func(p *SolverParams) (float64, float64, float64) {
		return p.AOutSkeleton, p.EOutSkeleton, p.NuOutSkeleton
	}
)

// KineticFlameResult describes a kinetic flame at one surface temperature.
type KineticFlameResult struct {
	AverageTemperature float64
	AverageDensity     float64
	Height             float64
	HeatFlux           float64
}

// DecomposeRate is the Arrhenius surface mass flux at Ts, kg/(m²·s).
func DecomposeRate(p *SolverParams, ts float64) float64 {
	return p.ADecompose * math.Exp(-p.EDecompose/(GasConstant*ts))
}

// KineticFlameHeatFlux computes the heat flux a kinetic flame returns to a
// surface at ts that decomposes at mass flux m.
func KineticFlameHeatFlux(region KineticRegion, p *SolverParams, flame KineticFlame, pressure, ts, m float64) KineticFlameResult {
	a, e, nu := region(p)

	tavg := (flame.Temperature + ts) / 2
	rho := pressure * flame.MolarMass / (GasConstant * tavg)
	h := m / (a * math.Exp(-e/(GasConstant*tavg)) * math.Pow(rho, nu))

	return KineticFlameResult{
		AverageTemperature: tavg,
		AverageDensity:     rho,
		Height:             h,
		HeatFlux:           flame.Lambda * (flame.Temperature - ts) / h,
	}
}

// sublimationHeatFlux is the heat consumed by heating and gasifying the
// propellant at mass flux m.
func sublimationHeatFlux(k *Known, p *SolverParams, ts, m float64) float64 {
	return m * (k.SpecificHeat*(ts-k.InitialTemperature) + p.DeltaH)
}
