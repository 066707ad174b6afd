// Package combustiontest provides propellants and parameter vectors with
// well-behaved heat balances for use in tests.
package combustiontest

import "burnrate-go/combustion"

// Propellant returns an aluminized AP composite whose pocket has no metal
// skeleton at any pressure, so both regions bracket a single root.
func Propellant(name string) combustion.Propellant {
	return combustion.Propellant{
		Name:                  name,
		A:                     2e-4,
		Nu:                    0.35,
		Density:               1800,
		SpecificHeatCapacity:  1500,
		InitialTemperature:    293,
		SurfaceFractionCoeffs: []float64{0},
		PocketMassFraction:    0.5,
		InterPocketGasPhase: combustion.GasPhase{
			LambdaGas:               0.1,
			AverageMolarMass:        0.025,
			CVolume:                 1500,
			KineticFlameTemperature: 2500,
		},
		PocketGasPhase: combustion.PocketGasPhase{
			LambdaGas:                 0.2,
			AverageMolarMass:          0.03,
			CVolume:                   1800,
			DiffusionFlameTemperature: 3000,
			Skeleton: combustion.GasPhase{
				LambdaGas:               0.15,
				AverageMolarMass:        0.028,
				CVolume:                 1700,
				KineticFlameTemperature: 2800,
			},
			OutSkeleton: combustion.GasPhase{
				LambdaGas:               0.12,
				AverageMolarMass:        0.027,
				CVolume:                 1600,
				KineticFlameTemperature: 2600,
			},
		},
		Components: map[string]combustion.Component{
			combustion.Aluminum: {
				MassFraction:              0.2,
				Density:                   2700,
				AgglomerationCoefficients: []float64{0.1, 0.01},
			},
			combustion.CombustibleBinder: {
				MassFraction: 0.15,
				Density:      1000,
			},
			combustion.AmmoniumPerchlorate: {
				MassFraction:             0.65,
				Density:                  1950,
				LargeParticlesFraction:   0.5,
				AverageParticlesDiameter: 2e-4,
			},
		},
	}
}

// SkeletonPropellant is Propellant with a metal skeleton covering 30 % of
// the pocket surface at every pressure.
func SkeletonPropellant(name string) combustion.Propellant {
	p := Propellant(name)
	p.SurfaceFractionCoeffs = []float64{0.3 * p.PocketMassFraction}
	return p
}

// Params returns a parameter set with temperature independent flame
// kinetics. Every region of Propellant has a root for it.
func Params() combustion.SolverParams {
	return combustion.SolverParams{
		ADecompose:   1e3,
		EDecompose:   6e4,
		AInterPocket: 1e5,
		AOutSkeleton: 2e5,
		ASkeleton:    3e5,
		AMetal:       1e-7,
		BMetal:       1e-12,
		DeltaH:       5e5,
		KDiffusion:   1,
	}
}

// Pressures returns a small grid in Pa.
func Pressures() []float64 {
	return []float64{2e6, 4e6, 6e6}
}

// Lower and Upper bracket Params slot by slot.
func Lower() []float64 {
	v := Params().Vector()
	for i := range v {
		v[i] *= 0.5
	}
	return v
}

func Upper() []float64 {
	v := Params().Vector()
	for i := range v {
		v[i] = v[i]*1.5 + 1e-3
	}
	return v
}
