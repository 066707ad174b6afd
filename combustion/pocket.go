package combustion

// PocketResult is the solved state of the pocket region.
type PocketResult struct {
	Found              bool
	SurfaceTemperature float64
	DecomposeRate      float64
	BurnRate           float64

	Skeleton    KineticFlameResult
	OutSkeleton KineticFlameResult

	AverageMetalTemperature float64
	SkeletonThickness       float64
	PoreDiameter            float64
	RadiativeLambda         float64
	ConductiveLambda        float64
	EffectiveLambda         float64
	MetalHeatFlux           float64

	DiffusionHeight   float64
	DiffusionHeatFlux float64

	OutSkeletonHeatFlux float64
	SkeletonHeatFlux    float64
	TotalHeatFlux       float64
	SublimationFlux     float64
	Error               float64
}

// SolvePocket finds the surface temperature balancing the pocket's combined
// flame, metal and diffusion heat fluxes against sublimation.
func SolvePocket(p *SolverParams, k *Known, b Bounds) PocketResult {
	// The conductive part of the layer does not depend on Ts.
	cond := ConductiveConductivity(k.Layer, k.Diffusion.Lambda)
	ts, ok := Bisect(func(ts float64) float64 {
		return pocketBalance(p, k, ts, cond).Error
	}, b.Min, b.Max, b.Tol)
	if !ok {
		return PocketResult{SurfaceTemperature: NoRoot}
	}

	r := pocketBalance(p, k, ts, cond)
	r.Found = r.BurnRate > 0
	return r
}

func pocketBalance(p *SolverParams, k *Known, ts, conductive float64) PocketResult {
	var r PocketResult
	r.SurfaceTemperature = ts
	r.DecomposeRate = DecomposeRate(p, ts)
	m := r.DecomposeRate

	r.Skeleton = KineticFlameHeatFlux(SkeletonRegion, p, k.Skeleton, k.Pressure, ts, m)
	r.OutSkeleton = KineticFlameHeatFlux(OutSkeletonRegion, p, k.OutSkeleton, k.Pressure, ts, m)

	r.BurnRate = m / k.Density
	r.AverageMetalTemperature = k.Metal.Melting - ts
	r.SkeletonThickness = p.AMetal / r.BurnRate
	r.PoreDiameter = p.BMetal / r.BurnRate / r.BurnRate
	r.RadiativeLambda = RadiativeConductivity(r.AverageMetalTemperature, r.PoreDiameter, k.Layer.Porosity)
	r.ConductiveLambda = conductive
	r.EffectiveLambda = r.RadiativeLambda + r.ConductiveLambda
	r.MetalHeatFlux = (k.Metal.Melting - ts) / r.SkeletonThickness / r.EffectiveLambda

	r.DiffusionHeight = p.KDiffusion * k.Diffusion.CVolume * m * k.OxidizerDiameter * k.OxidizerDiameter / k.Diffusion.Lambda
	r.DiffusionHeatFlux = k.Diffusion.Lambda * (k.Diffusion.Temperature - ts) / r.DiffusionHeight

	s := k.SkeletonFraction
	r.OutSkeletonHeatFlux = (1 - s) * r.OutSkeleton.HeatFlux
	r.SkeletonHeatFlux = s * (r.MetalHeatFlux + r.Skeleton.HeatFlux)
	r.TotalHeatFlux = r.OutSkeletonHeatFlux + r.SkeletonHeatFlux + r.DiffusionHeatFlux

	r.SublimationFlux = sublimationHeatFlux(k, p, ts, m)
	r.Error = r.TotalHeatFlux - r.SublimationFlux
	return r
}

// RadiativeConductivity of a porous layer with the given pore diameter and
// porosity at average temperature t.
func RadiativeConductivity(t, poreDiameter, porosity float64) float64 {
	beta := 3 * (1 - porosity) / poreDiameter
	return 16 * StefanBoltzman * t * t * t / beta
}

// ConductiveConductivity solves the Maxwell-Eucken two-phase balance for a
// gas filled porous layer by bisection over [0, 1e5] W/(m·K). It returns
// NoConductivity when the balance has no root in the search range.
func ConductiveConductivity(layer SkeletonLayer, lambdaGas float64) float64 {
	b := conductivityBounds()
	lambda, ok := Bisect(func(l float64) float64 {
		return effectiveMediumError(l, layer.Porosity, lambdaGas, layer.CondensedLambda)
	}, b.Min, b.Max, b.Tol)
	if !ok {
		return NoConductivity
	}
	return lambda
}

func effectiveMediumError(l, porosity, lambdaGas, lambdaCondensed float64) float64 {
	gas := (lambdaGas - l) / (lambdaGas + 2*lambdaCondensed)
	condensed := (lambdaCondensed - l) / (lambdaCondensed + 2*lambdaGas)
	return porosity*gas + (1-porosity)*condensed
}
