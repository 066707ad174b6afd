package combustion

// InterPocketResult is the solved state of the inter-pocket region.
type InterPocketResult struct {
	Found              bool
	SurfaceTemperature float64
	DecomposeRate      float64
	BurnRate           float64
	SublimationFlux    float64
	Error              float64
	Flame              KineticFlameResult
}

// SolveInterPocket finds the surface temperature at which the inter-pocket
// kinetic flame supplies exactly the heat the surface consumes.
func SolveInterPocket(p *SolverParams, k *Known, b Bounds) InterPocketResult {
	ts, ok := Bisect(func(ts float64) float64 {
		return interPocketBalance(p, k, ts).Error
	}, b.Min, b.Max, b.Tol)
	if !ok {
		return InterPocketResult{SurfaceTemperature: NoRoot}
	}

	r := interPocketBalance(p, k, ts)
	r.BurnRate = r.DecomposeRate / k.Density
	r.Found = r.BurnRate > 0
	return r
}

func interPocketBalance(p *SolverParams, k *Known, ts float64) InterPocketResult {
	m := DecomposeRate(p, ts)
	flame := KineticFlameHeatFlux(InterPocketRegion, p, k.InterPocket, k.Pressure, ts, m)
	sub := sublimationHeatFlux(k, p, ts, m)
	return InterPocketResult{
		SurfaceTemperature: ts,
		DecomposeRate:      m,
		SublimationFlux:    sub,
		Error:              flame.HeatFlux - sub,
		Flame:              flame,
	}
}
