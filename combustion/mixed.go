package combustion

// MixedResult combines both regions into the propellant burn rate.
type MixedResult struct {
	Found       bool
	BurnRate    float64
	InterPocket InterPocketResult
	Pocket      PocketResult
}

// SolveMixed solves the inter-pocket region and, when it has a burn rate,
// the pocket region. The mixed burn rate is the volume weighted harmonic
// combination of the two.
func SolveMixed(p *SolverParams, k *Known, b Bounds) MixedResult {
	var r MixedResult
	r.InterPocket = SolveInterPocket(p, k, b)
	if !r.InterPocket.Found {
		r.Pocket.SurfaceTemperature = NoRoot
		return r
	}
	r.Pocket = SolvePocket(p, k, b)
	if !r.Pocket.Found {
		return r
	}
	r.BurnRate = 1 / (k.InterPocketVolumeFraction/r.InterPocket.BurnRate +
		k.PocketVolumeFraction/r.Pocket.BurnRate)
	r.Found = true
	return r
}
