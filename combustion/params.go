package combustion

import "fmt"

// ParamCount is the length of the optimizer decision vector.
const ParamCount = 15

// Slot indexes of the decision vector.
const (
	IdxADecompose = iota
	IdxEDecompose
	IdxAInterPocket
	IdxEInterPocket
	IdxAOutSkeleton
	IdxEOutSkeleton
	IdxASkeleton
	IdxESkeleton
	IdxNuInterPocket
	IdxNuOutSkeleton
	IdxNuSkeleton
	IdxAMetal
	IdxBMetal
	IdxDeltaH
	IdxKDiffusion
)

// ParamNames lists the slots in vector order.
var ParamNames = [ParamCount]string{
	"ADecompose",
	"EDecompose",
	"AInterPocket",
	"EInterPocket",
	"AOutSkeleton",
	"EOutSkeleton",
	"ASkeleton",
	"ESkeleton",
	"NuInterPocket",
	"NuOutSkeleton",
	"NuSkeleton",
	"AMetal",
	"BMetal",
	"DeltaH",
	"KDiffusion",
}

// SolverParams is the decoded decision vector.
type SolverParams struct {
	ADecompose float64 // kg/(m²·s)
	EDecompose float64 // J/mol

	AInterPocket float64
	EInterPocket float64
	AOutSkeleton float64
	EOutSkeleton float64
	ASkeleton    float64
	ESkeleton    float64

	NuInterPocket float64
	NuOutSkeleton float64
	NuSkeleton    float64

	AMetal     float64 // m²/s, thickness = AMetal / u
	BMetal     float64 // m³/s², pore diameter = BMetal / u²
	DeltaH     float64 // J/kg
	KDiffusion float64
}

// ParamsFromVector decodes v positionally.
func ParamsFromVector(v []float64) (SolverParams, error) {
	if len(v) != ParamCount {
		return SolverParams{}, fmt.Errorf("%w: got %d, want %d", ErrParamsLength, len(v), ParamCount)
	}
	return decode(v), nil
}

// MustParams decodes v and panics on a length mismatch. Used on hot paths
// whose vector length was checked at construction.
func MustParams(v []float64) SolverParams {
	if len(v) != ParamCount {
		panic(fmt.Sprintf("combustion: parameter vector has %d slots", len(v)))
	}
	return decode(v)
}

func decode(v []float64) SolverParams {
	return SolverParams{
		ADecompose:    v[IdxADecompose],
		EDecompose:    v[IdxEDecompose],
		AInterPocket:  v[IdxAInterPocket],
		EInterPocket:  v[IdxEInterPocket],
		AOutSkeleton:  v[IdxAOutSkeleton],
		EOutSkeleton:  v[IdxEOutSkeleton],
		ASkeleton:     v[IdxASkeleton],
		ESkeleton:     v[IdxESkeleton],
		NuInterPocket: v[IdxNuInterPocket],
		NuOutSkeleton: v[IdxNuOutSkeleton],
		NuSkeleton:    v[IdxNuSkeleton],
		AMetal:        v[IdxAMetal],
		BMetal:        v[IdxBMetal],
		DeltaH:        v[IdxDeltaH],
		KDiffusion:    v[IdxKDiffusion],
	}
}

// Vector encodes p in slot order.
func (p SolverParams) Vector() []float64 {
	v := make([]float64, ParamCount)
	v[IdxADecompose] = p.ADecompose
	v[IdxEDecompose] = p.EDecompose
	v[IdxAInterPocket] = p.AInterPocket
	v[IdxEInterPocket] = p.EInterPocket
	v[IdxAOutSkeleton] = p.AOutSkeleton
	v[IdxEOutSkeleton] = p.EOutSkeleton
	v[IdxASkeleton] = p.ASkeleton
	v[IdxESkeleton] = p.ESkeleton
	v[IdxNuInterPocket] = p.NuInterPocket
	v[IdxNuOutSkeleton] = p.NuOutSkeleton
	v[IdxNuSkeleton] = p.NuSkeleton
	v[IdxAMetal] = p.AMetal
	v[IdxBMetal] = p.BMetal
	v[IdxDeltaH] = p.DeltaH
	v[IdxKDiffusion] = p.KDiffusion
	return v
}
