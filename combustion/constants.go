package combustion

// Physical constants.
const (
	GasConstant    = 8.31446261815324    // J/(mol·K)
	StefanBoltzman = 5.67037441918443e-8 // W/(m²·K⁴)
)

// Surface temperature search range and tolerance, K.
const (
	MinSurfaceTemperature = 100.0
	MaxSurfaceTemperature = 5000.0
	SurfaceTolerance      = 1e-8
)

// Conductive conductivity search range and tolerance, W/(m·K).
const (
	MinConductivity       = 0.0
	MaxConductivity       = 100_000.0
	ConductivityTolerance = 1e-6
)

// NoRoot is the surface temperature returned when the heat balance has no
// sign change over the search range.
const NoRoot = -1.0

// NoConductivity is returned by the conductivity search when it has no root.
const NoConductivity = 0.0

// Aluminium melting temperature, K.
const MetalMeltingTemperature = 2300.0

// Aluminium boiling temperature as a polynomial in pressure (MPa).
var MetalBoilingCoefficients = [7]float64{
	2421.3333276590047,
	528.1279787134719,
	-186.21637717215654,
	42.95032033617693,
	-5.844551153396972,
	0.4240384454098416,
	-0.012499999369973086,
}

// Skeleton layer defaults used when the catalog omits them.
const (
	DefaultPorosity              = 0.6
	DefaultCondensedConductivity = 30.0
)

// Default admissible surface temperature window, K.
const (
	DefaultMinAdmissibleSurfaceTemperature = 599.0
	DefaultMaxAdmissibleSurfaceTemperature = 751.0
)
