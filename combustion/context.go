package combustion

import "fmt"

// KineticFlame is the known gas data of one kinetic flame region.
type KineticFlame struct {
	Temperature float64 // final flame temperature, K
	MolarMass   float64 // kg/mol
	Lambda      float64 // W/(m·K)
	CVolume     float64 // J/(m³·K)
}

// DiffusionFlame is the known gas data of the pocket diffusion flame.
type DiffusionFlame struct {
	Temperature float64
	MolarMass   float64
	Lambda      float64
	CVolume     float64
}

// Metal holds aluminium phase-change temperatures at the cell pressure.
type Metal struct {
	Melting float64
	Boiling float64
}

// Known holds the inputs of one propellant × pressure cell. It never
// changes after BuildMatrix.
type Known struct {
	Propellant string
	Pressure   float64 // Pa

	Density            float64
	SpecificHeat       float64
	InitialTemperature float64
	OxidizerDiameter   float64
	SkeletonFraction   float64

	InterPocket KineticFlame
	Skeleton    KineticFlame
	OutSkeleton KineticFlame
	Diffusion   DiffusionFlame
	Metal       Metal
	Layer       SkeletonLayer

	InterPocketVolumeFraction float64
	PocketVolumeFraction      float64

	ExperimentalBurnRate float64
}

// Context is one cell of the matrix: the known inputs plus the result of
// the last solve. Result is only meaningful right after Solve.
type Context struct {
	Known
	Result MixedResult
}

// NewKnown derives the cell inputs for p at pressure.
func NewKnown(p *Propellant, pressure float64) Known {
	pg := p.PocketGasPhase
	return Known{
		Propellant:         p.Name,
		Pressure:           pressure,
		Density:            p.Density,
		SpecificHeat:       p.SpecificHeatCapacity,
		InitialTemperature: p.InitialTemperature,
		OxidizerDiameter:   p.AverageOxidizerDiameter(),
		SkeletonFraction:   p.SkeletonSurfaceFraction(pressure),
		InterPocket:        kineticFlame(p.InterPocketGasPhase),
		Skeleton:           kineticFlame(pg.Skeleton),
		OutSkeleton:        kineticFlame(pg.OutSkeleton),
		Diffusion: DiffusionFlame{
			Temperature: pg.DiffusionFlameTemperature,
			MolarMass:   pg.AverageMolarMass,
			Lambda:      pg.LambdaGas,
			CVolume:     pg.CVolume,
		},
		Metal: Metal{
			Melting: p.MetalMeltingTemperature(),
			Boiling: p.MetalBoilingTemperature(pressure),
		},
		Layer:                     p.Skeleton(),
		InterPocketVolumeFraction: p.InterPocketVolumeFraction(),
		PocketVolumeFraction:      p.PocketVolumeFraction(),
		ExperimentalBurnRate:      p.ExperimentalBurnRate(pressure),
	}
}

func kineticFlame(g GasPhase) KineticFlame {
	return KineticFlame{
		Temperature: g.KineticFlameTemperature,
		MolarMass:   g.AverageMolarMass,
		Lambda:      g.LambdaGas,
		CVolume:     g.CVolume,
	}
}

// Matrix is the propellant × pressure grid of contexts. Each concurrent
// evaluator needs its own Matrix; see Clone.
type Matrix struct {
	Rows      int
	Cols      int
	Pressures []float64
	cells     []Context
}

// BuildMatrix creates one context per propellant and pressure.
func BuildMatrix(props []Propellant, pressures []float64) (*Matrix, error) {
	if len(props) == 0 || len(pressures) == 0 {
		return nil, ErrEmptyMatrix
	}
	m := &Matrix{
		Rows:      len(props),
		Cols:      len(pressures),
		Pressures: append([]float64(nil), pressures...),
		cells:     make([]Context, 0, len(props)*len(pressures)),
	}
	for i := range props {
		if err := props[i].Validate(); err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}
		for _, p := range pressures {
			m.cells = append(m.cells, Context{Known: NewKnown(&props[i], p)})
		}
	}
	return m, nil
}

// Clone returns a matrix with the same inputs and private result storage.
func (m *Matrix) Clone() *Matrix {
	c := *m
	c.cells = make([]Context, len(m.cells))
	for i := range m.cells {
		c.cells[i].Known = m.cells[i].Known
	}
	return &c
}

// At returns the cell for propellant i and pressure j.
func (m *Matrix) At(i, j int) *Context {
	return &m.cells[i*m.Cols+j]
}

// Cells returns all contexts in row-major order.
func (m *Matrix) Cells() []Context {
	return m.cells
}

// Len is the number of cells.
func (m *Matrix) Len() int {
	return len(m.cells)
}

// Solve runs the mixed solver over every cell and stops at the first
// cell without a burn rate. Cells after it are left with empty results.
func (m *Matrix) Solve(p SolverParams, b Bounds) bool {
	for i := range m.cells {
		c := &m.cells[i]
		c.Result = SolveMixed(&p, &c.Known, b)
		if !c.Result.Found {
			for j := i + 1; j < len(m.cells); j++ {
				m.cells[j].Result = MixedResult{}
			}
			return false
		}
	}
	return true
}
