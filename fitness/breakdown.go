package fitness

import "burnrate-go/combustion"

// Cell summarizes one solved context.
type Cell struct {
	Propellant           string
	Pressure             float64
	BurnRate             float64
	ExperimentalBurnRate float64
	InterPocketBurnRate  float64
	PocketBurnRate       float64
	InterPocketSurface   float64
	PocketSurface        float64
	Found                bool
}

// Breakdown is the objective of one vector split into its terms.
type Breakdown struct {
	Feasible  bool
	Objective float64
	Error     float64
	Penalties []NamedValue
	Cells     []Cell
}

type NamedValue struct {
	Name  string
	Value float64
}

// Breakdown evaluates v and reports every term. Objective equals what
// Evaluate returns for v.
func (e *Evaluator) Breakdown(v []float64) Breakdown {
	var b Breakdown
	p, err := combustion.ParamsFromVector(v)
	if err != nil {
		b.Objective = Infeasible
		return b
	}

	b.Feasible = e.matrix.Solve(p, e.bounds)
	b.Cells = cells(e.matrix)
	if !b.Feasible {
		b.Objective = Infeasible
		return b
	}

	b.Error = e.burnRateError()
	totals := make([]float64, len(e.chain))
	sum := e.chain.Apply(e.matrix, totals)
	for i, ev := range e.chain {
		b.Penalties = append(b.Penalties, NamedValue{Name: ev.Name(), Value: totals[i]})
	}
	b.Objective = b.Error + sum
	return b
}

func cells(m *combustion.Matrix) []Cell {
	out := make([]Cell, 0, m.Len())
	for _, c := range m.Cells() {
		out = append(out, Cell{
			Propellant:           c.Propellant,
			Pressure:             c.Pressure,
			BurnRate:             c.Result.BurnRate,
			ExperimentalBurnRate: c.ExperimentalBurnRate,
			InterPocketBurnRate:  c.Result.InterPocket.BurnRate,
			PocketBurnRate:       c.Result.Pocket.BurnRate,
			InterPocketSurface:   c.Result.InterPocket.SurfaceTemperature,
			PocketSurface:        c.Result.Pocket.SurfaceTemperature,
			Found:                c.Result.Found,
		})
	}
	return out
}
