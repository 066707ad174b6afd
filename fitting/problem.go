// Package fitting wires configuration, catalog, physics and optimizer into
// one burn-rate fitting run.
package fitting

import (
	"fmt"

	"github.com/google/uuid"

	"burnrate-go/binlog"
	"burnrate-go/combustion"
	"burnrate-go/config"
	"burnrate-go/evolution"
	"burnrate-go/fitness"
	"burnrate-go/penalty"
)

// Problem is a prepared fitting run.
type Problem struct {
	RunID     string
	Config    config.Config
	Evaluator *fitness.Evaluator
	// Settings lacks only the progress callback, which Run installs.
	Settings evolution.Settings
}

// Load reads the catalog and the optional initial point named by cfg.
func Load(cfg config.Config) (*Problem, error) {
	props, err := combustion.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	var initial []float64
	if cfg.Optimizer.InitialFile != "" {
		if initial, err = binlog.LoadParams(cfg.Optimizer.InitialFile); err != nil {
			return nil, fmt.Errorf("initial point: %w", err)
		}
	}
	return NewProblem(cfg, props, cfg.Pressures.Pascals(), initial)
}

// NewProblem builds the matrix, penalty chain and optimizer settings. A
// non-nil initial seeds the population around it.
func NewProblem(cfg config.Config, props []combustion.Propellant, pressures []float64, initial []float64) (*Problem, error) {
	m, err := combustion.BuildMatrix(props, pressures)
	if err != nil {
		return nil, err
	}
	chain, err := penalty.FromConfig(cfg.Penalties)
	if err != nil {
		return nil, err
	}
	metric, err := fitness.ParseMetric(cfg.Fitness.Metric)
	if err != nil {
		return nil, err
	}
	st := cfg.SurfaceTemperature
	eval, err := fitness.New(m, chain, combustion.Bounds{Min: st.Min, Max: st.Max, Tol: st.Tolerance}, metric)
	if err != nil {
		return nil, err
	}

	o := cfg.Optimizer
	settings := evolution.Settings{
		Lower:          o.Lower,
		Upper:          o.Upper,
		PopulationSize: o.Population,
		MutationForce:  o.MutationForce,
		Crossover:      o.Crossover,
		Workers:        max(o.Workers, 1),
		Seed:           o.Seed,
		Termination:    Termination(cfg.Termination),
		UpdateInterval: o.UpdateInterval,
	}
	if initial != nil {
		settings.Generator = evolution.SeededGenerator{Seed: initial}
	}

	return &Problem{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Evaluator: eval,
		Settings:  settings,
	}, nil
}

// Termination combines the configured stop rules. Zero values disable a
// rule; with every rule disabled the run only ends on cancellation.
func Termination(t config.Termination) evolution.Termination {
	var ts []evolution.Termination
	if t.MaxGenerations > 0 {
		ts = append(ts, evolution.MaxGenerations(t.MaxGenerations))
	}
	if t.Timeout > 0 {
		ts = append(ts, evolution.Timeout(t.Timeout))
	}
	if t.StagnationGenerations > 0 {
		ts = append(ts, evolution.Stagnation(t.StagnationGenerations, t.StagnationThreshold, t.StagnationCeiling))
	}
	return evolution.Any(ts...)
}
