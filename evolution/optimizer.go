// Package evolution implements a parallel differential-evolution minimizer.
package evolution

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Objective scores a vector; lower is better. math.MaxFloat64 marks an
// infeasible vector. An Objective is used by one goroutine at a time.
type Objective interface {
	Evaluate(v []float64) float64
}

// ObjectiveFunc adapts a plain function to Objective.
type ObjectiveFunc func(v []float64) float64

func (f ObjectiveFunc) Evaluate(v []float64) float64 { return f(v) }

// Stop reasons not produced by a Termination.
const (
	ReasonCanceled           = "canceled"
	ReasonPopulationTooSmall = "population too small"
)

// Settings configures an Optimizer.
type Settings struct {
	// Lower and Upper bound every coordinate; trial vectors are clamped.
	Lower []float64
	Upper []float64

	PopulationSize int
	// MutationForce is the differential weight F, in (0, 2].
	MutationForce float64
	// Crossover is the binomial crossover probability CR, in [0, 1].
	Crossover float64
	// Workers is the number of evaluation goroutines. Each one needs its own
	// Objective.
	Workers int
	Seed    uint64

	Termination Termination
	// Generator draws the initial population. Nil means UniformGenerator.
	Generator Generator

	// OnPopulationUpdated is called after initialization and after
	// generations, at most once per UpdateInterval, and always after the
	// last generation. It runs on the optimizer goroutine.
	OnPopulationUpdated func(generation int, pop *Population)
	UpdateInterval      time.Duration
}

func (s *Settings) validate(objectives int) error {
	if len(s.Lower) == 0 || len(s.Lower) != len(s.Upper) {
		return fmt.Errorf("%w: lower=%d upper=%d", ErrBoundsMismatch, len(s.Lower), len(s.Upper))
	}
	for i := range s.Lower {
		if s.Lower[i] > s.Upper[i] {
			return fmt.Errorf("%w: lower bound %d is above upper bound", ErrInvalidSetting, i)
		}
	}
	switch {
	case s.PopulationSize <= 0:
		return fmt.Errorf("%w: population size %d", ErrInvalidSetting, s.PopulationSize)
	case s.MutationForce <= 0 || s.MutationForce > 2:
		return fmt.Errorf("%w: mutation force %g", ErrInvalidSetting, s.MutationForce)
	case s.Crossover < 0 || s.Crossover > 1:
		return fmt.Errorf("%w: crossover %g", ErrInvalidSetting, s.Crossover)
	case s.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidSetting, s.Workers)
	case objectives < s.Workers:
		return fmt.Errorf("%w: %d objectives for %d workers", ErrInvalidSetting, objectives, s.Workers)
	case s.Termination == nil:
		return fmt.Errorf("%w: no termination", ErrInvalidSetting)
	case s.UpdateInterval < 0:
		return fmt.Errorf("%w: update interval %s", ErrInvalidSetting, s.UpdateInterval)
	}
	if g, ok := s.Generator.(SeededGenerator); ok && len(g.Seed) != len(s.Lower) {
		return fmt.Errorf("%w: seed has %d values, bounds have %d", ErrBoundsMismatch, len(g.Seed), len(s.Lower))
	}
	return nil
}

// Result is the outcome of Run.
type Result struct {
	Best        Individual
	Generations int
	Evaluations int64
	StopReason  string
	Elapsed     time.Duration
	// Population is the final generation.
	Population *Population
}

// Optimizer runs one minimization. It is not reusable across concurrent
// Run calls.
type Optimizer struct {
	settings   Settings
	objectives []Objective
	mutation   Mutation
	limiter    *rate.Limiter
}

// New validates settings. objectives[w] is used exclusively by worker w.
func New(settings Settings, objectives []Objective) (*Optimizer, error) {
	if err := settings.validate(len(objectives)); err != nil {
		return nil, err
	}
	if settings.Generator == nil {
		settings.Generator = UniformGenerator{}
	}
	limit := rate.Inf
	if settings.UpdateInterval > 0 {
		limit = rate.Every(settings.UpdateInterval)
	}
	return &Optimizer{
		settings:   settings,
		objectives: objectives,
		mutation: Mutation{
			Force:     settings.MutationForce,
			Crossover: settings.Crossover,
			Lower:     settings.Lower,
			Upper:     settings.Upper,
		},
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (o *Optimizer) workers() int {
	return min(o.settings.Workers, o.settings.PopulationSize)
}

// Run evolves the population until the termination fires, ctx is
// canceled, or the population is too small to form trials. Cancellation
// takes effect between generations and is not an error.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	s := &o.settings
	start := time.Now()
	begin(s.Termination)
	dim := len(s.Lower)

	cur := newPopulation(s.PopulationSize, dim)
	next := newPopulation(s.PopulationSize, dim)

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	for i := range cur.Individuals {
		s.Generator.Generate(rng, s.Lower, s.Upper, cur.Individuals[i].Vector)
	}
	evals, err := o.initialize(cur)
	if err != nil {
		return nil, err
	}
	cur.MoveToBest()
	o.publish(0, cur, false)

	log.Printf("Optimizer started: population %d, dimension %d, workers %d", s.PopulationSize, dim, o.workers())

	rngs := make([]*rand.Rand, o.workers())
	for w := range rngs {
		seed := s.Seed + uint64(w) + 1
		rngs[w] = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	var (
		gen    int
		reason string
	)
	for {
		select {
		case <-ctx.Done():
			reason = ReasonCanceled
		default:
		}
		if reason != "" {
			break
		}
		if s.Termination.ShouldTerminate(gen, cur) {
			reason = s.Termination.Reason()
			break
		}
		if cur.Len() < 4 {
			reason = ReasonPopulationTooSmall
			break
		}

		genStart := time.Now()
		n, err := o.generation(cur, next, rngs)
		if err != nil {
			return nil, err
		}
		evals += n
		cur, next = next, cur
		cur.MoveToBest()
		gen++

		generations.Inc()
		generationSeconds.Observe(time.Since(genStart).Seconds())
		if best, _ := cur.Best(); best.Feasible() {
			bestFitness.Set(best.Fitness)
		}
		o.publish(gen, cur, false)
	}
	o.publish(gen, cur, true)

	best, err := cur.Best()
	if err != nil {
		return nil, err
	}
	res := &Result{
		Best:        best.Clone(),
		Generations: gen,
		Evaluations: evals,
		StopReason:  reason,
		Elapsed:     time.Since(start),
		Population:  cur,
	}
	log.Printf("Optimizer stopped after %d generations (%s): best %.6g", gen, reason, best.Fitness)
	return res, nil
}

func (o *Optimizer) publish(gen int, pop *Population, force bool) {
	if o.settings.OnPopulationUpdated == nil {
		return
	}
	if o.limiter.Allow() || force {
		o.settings.OnPopulationUpdated(gen, pop)
	}
}

// initialize evaluates every individual of pop in parallel.
func (o *Optimizer) initialize(pop *Population) (int64, error) {
	return o.parallel(func(w, j int) bool {
		ind := &pop.Individuals[j]
		ind.Fitness = o.objectives[w].Evaluate(ind.Vector)
		return ind.Feasible()
	})
}

// generation fills next with the survivors of cur. next[j] doubles as the
// trial buffer of slot j, so no allocation happens per trial.
func (o *Optimizer) generation(cur, next *Population, rngs []*rand.Rand) (int64, error) {
	return o.parallel(func(w, j int) bool {
		target := &cur.Individuals[j]
		trial := &next.Individuals[j]
		o.mutation.Trial(rngs[w], cur, j, trial.Vector)
		f := o.objectives[w].Evaluate(trial.Vector)
		if f <= target.Fitness {
			trial.Fitness = f
		} else {
			copy(trial.Vector, target.Vector)
			trial.Fitness = target.Fitness
		}
		return f < math.MaxFloat64
	})
}

// parallel runs fn over all slots. Worker w owns slots j ≡ w mod W and
// its objective; Wait is the generation barrier.
func (o *Optimizer) parallel(fn func(w, j int) (feasible bool)) (int64, error) {
	workers := o.workers()
	size := o.settings.PopulationSize
	feasible := make([]int, workers)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for j := w; j < size; j += workers {
				if fn(w, j) {
					feasible[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range feasible {
		total += n
	}
	recordEvaluations(total, size-total)
	return int64(size), nil
}
