package fitting

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"burnrate-go/evolution"
	"burnrate-go/fitness"
)

// ScanPoint is a feasible vector without penalties.
type ScanPoint struct {
	Vector    []float64
	Objective float64
}

// Scan samples the bounds uniformly until n feasible, penalty-free points
// are found or attempts samples have been drawn. Workers each use a
// private evaluator. The order of the returned points is not deterministic.
func (p *Problem) Scan(ctx context.Context, n, attempts int) ([]ScanPoint, error) {
	s := p.Settings
	pool := p.Evaluator.Pool(s.Workers)

	var (
		mu     sync.Mutex
		found  []ScanPoint
		drawn  atomic.Int64
		gen    evolution.UniformGenerator
		enough = func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(found) >= n
		}
	)

	g, ctx := errgroup.WithContext(ctx)
	for w, eval := range pool {
		g.Go(func() error {
			seed := s.Seed + uint64(w)
			rng := rand.New(rand.NewPCG(seed, ^seed))
			v := make([]float64, len(s.Lower))
			for !enough() && drawn.Add(1) <= int64(attempts) {
				if err := ctx.Err(); err != nil {
					return err
				}
				gen.Generate(rng, s.Lower, s.Upper, v)
				b := eval.Breakdown(v)
				if !b.Feasible || !penaltyFree(b.Penalties) {
					continue
				}
				mu.Lock()
				if len(found) < n {
					found = append(found, ScanPoint{Vector: append([]float64(nil), v...), Objective: b.Objective})
				}
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	return found, err
}

func penaltyFree(ps []fitness.NamedValue) bool {
	for _, p := range ps {
		if p.Value != 0 {
			return false
		}
	}
	return true
}
