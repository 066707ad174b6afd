package fitting

import (
	"context"
	"fmt"
	"log"
	"time"

	"burnrate-go/binlog"
	"burnrate-go/combustion"
	"burnrate-go/evolution"
	"burnrate-go/fitness"
)

// Progress is a generation summary for subscribers.
type Progress struct {
	RunID      string    `json:"run_id"`
	Time       time.Time `json:"time"`
	Generation int       `json:"generation"`
	Best       float64   `json:"best"`
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
	Feasible   int       `json:"feasible"`
	Vector     []float64 `json:"vector"`
}

type Options struct {
	// History receives one record per reported generation.
	History *binlog.HistoryWriter
	// OnProgress runs on the optimizer goroutine and must not block.
	OnProgress func(Progress)
}

// Outcome is the result of a run. Matrix holds the contexts solved for
// the best vector and must be treated as read-only.
type Outcome struct {
	RunID     string
	Result    *evolution.Result
	Breakdown fitness.Breakdown
	Matrix    *combustion.Matrix
}

// Run optimizes the problem. Cancelling ctx ends the run after the current
// generation and still yields an Outcome.
func (p *Problem) Run(ctx context.Context, opts Options) (*Outcome, error) {
	pool := p.Evaluator.Pool(p.Settings.Workers)
	objectives := make([]evolution.Objective, len(pool))
	for i, e := range pool {
		objectives[i] = e
	}

	var historyErr error
	settings := p.Settings
	settings.OnPopulationUpdated = func(gen int, pop *evolution.Population) {
		pr := p.progress(gen, pop)
		if opts.History != nil && historyErr == nil {
			historyErr = opts.History.Write(binlog.Record{
				Time:       pr.Time,
				Generation: pr.Generation,
				Feasible:   pr.Feasible,
				Best:       pr.Best,
				Mean:       pr.Mean,
				Vector:     pr.Vector,
			})
		}
		if opts.OnProgress != nil {
			opts.OnProgress(pr)
		}
	}

	opt, err := evolution.New(settings, objectives)
	if err != nil {
		return nil, err
	}
	log.Printf("Run %s: %d propellants x %d pressures", p.RunID, p.Evaluator.Matrix().Rows, p.Evaluator.Matrix().Cols)
	res, err := opt.Run(ctx)
	if err != nil {
		return nil, err
	}
	if historyErr != nil {
		return nil, fmt.Errorf("write history: %w", historyErr)
	}

	// The optimizer is done with pool[0], so the breakdown can reuse it.
	return &Outcome{
		RunID:     p.RunID,
		Result:    res,
		Breakdown: p.Evaluator.Breakdown(res.Best.Vector),
		Matrix:    p.Evaluator.Matrix(),
	}, nil
}

func (p *Problem) progress(gen int, pop *evolution.Population) Progress {
	st := pop.Stats()
	pr := Progress{
		RunID:      p.RunID,
		Time:       time.Now(),
		Generation: gen,
		Best:       st.Best,
		Mean:       st.Mean,
		StdDev:     st.StdDev,
		Feasible:   st.Feasible,
	}
	if best, err := pop.Best(); err == nil {
		pr.Best = best.Fitness
		pr.Vector = append([]float64(nil), best.Vector...)
	}
	return pr
}

// Save writes the best vector and, when configured, the text report.
func (p *Problem) Save(o *Outcome) error {
	h := p.Config.History
	if h.ParamsFile != "" {
		if err := binlog.SaveParams(h.ParamsFile, o.Result.Best.Vector); err != nil {
			return fmt.Errorf("save params: %w", err)
		}
		log.Printf("Saved best parameters to %s", h.ParamsFile)
	}
	if h.ReportFile != "" {
		if err := WriteReportFile(h.ReportFile, o); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
