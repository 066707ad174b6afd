package fitting

import (
	"context"
	"fmt"

	"burnrate-go/combustion"
	"burnrate-go/config"
	"burnrate-go/ipc"
)

// TaskConfig overlays an IPC task on base.
func TaskConfig(base config.Config, task ipc.Task) (config.Config, error) {
	cfg := base
	cfg.Catalog = task.PropellantsFile
	cfg.Optimizer.Lower = task.LowerBound
	cfg.Optimizer.Upper = task.UpperBound
	cfg.Optimizer.Seed = task.Seed
	if task.Population > 0 {
		cfg.Optimizer.Population = task.Population
	}
	if task.Generations > 0 {
		cfg.Termination.MaxGenerations = task.Generations
	}
	if task.MaxTime > 0 {
		cfg.Termination.Timeout = task.MaxTime
	}
	if task.MinSurfaceTemperature != 0 || task.MaxSurfaceTemperature != 0 {
		cfg.Penalties.SurfaceTemperature.Enabled = true
		cfg.Penalties.SurfaceTemperature.Min = task.MinSurfaceTemperature
		cfg.Penalties.SurfaceTemperature.Max = task.MaxSurfaceTemperature
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("task %q: %w", task.Name, err)
	}
	return cfg, nil
}

// TaskRunner runs IPC tasks in-process with base as the configuration
// defaults. Progress frames carry one line per reported generation.
func TaskRunner(base config.Config) ipc.Runner {
	return func(ctx context.Context, task ipc.Task, progress func(string)) (ipc.Result, error) {
		cfg, err := TaskConfig(base, task)
		if err != nil {
			return ipc.Result{}, err
		}
		props, err := combustion.LoadCatalog(cfg.Catalog)
		if err != nil {
			return ipc.Result{}, err
		}
		p, err := NewProblem(cfg, props, task.Pressures, task.InitialPoint)
		if err != nil {
			return ipc.Result{}, err
		}
		o, err := p.Run(ctx, Options{
			OnProgress: func(pr Progress) {
				progress(fmt.Sprintf("generation %d best %.6g mean %.6g feasible %d", pr.Generation, pr.Best, pr.Mean, pr.Feasible))
			},
		})
		if err != nil {
			return ipc.Result{}, err
		}
		return ipc.Result{
			TargetFunctionValue: o.Result.Best.Fitness,
			FinalPoint:          o.Result.Best.Vector,
			Generations:         o.Result.Generations,
			StopReason:          o.Result.StopReason,
		}, nil
	}
}
