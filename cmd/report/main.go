package main

import (
	"flag"
	"log"
	"os"

	"burnrate-go/binlog"
	"burnrate-go/config"
	"burnrate-go/evolution"
	"burnrate-go/fitting"
)

// Re-evaluates a saved parameter vector and prints the fit report.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	paramsPath := flag.String("params", "best.params", "Parameter file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	v, err := binlog.LoadParams(*paramsPath)
	if err != nil {
		log.Fatalf("Failed to load params: %v", err)
	}
	cfg.Optimizer.InitialFile = ""
	p, err := fitting.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare evaluation: %v", err)
	}

	b := p.Evaluator.Breakdown(v)
	o := &fitting.Outcome{
		RunID: p.RunID,
		Result: &evolution.Result{
			Best:       evolution.Individual{Vector: v, Fitness: b.Objective},
			StopReason: "evaluated " + *paramsPath,
		},
		Breakdown: b,
		Matrix:    p.Evaluator.Matrix(),
	}
	if err := fitting.WriteReport(os.Stdout, o); err != nil {
		log.Fatalf("Report failed: %v", err)
	}
}
