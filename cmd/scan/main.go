package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"burnrate-go/binlog"
	"burnrate-go/combustion"
	"burnrate-go/config"
	"burnrate-go/fitting"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	n := flag.Int("n", 10, "Number of penalty-free points to find")
	attempts := flag.Int("attempts", 100_000, "Maximum number of samples")
	out := flag.String("out", "scan.blog", "Output history file, one record per point")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	p, err := fitting.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare scan: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	points, err := p.Scan(ctx, *n, *attempts)
	if err != nil {
		log.Printf("Scan interrupted: %v", err)
	}
	log.Printf("Found %d of %d points in %s", len(points), *n, time.Since(start).Round(time.Millisecond))

	hw, err := binlog.NewHistoryWriter(*out, combustion.ParamCount)
	if err != nil {
		log.Fatalf("Failed to create history writer: %v", err)
	}
	now := time.Now()
	for i, pt := range points {
		fmt.Printf("%3d  %.6g\n", i, pt.Objective)
		rec := binlog.Record{Time: now, Generation: i, Feasible: 1, Best: pt.Objective, Mean: pt.Objective, Vector: pt.Vector}
		if err := hw.Write(rec); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
	}
	if err := hw.Close(); err != nil {
		log.Fatalf("Close failed: %v", err)
	}
	log.Printf("Wrote %s", *out)
}
