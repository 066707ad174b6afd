package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os/signal"
	"syscall"

	"burnrate-go/config"
	"burnrate-go/fitting"
	"burnrate-go/ipc"
)

// Started by the controller with the socket path as its only argument.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config with run defaults (optional)")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: worker [-config file] <socket>")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := net.Dial("unix", flag.Arg(0))
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	w := &ipc.Worker{ProgressInterval: cfg.Optimizer.UpdateInterval}
	if err := w.Serve(ctx, conn, fitting.TaskRunner(cfg)); err != nil {
		log.Fatalf("Worker %q: %v", w.Name, err)
	}
}
