package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burnrate-go/binlog"
	"burnrate-go/combustion"
	"burnrate-go/config"
	"burnrate-go/fitting"
	"burnrate-go/rbc"
	"burnrate-go/web"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	catalog := flag.String("catalog", "", "Propellant catalog JSON, overrides the config")
	initial := flag.String("initial", "", "Parameter file to seed the population, overrides the config")
	httpPort := flag.Int("http", 0, "HTTP/WebSocket port. 0 keeps the config setting.")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalog != "" {
		cfg.Catalog = *catalog
	}
	if *initial != "" {
		cfg.Optimizer.InitialFile = *initial
	}
	if *httpPort > 0 {
		cfg.Web.Enabled = true
		cfg.Web.Port = *httpPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Loading catalog...")
	p, err := fitting.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare run: %v", err)
	}

	var opts fitting.Options
	if cfg.History.HistoryFile != "" {
		hw, err := binlog.NewHistoryWriter(cfg.History.HistoryFile, combustion.ParamCount)
		if err != nil {
			log.Fatalf("Failed to create history writer: %v", err)
		}
		defer hw.Close()
		opts.History = hw
		log.Printf("Logging history to %s", cfg.History.HistoryFile)
	}

	var webSvr *web.Server
	if cfg.Web.Enabled {
		webSvr = web.NewServer()
		go func() {
			if err := webSvr.Start(ctx, cfg.Web.Port); err != nil {
				log.Printf("HTTP server: %v", err)
			}
		}()
	}

	sender := newSender(cfg.RBC)
	if sender != nil {
		defer sender.Stop()
	}

	opts.OnProgress = func(pr fitting.Progress) {
		if webSvr != nil {
			if err := webSvr.Publish(pr); err != nil {
				log.Printf("Publish failed: %v", err)
			}
		}
		if sender != nil {
			msg, err := rbc.FormatProgress(pr.RunID, pr.Time, pr.Generation, pr.Best, pr.Mean, pr.Feasible)
			if err != nil {
				log.Printf("RBC progress skipped: %v", err)
				return
			}
			sender.Send(msg, rbc.FlagProgress)
		}
	}

	o, err := p.Run(ctx, opts)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	if sender != nil {
		r := o.Result
		if msg, err := rbc.FormatResult(o.RunID, time.Now(), r.Best.Fitness, r.StopReason, r.Best.Vector); err != nil {
			log.Printf("RBC result skipped: %v", err)
		} else {
			sender.Send(msg, rbc.FlagResult)
		}
	}
	if err := p.Save(o); err != nil {
		log.Fatalf("Save failed: %v", err)
	}
	if err := fitting.WriteReport(os.Stdout, o); err != nil {
		log.Fatalf("Report failed: %v", err)
	}
}

func newSender(cfg config.RBC) *rbc.Sender {
	if len(cfg.UDP) == 0 && len(cfg.TCP) == 0 {
		return nil
	}
	sender := rbc.NewSender()
	sender.SetHeader("burnrate")
	for _, addr := range cfg.UDP {
		if err := sender.AddUDPSender(addr, rbc.FlagAll); err != nil {
			log.Printf("Skipping RBC UDP sender %s: %v", addr, err)
			continue
		}
		log.Printf("Added RBC UDP Sender: %s", addr)
	}
	for _, addr := range cfg.TCP {
		sender.AddTCPSender(addr, rbc.FlagResult|rbc.FlagWarning)
		log.Printf("Added RBC TCP Sender: %s", addr)
	}
	if err := sender.Start(); err != nil {
		log.Printf("Failed to start RBC sender: %v", err)
		return nil
	}
	return sender
}
