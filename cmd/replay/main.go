package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"burnrate-go/binlog"
	"burnrate-go/rbc"
)

// Replays a history file to RBC subscribers at the recorded pace.
func main() {
	historyPath := flag.String("history", "", "Input history file")
	udpAddr := flag.String("udp", "127.0.0.1:5555", "UDP destination")
	tcpAddr := flag.String("tcp", "", "TCP destination (optional)")
	runID := flag.String("run", "replay", "Run id placed in every line")
	speed := flag.Float64("speed", 1.0, "Replay speed multiplier (0 for max speed)")
	flag.Parse()

	if *historyPath == "" {
		log.Fatal("--history required")
	}

	parser := binlog.NewHistoryParser(*historyPath)
	if err := parser.Parse(); err != nil {
		log.Fatalf("Parse history failed: %v", err)
	}

	sender := rbc.NewSender()
	sender.SetHeader("burnrate")
	if err := sender.AddUDPSender(*udpAddr, rbc.FlagAll); err != nil {
		log.Fatalf("Invalid dest address: %v", err)
	}
	if *tcpAddr != "" {
		sender.AddTCPSender(*tcpAddr, rbc.FlagAll)
	}
	if err := sender.Start(); err != nil {
		log.Fatalf("Failed to start sender: %v", err)
	}
	defer sender.Stop()

	log.Printf("Replaying %d records from %s...", len(parser.Records), *historyPath)

	var first time.Time
	startReal := time.Now()
	for i, rec := range parser.Records {
		if i == 0 {
			first = rec.Time
		} else if *speed > 0 {
			target := time.Duration(float64(rec.Time.Sub(first)) / *speed)
			if elapsed := time.Since(startReal); target > elapsed {
				time.Sleep(target - elapsed)
			}
		}
		msg, err := rbc.FormatProgress(*runID, rec.Time, rec.Generation, rec.Best, rec.Mean, rec.Feasible)
		if err != nil {
			log.Fatalf("Format record %d: %v", i, err)
		}
		sender.Send(msg, rbc.FlagProgress)
		if (i+1)%1000 == 0 {
			fmt.Printf("\rSent %d records...", i+1)
		}
	}

	if last, ok := parser.Last(); ok {
		msg, err := rbc.FormatResult(*runID, last.Time, last.Best, "replayed", last.Vector)
		if err != nil {
			log.Fatalf("Format result: %v", err)
		}
		sender.Send(msg, rbc.FlagResult)
	}
	fmt.Printf("\nDone. Sent %d records.\n", len(parser.Records))
}
