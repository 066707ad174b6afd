package main

import (
	"flag"
	"fmt"
	"os"

	"burnrate-go/binlog"
	"burnrate-go/combustion"
)

func main() {
	paramsPath := flag.String("params", "", "Parameter file to dump")
	historyPath := flag.String("history", "", "History file to summarize")
	flag.Parse()

	if *paramsPath == "" && *historyPath == "" {
		fmt.Println("--params or --history required")
		os.Exit(1)
	}

	if *paramsPath != "" {
		v, err := binlog.LoadParams(*paramsPath)
		if err != nil {
			fmt.Printf("load params failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d values\n", *paramsPath, len(v))
		for i, x := range v {
			name := "?"
			if i < combustion.ParamCount {
				name = combustion.ParamNames[i]
			}
			fmt.Printf("  %-14s %.10g\n", name, x)
		}
	}

	if *historyPath != "" {
		parser := binlog.NewHistoryParser(*historyPath)
		if err := parser.Parse(); err != nil {
			fmt.Printf("parse history failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: dimension %d, %d records\n", *historyPath, parser.Dim, len(parser.Records))
		if len(parser.Records) == 0 {
			return
		}
		first := parser.Records[0]
		last, _ := parser.Last()
		best, _ := parser.BestRecord()
		fmt.Printf("  generations %d..%d over %s\n", first.Generation, last.Generation, last.Time.Sub(first.Time))
		fmt.Printf("  last best %.6g mean %.6g feasible %d\n", last.Best, last.Mean, last.Feasible)
		fmt.Printf("  best %.6g at generation %d\n", best.Best, best.Generation)
	}
}
