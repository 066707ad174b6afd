package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"burnrate-go/ipc"
	"burnrate-go/rbc"
)

func main() {
	ticketsPath := flag.String("tickets", "tickets.yaml", "Ticket file")
	workers := flag.Int("workers", 0, "Concurrent workers, overrides the ticket file")
	dir := flag.String("dir", "", "Socket directory (default: temp dir)")
	rbcAddr := flag.String("rbc", "", "UDP address that receives progress lines (optional)")
	flag.Parse()

	tf, err := ipc.LoadTickets(*ticketsPath)
	if err != nil {
		log.Fatalf("Failed to load tickets: %v", err)
	}
	if *workers > 0 {
		tf.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &ipc.Controller{
		Workers: tf.Workers,
		Tickets: tf.Tickets,
		Dir:     *dir,
		Launch:  ipc.ExecLauncher,
	}
	if *rbcAddr != "" {
		sender := rbc.NewSender()
		sender.SetHeader("burnrate")
		if err := sender.AddUDPSender(*rbcAddr, rbc.FlagTicket); err != nil {
			log.Fatalf("Failed to add UDP sender: %v", err)
		}
		if err := sender.Start(); err != nil {
			log.Fatalf("Failed to start sender: %v", err)
		}
		defer sender.Stop()
		c.Progress = func(name, msg string) {
			log.Printf("[%s] %s", name, msg)
			sender.Send([]byte(name+","+msg), rbc.FlagTicket)
		}
	}

	results, runErr := c.Run(ctx)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Ticket\tRounds\tTarget\tGenerations\tStatus")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		target := "infeasible"
		if r.Result.Feasible() {
			target = fmt.Sprintf("%.6g", r.Result.TargetFunctionValue)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", r.Name, r.Rounds, target, r.Result.Generations, status)
	}
	tw.Flush()

	if runErr != nil {
		os.Exit(1)
	}
}
