package ipc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Launcher starts a worker process connected to socket. wait blocks until
// the process exits.
type Launcher func(ctx context.Context, workerPath, socket string) (wait func() error, err error)

// ExecLauncher runs workerPath with the socket path as its only argument.
// Worker output goes to the controller's stderr.
func ExecLauncher(ctx context.Context, workerPath, socket string) (func() error, error) {
	cmd := exec.CommandContext(ctx, workerPath, socket)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

// TicketResult is the outcome of one ticket.
type TicketResult struct {
	Name   string
	Rounds int
	Result Result
	Err    error
}

// Controller runs tickets on at most Workers concurrent worker processes.
type Controller struct {
	Workers int
	Tickets []Ticket

	// Dir holds the sockets. Empty means os.TempDir().
	Dir    string
	Launch Launcher
	// Progress receives every progress frame. Nil logs them.
	Progress func(name, msg string)
}

// Run executes every ticket. A failing ticket does not stop the others;
// all failures are joined into the returned error.
func (c *Controller) Run(ctx context.Context) ([]TicketResult, error) {
	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}
	log.Printf("Controller start: %d tickets on %d workers", len(c.Tickets), workers)

	results := make([]TicketResult, len(c.Tickets))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, t := range c.Tickets {
		g.Go(func() error {
			r, err := c.runTicket(ctx, t)
			r.Name = t.Task.Name
			if err != nil {
				r.Err = fmt.Errorf("ticket %q: %w", t.Task.Name, err)
				log.Printf("Ticket %q failed: %v", t.Task.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	log.Printf("Controller finished: %d of %d tickets failed", len(errs), len(c.Tickets))
	return results, errors.Join(errs...)
}

func (c *Controller) runTicket(ctx context.Context, t Ticket) (TicketResult, error) {
	var tr TicketResult
	if err := t.Validate(); err != nil {
		return tr, err
	}

	dir := c.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	socket := filepath.Join(dir, uuid.NewString()+".sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		return tr, err
	}
	defer os.Remove(socket)
	defer ln.Close()

	launch := c.Launch
	if launch == nil {
		launch = ExecLauncher
	}
	wait, err := launch(ctx, t.WorkerPath, socket)
	if err != nil {
		return tr, fmt.Errorf("start worker: %w", err)
	}
	exited := make(chan error, 1)
	go func() { exited <- wait() }()

	conn, err := accept(ctx, ln, exited)
	if err != nil {
		return tr, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Printf("Ticket %q: worker connected", t.Task.Name)
	tr, err = c.exchange(NewStream(conn), t)
	if err != nil {
		if ctx.Err() != nil {
			return tr, ctx.Err()
		}
		return tr, err
	}

	select {
	case err := <-exited:
		if err != nil {
			return tr, fmt.Errorf("%w: %v", ErrWorkerExited, err)
		}
	case <-ctx.Done():
		return tr, ctx.Err()
	}
	return tr, nil
}

func accept(ctx context.Context, ln net.Listener, exited <-chan error) (net.Conn, error) {
	type accepted struct {
		conn net.Conn
		err  error
	}
	ch := make(chan accepted, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- accepted{conn, err}
	}()
	select {
	case a := <-ch:
		return a.conn, a.err
	case err := <-exited:
		return nil, fmt.Errorf("%w before connecting: %v", ErrWorkerExited, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// exchange sends the worker name, runs rounds until the ticket's stop
// condition holds, then sends Shutdown.
func (c *Controller) exchange(s *Stream, t Ticket) (TicketResult, error) {
	tr := TicketResult{Name: t.Task.Name}
	if err := s.Send(t.Task.Name); err != nil {
		return tr, err
	}

	rng := rand.New(rand.NewPCG(t.Task.Seed, uint64(len(t.Task.Name))))
	task := t.Task
	for {
		res, err := c.round(s, task)
		if err != nil {
			return tr, fmt.Errorf("round %d: %w", tr.Rounds+1, err)
		}
		tr.Rounds++
		tr.Result = res
		log.Printf("Ticket %q round %d: target %.6g", task.Name, tr.Rounds, res.TargetFunctionValue)

		if done(t, tr.Rounds, res) {
			break
		}
		task.InitialPoint = nextInitialPoint(t, task, res, rng)
		task.Seed++
	}
	return tr, s.Send(Shutdown)
}

func (c *Controller) round(s *Stream, task Task) (Result, error) {
	var res Result
	if err := s.SendJSON(task); err != nil {
		return res, err
	}
	for {
		msg, err := s.Receive()
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrWorkerExited, err)
		}
		if msg == ResultMarker {
			break
		}
		if c.Progress != nil {
			c.Progress(task.Name, msg)
		} else {
			log.Printf("[%s] %s", task.Name, msg)
		}
	}
	if err := s.ReceiveJSON(&res); err != nil {
		return res, err
	}
	return res, nil
}

func done(t Ticket, rounds int, res Result) bool {
	switch t.StopCondition {
	case StopIterations:
		return rounds >= t.IterationNumber
	default:
		return res.TargetFunctionValue <= t.MaxTargetValue || rounds >= t.MaxRounds
	}
}

// nextInitialPoint applies the ticket policy. TakeBest falls back to a
// random point when the round found nothing feasible.
func nextInitialPoint(t Ticket, task Task, res Result, rng *rand.Rand) []float64 {
	switch t.InitialPointPolicy {
	case TakeBest:
		if res.Feasible() && len(res.FinalPoint) == len(task.LowerBound) {
			return res.FinalPoint
		}
		return randomPoint(task, rng)
	case GenerateRandom:
		return randomPoint(task, rng)
	default:
		return t.Task.InitialPoint
	}
}

func randomPoint(task Task, rng *rand.Rand) []float64 {
	p := make([]float64, len(task.LowerBound))
	for i := range p {
		p[i] = task.LowerBound[i] + rng.Float64()*(task.UpperBound[i]-task.LowerBound[i])
	}
	return p
}
