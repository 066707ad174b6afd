package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// Runner executes one task. progress may be called any number of times
// before Runner returns.
type Runner func(ctx context.Context, task Task, progress func(msg string)) (Result, error)

// Worker is the process side of the exchange.
type Worker struct {
	// Name is set from the first frame received.
	Name string
	// ProgressInterval throttles progress frames; zero sends them all.
	ProgressInterval time.Duration
}

// Serve handles tasks until the controller sends Shutdown. A runner error
// ends Serve; the controller sees the connection close.
func (w *Worker) Serve(ctx context.Context, rw io.ReadWriter, run Runner) error {
	s := NewStream(rw)
	name, err := s.Receive()
	if err != nil {
		return fmt.Errorf("receive name: %w", err)
	}
	w.Name = name
	log.Printf("Worker %q connected", name)

	for {
		msg, err := s.Receive()
		if err != nil {
			return fmt.Errorf("receive task: %w", err)
		}
		if msg == Shutdown {
			log.Printf("Worker %q shutting down", name)
			return nil
		}

		var task Task
		if err := json.Unmarshal([]byte(msg), &task); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		if err := task.Validate(); err != nil {
			return err
		}

		res, err := run(ctx, task, w.progress(s))
		if err != nil {
			return fmt.Errorf("task %q: %w", task.Name, err)
		}
		if err := s.Send(ResultMarker); err != nil {
			return err
		}
		if err := s.SendJSON(res); err != nil {
			return err
		}
	}
}

func (w *Worker) progress(s *Stream) func(string) {
	limit := rate.Inf
	if w.ProgressInterval > 0 {
		limit = rate.Every(w.ProgressInterval)
	}
	lim := rate.NewLimiter(limit, 1)
	return func(msg string) {
		if msg == ResultMarker || !lim.Allow() {
			return
		}
		if err := s.Send(msg); err != nil {
			log.Printf("Worker %q: progress send failed: %v", w.Name, err)
		}
	}
}
