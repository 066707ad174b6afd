package ipc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTask() Task {
	return Task{
		Name:            "t1",
		PropellantsFile: "props.json",
		Pressures:       []float64{1e6, 2e6},
		LowerBound:      []float64{0, 0},
		UpperBound:      []float64{1, 1},
		Population:      8,
		Generations:     2,
		Seed:            3,
	}
}

func TestTaskValidate(t *testing.T) {
	require.NoError(t, testTask().Validate())

	tests := []struct {
		name   string
		mutate func(*Task)
	}{
		{"name", func(t *Task) { t.Name = "" }},
		{"pressures", func(t *Task) { t.Pressures = nil }},
		{"negative pressure", func(t *Task) { t.Pressures = []float64{-1} }},
		{"bounds", func(t *Task) { t.UpperBound = []float64{1} }},
		{"initial point", func(t *Task) { t.InitialPoint = []float64{1, 2, 3} }},
		{"surface range", func(t *Task) { t.MinSurfaceTemperature, t.MaxSurfaceTemperature = 800, 700 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := testTask()
			tt.mutate(&task)
			assert.ErrorIs(t, task.Validate(), ErrInvalidTask)
		})
	}
}

func TestTicketValidate(t *testing.T) {
	ok := Ticket{WorkerPath: "w", StopCondition: StopIterations, IterationNumber: 1, InitialPointPolicy: TakeFirst, Task: testTask()}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.IterationNumber = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.StopCondition = StopBoundary
	assert.Error(t, bad.Validate(), "boundary needs max_rounds")

	bad = ok
	bad.InitialPointPolicy = "take_worst"
	assert.Error(t, bad.Validate())
}

func TestLoadTickets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 2
tickets:
  - worker_path: ./worker
    stop_condition: boundary
    max_target_value: 1e-3
    max_rounds: 5
    initial_point_policy: take_best
    task:
      name: run-a
      propellants_file: props.json
      pressures: [1e6, 2e6]
      lower_bound: [0, 0]
      upper_bound: [1, 1]
      max_time: 30s
`), 0o644))

	tf, err := LoadTickets(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tf.Workers)
	require.Len(t, tf.Tickets, 1)
	assert.Equal(t, StopBoundary, tf.Tickets[0].StopCondition)
	assert.Equal(t, TakeBest, tf.Tickets[0].InitialPointPolicy)
	assert.Equal(t, "run-a", tf.Tickets[0].Task.Name)
	assert.Equal(t, 30e9, float64(tf.Tickets[0].Task.MaxTime))
}

// fakeRunner returns decreasing targets: 10, 1, 0.1, ...
type fakeRunner struct {
	mu    sync.Mutex
	calls int
	tasks []Task
	fail  bool
}

func (f *fakeRunner) run(_ context.Context, task Task, progress func(string)) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tasks = append(f.tasks, task)
	if f.fail {
		return Result{}, errors.New("catalog missing")
	}
	progress(fmt.Sprintf("generation %d", f.calls))
	return Result{
		TargetFunctionValue: 10 * math.Pow(10, -float64(f.calls-1)),
		FinalPoint:          []float64{0.25, 0.75},
		Generations:         task.Generations,
		StopReason:          "done",
	}, nil
}

func TestWorkerServe(t *testing.T) {
	ctrl, work := net.Pipe()
	defer ctrl.Close()

	f := &fakeRunner{}
	w := &Worker{}
	served := make(chan error, 1)
	go func() { served <- w.Serve(context.Background(), work, f.run) }()

	s := NewStream(ctrl)
	require.NoError(t, s.Send("alpha"))
	require.NoError(t, s.SendJSON(testTask()))

	msg, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, "generation 1", msg)
	msg, err = s.Receive()
	require.NoError(t, err)
	assert.Equal(t, ResultMarker, msg)
	var res Result
	require.NoError(t, s.ReceiveJSON(&res))
	assert.Equal(t, 10.0, res.TargetFunctionValue)

	require.NoError(t, s.Send(Shutdown))
	require.NoError(t, <-served)
	assert.Equal(t, "alpha", w.Name)
}

func TestWorkerRejectsInvalidTask(t *testing.T) {
	ctrl, work := net.Pipe()
	defer ctrl.Close()

	served := make(chan error, 1)
	go func() { served <- (&Worker{}).Serve(context.Background(), work, (&fakeRunner{}).run) }()

	s := NewStream(ctrl)
	require.NoError(t, s.Send("alpha"))
	task := testTask()
	task.Name = ""
	require.NoError(t, s.SendJSON(task))
	assert.ErrorIs(t, <-served, ErrInvalidTask)
}

// pipeLauncher runs a Worker in-process over the controller's socket.
func pipeLauncher(f *fakeRunner) Launcher {
	return func(ctx context.Context, _, socket string) (func() error, error) {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return nil, err
		}
		done := make(chan error, 1)
		go func() {
			defer conn.Close()
			done <- (&Worker{}).Serve(ctx, conn, f.run)
		}()
		return func() error { return <-done }, nil
	}
}

func testTicket(stop StopCondition, policy InitialPointPolicy) Ticket {
	task := testTask()
	task.InitialPoint = []float64{0.5, 0.5}
	return Ticket{
		WorkerPath:         "in-process",
		StopCondition:      stop,
		IterationNumber:    3,
		MaxTargetValue:     0.05,
		MaxRounds:          10,
		InitialPointPolicy: policy,
		Task:               task,
	}
}

func TestControllerIterations(t *testing.T) {
	f := &fakeRunner{}
	var progress []string
	var mu sync.Mutex
	c := &Controller{
		Workers: 1,
		Tickets: []Ticket{testTicket(StopIterations, TakeBest)},
		Dir:     t.TempDir(),
		Launch:  pipeLauncher(f),
		Progress: func(name, msg string) {
			mu.Lock()
			defer mu.Unlock()
			progress = append(progress, name+": "+msg)
		},
	}
	results, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Rounds)
	assert.InDelta(t, 0.1, results[0].Result.TargetFunctionValue, 1e-12)

	require.Len(t, f.tasks, 3)
	assert.Equal(t, []float64{0.5, 0.5}, f.tasks[0].InitialPoint)
	assert.Equal(t, []float64{0.25, 0.75}, f.tasks[1].InitialPoint)
	assert.Equal(t, []string{"t1: generation 1", "t1: generation 2", "t1: generation 3"}, progress)
}

func TestControllerBoundary(t *testing.T) {
	f := &fakeRunner{}
	c := &Controller{
		Workers: 2,
		Tickets: []Ticket{testTicket(StopBoundary, TakeFirst)},
		Dir:     t.TempDir(),
		Launch:  pipeLauncher(f),
	}
	results, err := c.Run(context.Background())
	require.NoError(t, err)
	// 10, 1, 0.1, 0.01 <= 0.05
	assert.Equal(t, 4, results[0].Rounds)
	for _, task := range f.tasks {
		assert.Equal(t, []float64{0.5, 0.5}, task.InitialPoint)
	}
}

func TestControllerJoinsFailures(t *testing.T) {
	bad := testTicket(StopIterations, TakeFirst)
	bad.Task.Name = "bad"
	bad.WorkerPath = "failing"
	good := testTicket(StopIterations, TakeFirst)

	c := &Controller{
		Workers: 2,
		Tickets: []Ticket{bad, good},
		Dir:     t.TempDir(),
		Launch: func(ctx context.Context, path, socket string) (func() error, error) {
			return pipeLauncher(&fakeRunner{fail: path == "failing"})(ctx, path, socket)
		},
	}
	results, err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkerExited)
	assert.Contains(t, err.Error(), `ticket "bad"`)
	assert.NotContains(t, err.Error(), `ticket "t1"`)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 3, results[1].Rounds)
}

func TestControllerWorkerExitsBeforeConnecting(t *testing.T) {
	c := &Controller{
		Tickets: []Ticket{testTicket(StopIterations, TakeFirst)},
		Dir:     t.TempDir(),
		Launch: func(context.Context, string, string) (func() error, error) {
			return func() error { return errors.New("exit status 1") }, nil
		},
	}
	_, err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerExited)
}

func TestNextInitialPoint(t *testing.T) {
	tk := testTicket(StopIterations, TakeBest)
	infeasible := Result{TargetFunctionValue: math.MaxFloat64, FinalPoint: []float64{9, 9}}
	rng := newTestRand()
	for range 20 {
		p := nextInitialPoint(tk, tk.Task, infeasible, rng)
		require.Len(t, p, 2)
		for i, x := range p {
			assert.GreaterOrEqual(t, x, tk.Task.LowerBound[i])
			assert.LessOrEqual(t, x, tk.Task.UpperBound[i])
		}
	}

	tk.InitialPointPolicy = TakeFirst
	assert.Equal(t, []float64{0.5, 0.5}, nextInitialPoint(tk, tk.Task, Result{TargetFunctionValue: 1, FinalPoint: []float64{0, 0}}, rng))
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}
