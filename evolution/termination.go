package evolution

import (
	"fmt"
	"time"
)

// Termination is polled once before every generation.
type Termination interface {
	ShouldTerminate(generation int, pop *Population) bool
	// Reason describes why ShouldTerminate last returned true.
	Reason() string
}

// starter is implemented by strategies that measure time from the start of
// a run rather than from their first poll.
type starter interface {
	begin()
}

// begin starts the clock of t and of any strategy it wraps.
func begin(t Termination) {
	if st, ok := t.(starter); ok {
		st.begin()
	}
}

type maxGenerations struct{ n int }

// MaxGenerations stops after n generations.
func MaxGenerations(n int) Termination { return &maxGenerations{n: n} }

func (t *maxGenerations) ShouldTerminate(generation int, _ *Population) bool {
	return generation >= t.n
}

func (t *maxGenerations) Reason() string {
	return fmt.Sprintf("reached %d generations", t.n)
}

type timeout struct {
	d     time.Duration
	start time.Time
	now   func() time.Time
}

// Timeout stops once d has passed since the run started, initial
// evaluation included. Used outside an Optimizer it counts from the first
// poll.
func Timeout(d time.Duration) Termination {
	return &timeout{d: d, now: time.Now}
}

func (t *timeout) begin() { t.start = t.now() }

func (t *timeout) ShouldTerminate(int, *Population) bool {
	now := t.now()
	if t.start.IsZero() {
		t.start = now
	}
	return now.Sub(t.start) >= t.d
}

func (t *timeout) Reason() string {
	return fmt.Sprintf("timeout after %s", t.d)
}

type stagnation struct {
	k         int
	threshold float64
	ceiling   float64

	streak int
	last   float64
	seen   bool
}

// Stagnation stops after k consecutive generations whose best fitness
// improved by less than threshold. Generations are only counted once the
// best fitness is below ceiling.
func Stagnation(k int, threshold, ceiling float64) Termination {
	return &stagnation{k: k, threshold: threshold, ceiling: ceiling}
}

func (t *stagnation) ShouldTerminate(_ int, pop *Population) bool {
	best, err := pop.Best()
	if err != nil {
		return false
	}
	f := best.Fitness
	defer func() { t.last, t.seen = f, true }()

	if !t.seen || f >= t.ceiling {
		t.streak = 0
		return false
	}
	if t.last-f < t.threshold {
		t.streak++
	} else {
		t.streak = 0
	}
	return t.streak >= t.k
}

func (t *stagnation) Reason() string {
	return fmt.Sprintf("stagnated for %d generations", t.k)
}

type anyOf struct {
	ts     []Termination
	reason string
}

// Any stops when one of ts does. Every strategy is polled each time so
// stateful ones keep counting.
func Any(ts ...Termination) Termination {
	return &anyOf{ts: ts}
}

func (t *anyOf) begin() {
	for _, s := range t.ts {
		begin(s)
	}
}

func (t *anyOf) ShouldTerminate(generation int, pop *Population) bool {
	stop := false
	for _, s := range t.ts {
		if s.ShouldTerminate(generation, pop) && !stop {
			stop = true
			t.reason = s.Reason()
		}
	}
	return stop
}

func (t *anyOf) Reason() string {
	return t.reason
}
