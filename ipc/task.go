package ipc

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Task is one optimization job sent to a worker.
type Task struct {
	Name            string `json:"name" yaml:"name" validate:"required"`
	PropellantsFile string `json:"propellants_file" yaml:"propellants_file" validate:"required"`
	// Pressures is the chamber pressure grid in Pa.
	Pressures    []float64 `json:"pressures" yaml:"pressures" validate:"required,min=1,dive,gt=0"`
	LowerBound   []float64 `json:"lower_bound" yaml:"lower_bound" validate:"required"`
	UpperBound   []float64 `json:"upper_bound" yaml:"upper_bound" validate:"required"`
	InitialPoint []float64 `json:"initial_point,omitempty" yaml:"initial_point"`
	Population   int       `json:"population" yaml:"population" validate:"gte=0"`
	Generations  int       `json:"generations" yaml:"generations" validate:"gte=0"`
	// MaxTime limits one round; zero means no limit.
	MaxTime               time.Duration `json:"max_time" yaml:"max_time" validate:"gte=0"`
	MinSurfaceTemperature float64       `json:"min_surface_temp,omitempty" yaml:"min_surface_temp" validate:"gte=0"`
	MaxSurfaceTemperature float64       `json:"max_surface_temp,omitempty" yaml:"max_surface_temp" validate:"gte=0"`
	Seed                  uint64        `json:"seed" yaml:"seed"`
}

func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if len(t.LowerBound) != len(t.UpperBound) {
		return fmt.Errorf("%w: lower bound has %d values, upper %d", ErrInvalidTask, len(t.LowerBound), len(t.UpperBound))
	}
	if t.InitialPoint != nil && len(t.InitialPoint) != len(t.LowerBound) {
		return fmt.Errorf("%w: initial point has %d values, bounds %d", ErrInvalidTask, len(t.InitialPoint), len(t.LowerBound))
	}
	if t.MinSurfaceTemperature != 0 || t.MaxSurfaceTemperature != 0 {
		if !(t.MinSurfaceTemperature < t.MaxSurfaceTemperature) {
			return fmt.Errorf("%w: surface temperature range [%g, %g]", ErrInvalidTask, t.MinSurfaceTemperature, t.MaxSurfaceTemperature)
		}
	}
	return nil
}

// Result is what a worker returns for a Task.
type Result struct {
	TargetFunctionValue float64   `json:"target_function_value"`
	FinalPoint          []float64 `json:"final_point"`
	Generations         int       `json:"generations"`
	StopReason          string    `json:"stop_reason"`
}

// Feasible reports whether the worker found any feasible point.
func (r Result) Feasible() bool {
	return r.TargetFunctionValue < math.MaxFloat64
}

type StopCondition string

const (
	// StopIterations runs a fixed number of rounds.
	StopIterations StopCondition = "iterations"
	// StopBoundary repeats rounds until the target value drops to
	// MaxTargetValue, or MaxRounds is reached.
	StopBoundary StopCondition = "boundary"
)

// InitialPointPolicy picks the initial point of the next round.
type InitialPointPolicy string

const (
	TakeFirst      InitialPointPolicy = "take_first"
	TakeBest       InitialPointPolicy = "take_best"
	GenerateRandom InitialPointPolicy = "generate_random"
)

// Ticket describes one worker job of a controller run.
type Ticket struct {
	WorkerPath         string             `yaml:"worker_path" validate:"required"`
	StopCondition      StopCondition      `yaml:"stop_condition" validate:"oneof=iterations boundary"`
	IterationNumber    int                `yaml:"iteration_number" validate:"gte=0"`
	MaxTargetValue     float64            `yaml:"max_target_value"`
	MaxRounds          int                `yaml:"max_rounds" validate:"gte=0"`
	InitialPointPolicy InitialPointPolicy `yaml:"initial_point_policy" validate:"oneof=take_first take_best generate_random"`
	Task               Task               `yaml:"task"`
}

func (t Ticket) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("ticket %q: %w", t.Task.Name, err)
	}
	switch {
	case t.StopCondition == StopIterations && t.IterationNumber <= 0:
		return fmt.Errorf("ticket %q: iteration_number must be > 0", t.Task.Name)
	case t.StopCondition == StopBoundary && t.MaxRounds <= 0:
		return fmt.Errorf("ticket %q: max_rounds must be > 0", t.Task.Name)
	}
	if err := t.Task.Validate(); err != nil {
		return fmt.Errorf("ticket %q: %w", t.Task.Name, err)
	}
	return nil
}

// TicketFile is the controller's YAML input.
type TicketFile struct {
	Workers int      `yaml:"workers"`
	Tickets []Ticket `yaml:"tickets"`
}

// LoadTickets reads and validates a ticket file.
func LoadTickets(path string) (TicketFile, error) {
	var tf TicketFile
	data, err := os.ReadFile(path)
	if err != nil {
		return tf, err
	}
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("parse tickets %s: %w", path, err)
	}
	if len(tf.Tickets) == 0 {
		return tf, fmt.Errorf("%s: no tickets", path)
	}
	var errs []error
	for _, t := range tf.Tickets {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return tf, errors.Join(errs...)
}
