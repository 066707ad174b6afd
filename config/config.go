// Package config loads run configuration from defaults, a YAML file and
// BURNRATE_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"burnrate-go/units"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BURNRATE_"

// ParamCount is the expected length of the bound vectors.
const ParamCount = 15

var validate = validator.New()

type Config struct {
	Catalog            string             `yaml:"catalog" env:"CATALOG" validate:"required"`
	Pressures          Pressures          `yaml:"pressures" envPrefix:"PRESSURES_"`
	Optimizer          Optimizer          `yaml:"optimizer" envPrefix:"OPTIMIZER_"`
	Termination        Termination        `yaml:"termination" envPrefix:"TERMINATION_"`
	Penalties          Penalties          `yaml:"penalties" envPrefix:"PENALTY_"`
	SurfaceTemperature SurfaceTemperature `yaml:"surface_temperature" envPrefix:"SURFACE_"`
	Fitness            Fitness            `yaml:"fitness" envPrefix:"FITNESS_"`
	History            History            `yaml:"history" envPrefix:"HISTORY_"`
	Web                Web                `yaml:"web" envPrefix:"WEB_"`
	RBC                RBC                `yaml:"rbc" envPrefix:"RBC_"`
}

// Pressures is an evenly spaced grid in MPa.
type Pressures struct {
	MinMPa float64 `yaml:"min_mpa" env:"MIN_MPA" validate:"gt=0"`
	MaxMPa float64 `yaml:"max_mpa" env:"MAX_MPA" validate:"gtefield=MinMPa"`
	Steps  int     `yaml:"steps" env:"STEPS" validate:"gte=0"`
}

// Pascals expands the grid.
func (p Pressures) Pascals() []float64 {
	return units.PascalSlice(units.Linspace(units.FromMegapascals(p.MinMPa), units.FromMegapascals(p.MaxMPa), p.Steps))
}

type Optimizer struct {
	Lower         []float64 `yaml:"lower" env:"LOWER" validate:"required"`
	Upper         []float64 `yaml:"upper" env:"UPPER" validate:"required"`
	Population    int       `yaml:"population" env:"POPULATION" validate:"gt=0"`
	MutationForce float64   `yaml:"mutation_force" env:"MUTATION_FORCE" validate:"gt=0,lte=2"`
	Crossover     float64   `yaml:"crossover" env:"CROSSOVER" validate:"gte=0,lte=1"`
	Workers       int       `yaml:"workers" env:"WORKERS" validate:"gt=0"`
	Seed          uint64    `yaml:"seed" env:"SEED"`
	// InitialFile seeds the population around a saved parameter vector.
	InitialFile    string        `yaml:"initial_file" env:"INITIAL_FILE"`
	UpdateInterval time.Duration `yaml:"update_interval" env:"UPDATE_INTERVAL" validate:"gte=0"`
}

type Termination struct {
	MaxGenerations        int           `yaml:"max_generations" env:"MAX_GENERATIONS" validate:"gte=0"`
	Timeout               time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gte=0"`
	StagnationGenerations int           `yaml:"stagnation_generations" env:"STAGNATION_GENERATIONS" validate:"gte=0"`
	StagnationThreshold   float64       `yaml:"stagnation_threshold" env:"STAGNATION_THRESHOLD" validate:"gte=0"`
	StagnationCeiling     float64       `yaml:"stagnation_ceiling" env:"STAGNATION_CEILING" validate:"gt=0"`
}

// Rule is a penalty with a rate and up to two thresholds. Disabled rules
// are not validated.
type Rule struct {
	Enabled   bool    `yaml:"enabled" env:"ENABLED"`
	Rate      float64 `yaml:"rate" env:"RATE"`
	Threshold float64 `yaml:"threshold" env:"THRESHOLD"`
	Min       float64 `yaml:"min" env:"MIN"`
	Max       float64 `yaml:"max" env:"MAX"`
}

// KineticCeilings caps the kinetic flame heat flux of each region, W/m².
type KineticCeilings struct {
	Enabled        bool    `yaml:"enabled" env:"ENABLED"`
	Rate           float64 `yaml:"rate" env:"RATE"`
	MaxInterPocket float64 `yaml:"max_inter_pocket" env:"MAX_INTER_POCKET"`
	MaxSkeleton    float64 `yaml:"max_skeleton" env:"MAX_SKELETON"`
	MaxOutSkeleton float64 `yaml:"max_out_skeleton" env:"MAX_OUT_SKELETON"`
}

type Penalties struct {
	HeatFluxRatio         Rule            `yaml:"heat_flux_ratio" envPrefix:"HEAT_FLUX_RATIO_"`
	InterPocketFasterBurn Rule            `yaml:"inter_pocket_faster_burn" envPrefix:"FASTER_BURN_"`
	KineticFlameHeatFlux  KineticCeilings `yaml:"kinetic_flame_heat_flux" envPrefix:"KINETIC_FLUX_"`
	PoreDiameter          Rule            `yaml:"pore_diameter" envPrefix:"PORE_DIAMETER_"`
	RadiativeConductivity Rule            `yaml:"radiative_conductivity" envPrefix:"RADIATIVE_"`
	SurfaceTemperature    Rule            `yaml:"surface_temperature" envPrefix:"SURFACE_TEMPERATURE_"`
	FlameHeight           Rule            `yaml:"flame_height" envPrefix:"FLAME_HEIGHT_"`
}

// SurfaceTemperature is the root search interval of the heat balance, K.
type SurfaceTemperature struct {
	Min       float64 `yaml:"min" env:"MIN" validate:"gt=0"`
	Max       float64 `yaml:"max" env:"MAX" validate:"gtfield=Min"`
	Tolerance float64 `yaml:"tolerance" env:"TOLERANCE" validate:"gt=0"`
}

type Fitness struct {
	Metric string `yaml:"metric" env:"METRIC" validate:"oneof=absolute relative"`
}

type History struct {
	ParamsFile  string `yaml:"params_file" env:"PARAMS_FILE"`
	HistoryFile string `yaml:"history_file" env:"HISTORY_FILE"`
	ReportFile  string `yaml:"report_file" env:"REPORT_FILE"`
}

type Web struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Port    int  `yaml:"port" env:"PORT" validate:"gte=0,lte=65535"`
}

type RBC struct {
	UDP []string `yaml:"udp" env:"UDP"`
	TCP []string `yaml:"tcp" env:"TCP"`
}

// Default returns a configuration that fits the default catalog.
func Default() Config {
	return Config{
		Catalog:   "propellants.json",
		Pressures: Pressures{MinMPa: 1, MaxMPa: 6.5, Steps: 11},
		Optimizer: Optimizer{
			Lower:          []float64{1, 5e4, 1, 5e4, 1, 5e4, 1, 5e4, 0.1, 0.1, 0.1, 1e-9, 1e-15, -1e7, 1e-6},
			Upper:          []float64{1e9, 2e5, 1e12, 2e5, 1e12, 2e5, 1e12, 2e5, 10, 10, 10, 1e-3, 1e-6, 1e7, 3},
			Population:     ParamCount * 8,
			MutationForce:  0.3,
			Crossover:      0.8,
			Workers:        runtime.NumCPU(),
			UpdateInterval: time.Second,
		},
		Termination: Termination{
			MaxGenerations:        10_000,
			StagnationGenerations: 100_000,
			StagnationThreshold:   1e-12,
			StagnationCeiling:     1e3,
		},
		Penalties: Penalties{
			HeatFluxRatio:         Rule{Enabled: true, Rate: 1, Threshold: 10},
			InterPocketFasterBurn: Rule{Enabled: true, Rate: 1},
			KineticFlameHeatFlux: KineticCeilings{
				Enabled:        true,
				Rate:           1,
				MaxInterPocket: 1e7,
				MaxSkeleton:    1e7,
				MaxOutSkeleton: 1e7,
			},
			PoreDiameter:          Rule{Enabled: true, Rate: 1, Threshold: 2},
			RadiativeConductivity: Rule{Enabled: true, Rate: 1},
			SurfaceTemperature:    Rule{Enabled: true, Rate: 1, Min: 599, Max: 751},
			FlameHeight:           Rule{Rate: 1, Min: 1e-7, Max: 1e-3},
		},
		SurfaceTemperature: SurfaceTemperature{Min: 100, Max: 5000, Tolerance: 1e-8},
		Fitness:            Fitness{Metric: "absolute"},
		History: History{
			ParamsFile:  "best.params",
			HistoryFile: "history.blog",
		},
		Web: Web{Port: 8080},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate applies struct tags and cross-field checks.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	o := c.Optimizer
	if len(o.Lower) != ParamCount || len(o.Upper) != ParamCount {
		return fmt.Errorf("optimizer bounds need %d values, got lower=%d upper=%d", ParamCount, len(o.Lower), len(o.Upper))
	}
	for i := range o.Lower {
		if o.Lower[i] > o.Upper[i] {
			return fmt.Errorf("optimizer bound %d: lower %g above upper %g", i, o.Lower[i], o.Upper[i])
		}
	}
	return c.Penalties.validate()
}

func (p Penalties) validate() error {
	var errs []error
	check := func(name string, r Rule, needThreshold, needRange bool) {
		if !r.Enabled {
			return
		}
		if r.Rate <= 0 {
			errs = append(errs, fmt.Errorf("penalty %s: rate must be > 0", name))
		}
		if needThreshold && r.Threshold <= 0 {
			errs = append(errs, fmt.Errorf("penalty %s: threshold must be > 0", name))
		}
		if needRange && !(r.Min < r.Max) {
			errs = append(errs, fmt.Errorf("penalty %s: min must be below max", name))
		}
	}
	check("heat_flux_ratio", p.HeatFluxRatio, true, false)
	check("inter_pocket_faster_burn", p.InterPocketFasterBurn, false, false)
	check("pore_diameter", p.PoreDiameter, true, false)
	check("radiative_conductivity", p.RadiativeConductivity, false, false)
	check("surface_temperature", p.SurfaceTemperature, false, true)
	check("flame_height", p.FlameHeight, false, true)

	if k := p.KineticFlameHeatFlux; k.Enabled {
		if k.Rate <= 0 || k.MaxInterPocket <= 0 || k.MaxSkeleton <= 0 || k.MaxOutSkeleton <= 0 {
			errs = append(errs, errors.New("penalty kinetic_flame_heat_flux: rate and ceilings must be > 0"))
		}
	}
	return errors.Join(errs...)
}
