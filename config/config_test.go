package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "burnrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Optimizer.Lower, ParamCount)
	assert.Equal(t, "absolute", cfg.Fitness.Metric)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Optimizer.Population, cfg.Optimizer.Population)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog: data/props.json
pressures:
  min_mpa: 2
  max_mpa: 6
  steps: 4
optimizer:
  population: 40
  crossover: 0.5
termination:
  timeout: 90s
fitness:
  metric: relative
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/props.json", cfg.Catalog)
	assert.Equal(t, 40, cfg.Optimizer.Population)
	assert.Equal(t, 0.5, cfg.Optimizer.Crossover)
	assert.Equal(t, 0.3, cfg.Optimizer.MutationForce)
	assert.Equal(t, 90*time.Second, cfg.Termination.Timeout)
	assert.Equal(t, "relative", cfg.Fitness.Metric)
	assert.Equal(t, []float64{2e6, 3e6, 4e6, 5e6, 6e6}, cfg.Pressures.Pascals())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "optimizer:\n  population: 40\n")
	t.Setenv("BURNRATE_OPTIMIZER_POPULATION", "64")
	t.Setenv("BURNRATE_TERMINATION_MAX_GENERATIONS", "7")
	t.Setenv("BURNRATE_PENALTY_PORE_DIAMETER_THRESHOLD", "3.5")
	t.Setenv("BURNRATE_RBC_UDP", "127.0.0.1:9000,127.0.0.1:9001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Optimizer.Population)
	assert.Equal(t, 7, cfg.Termination.MaxGenerations)
	assert.Equal(t, 3.5, cfg.Penalties.PoreDiameter.Threshold)
	assert.Equal(t, []string{"127.0.0.1:9000", "127.0.0.1:9001"}, cfg.RBC.UDP)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bounds length", func(c *Config) { c.Optimizer.Upper = append(c.Optimizer.Upper, 1) }},
		{"inverted bound", func(c *Config) { c.Optimizer.Lower[0] = c.Optimizer.Upper[0] + 1 }},
		{"mutation force", func(c *Config) { c.Optimizer.MutationForce = 2.5 }},
		{"crossover", func(c *Config) { c.Optimizer.Crossover = -0.1 }},
		{"population", func(c *Config) { c.Optimizer.Population = 0 }},
		{"metric", func(c *Config) { c.Fitness.Metric = "median" }},
		{"surface range", func(c *Config) { c.SurfaceTemperature.Max = c.SurfaceTemperature.Min }},
		{"penalty rate", func(c *Config) { c.Penalties.RadiativeConductivity.Rate = 0 }},
		{"penalty range", func(c *Config) { c.Penalties.SurfaceTemperature.Min = 800 }},
		{"kinetic ceiling", func(c *Config) { c.Penalties.KineticFlameHeatFlux.MaxSkeleton = 0 }},
		{"catalog", func(c *Config) { c.Catalog = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDisabledPenaltyIsNotValidated(t *testing.T) {
	cfg := Default()
	cfg.Penalties.PoreDiameter = Rule{Enabled: false}
	assert.NoError(t, cfg.Validate())
}
