package penalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate-go/combustion"
	"burnrate-go/combustion/combustiontest"
	"burnrate-go/config"
)

func solvedContext() *combustion.Context {
	c := &combustion.Context{}
	r := &c.Result
	r.Found = true
	r.InterPocket.Found = true
	r.InterPocket.BurnRate = 8e-3
	r.InterPocket.SurfaceTemperature = 700
	r.InterPocket.Flame = combustion.KineticFlameResult{HeatFlux: 4e6, Height: 1e-5}
	r.Pocket.Found = true
	r.Pocket.BurnRate = 6e-3
	r.Pocket.SurfaceTemperature = 720
	r.Pocket.Skeleton = combustion.KineticFlameResult{HeatFlux: 2e6, Height: 2e-5}
	r.Pocket.OutSkeleton = combustion.KineticFlameResult{HeatFlux: 3e6, Height: 3e-5}
	r.Pocket.DiffusionHeatFlux = 1e6
	r.Pocket.MetalHeatFlux = 5e6
	r.Pocket.PoreDiameter = 1e-6
	r.Pocket.SkeletonThickness = 1e-5
	r.Pocket.RadiativeLambda = 20
	r.Pocket.ConductiveLambda = 5
	return c
}

func TestConstructorsRejectBadSettings(t *testing.T) {
	_, err := NewHeatFluxRatio(0, 2)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = NewHeatFluxRatio(1, 1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = NewInterPocketFasterBurn(-1)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = NewKineticFlameHeatFlux(1, 1, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = NewPoreDiameter(1, 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = NewRadiativeConductivity(0)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = NewSurfaceTemperature(1, 751, 599)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewFlameHeight(1, 1e-3, 1e-3)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNoViolationGivesZero(t *testing.T) {
	c := solvedContext()
	hfr, _ := NewHeatFluxRatio(1, 10)
	fast, _ := NewInterPocketFasterBurn(1)
	kin, _ := NewKineticFlameHeatFlux(1, 1e7, 1e7, 1e7)
	pore, _ := NewPoreDiameter(1, 2)
	rad, _ := NewRadiativeConductivity(1)
	st, _ := NewSurfaceTemperature(1, 599, 751)
	fh, _ := NewFlameHeight(1, 1e-6, 1e-4)

	for _, e := range []Evaluator{hfr, fast, kin, pore, rad, st, fh} {
		assert.Equal(t, 0.0, e.Penalty(c), e.Name())
	}
}

func TestHeatFluxRatio(t *testing.T) {
	c := solvedContext()
	e, err := NewHeatFluxRatio(2, 2)
	require.NoError(t, err)
	// max/min = 3e6/1e6 = 3 > 2
	assert.InDelta(t, 2*3.0, e.Penalty(c), 1e-12)

	c.Result.Pocket.MetalHeatFlux = 1.5e6
	assert.InDelta(t, 2*3.0+2*(3e6/1.5e6), e.Penalty(c), 1e-12)
}

func TestInterPocketFasterBurn(t *testing.T) {
	c := solvedContext()
	e, err := NewInterPocketFasterBurn(3)
	require.NoError(t, err)

	c.Result.Pocket.BurnRate = 1.6e-2
	assert.InDelta(t, 3*2.0, e.Penalty(c), 1e-12)

	// Equal rates are not a violation.
	c.Result.Pocket.BurnRate = c.Result.InterPocket.BurnRate
	assert.Equal(t, 0.0, e.Penalty(c))
}

func TestKineticFlameHeatFlux(t *testing.T) {
	c := solvedContext()
	e, err := NewKineticFlameHeatFlux(1, 2e6, 1e6, 1e7)
	require.NoError(t, err)
	// 4e6/2e6 + 2e6/1e6
	assert.InDelta(t, 4.0, e.Penalty(c), 1e-12)
}

func TestPoreDiameter(t *testing.T) {
	c := solvedContext()
	e, err := NewPoreDiameter(1, 20)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, e.Penalty(c), 1e-12)
}

func TestRadiativeConductivity(t *testing.T) {
	c := solvedContext()
	c.Result.Pocket.RadiativeLambda = 2.5
	e, err := NewRadiativeConductivity(4)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, e.Penalty(c), 1e-12)

	c.Result.Pocket.RadiativeLambda = -2.5
	assert.InDelta(t, 8.0, e.Penalty(c), 1e-12)
}

func TestSurfaceTemperature(t *testing.T) {
	c := solvedContext()
	e, err := NewSurfaceTemperature(1, 710, 715)
	require.NoError(t, err)
	assert.InDelta(t, 710.0/700+720.0/715, e.Penalty(c), 1e-12)
}

func TestFlameHeight(t *testing.T) {
	c := solvedContext()
	e, err := NewFlameHeight(1, 1.5e-5, 2.5e-5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5+3.0/2.5, e.Penalty(c), 1e-12)
}

func TestZeroDenominatorsStayFinite(t *testing.T) {
	c := solvedContext()
	c.Result.Pocket.MetalHeatFlux = 0
	c.Result.Pocket.RadiativeLambda = 0
	c.Result.Pocket.SkeletonThickness = 0
	c.Result.Pocket.Skeleton.Height = 0

	hfr, err := NewHeatFluxRatio(1, 10)
	require.NoError(t, err)
	rad, err := NewRadiativeConductivity(1)
	require.NoError(t, err)
	pore, err := NewPoreDiameter(1, 2)
	require.NoError(t, err)
	fh, err := NewFlameHeight(1, 1e-6, 1e-4)
	require.NoError(t, err)

	// Diffusion 1e6 to out-skeleton 3e6 stays under the ratio threshold,
	// so only the vanished metal flux counts.
	assert.Equal(t, maxRatio, hfr.Penalty(c))
	assert.Equal(t, maxRatio, rad.Penalty(c))
	assert.Equal(t, maxRatio, pore.Penalty(c))
	assert.Equal(t, maxRatio, fh.Penalty(c))

	c.Result.Pocket.DiffusionHeatFlux = 0
	c.Result.Pocket.Skeleton.HeatFlux = 0
	c.Result.Pocket.OutSkeleton.HeatFlux = 0
	assert.Equal(t, 0.0, hfr.Penalty(c))
}

func TestRaisingCeilingNeverRaisesPenalty(t *testing.T) {
	c := solvedContext()
	prev := -1.0
	for _, ceiling := range []float64{5e5, 1e6, 2e6, 3e6, 5e6, 1e7} {
		e, err := NewKineticFlameHeatFlux(1, ceiling, ceiling, ceiling)
		require.NoError(t, err)
		v := e.Penalty(c)
		if prev >= 0 {
			assert.LessOrEqual(t, v, prev, "ceiling %g", ceiling)
		}
		prev = v
	}

	prev = -1.0
	for _, threshold := range []float64{1.5, 2, 2.9, 3, 4} {
		e, err := NewHeatFluxRatio(1, threshold)
		require.NoError(t, err)
		v := e.Penalty(c)
		if prev >= 0 {
			assert.LessOrEqual(t, v, prev, "threshold %g", threshold)
		}
		prev = v
	}
}

func TestChainApply(t *testing.T) {
	m, err := combustion.BuildMatrix([]combustion.Propellant{combustiontest.Propellant("a")}, combustiontest.Pressures())
	require.NoError(t, err)
	require.True(t, m.Solve(combustiontest.Params(), combustion.DefaultBounds()))

	st, err := NewSurfaceTemperature(1, 1, 2)
	require.NoError(t, err)
	fast, err := NewInterPocketFasterBurn(1)
	require.NoError(t, err)
	ch := Chain{st, fast}

	out := make([]float64, len(ch))
	total := ch.Apply(m, out)

	want := 0.0
	for _, c := range m.Cells() {
		want += st.Penalty(&c) + fast.Penalty(&c)
	}
	assert.InDelta(t, want, total, want*1e-12)
	assert.InDelta(t, total, out[0]+out[1], want*1e-12)
	assert.Greater(t, out[0], 0.0)
	assert.Equal(t, []string{"surface_temperature", "inter_pocket_faster_burn"}, ch.Names())

	// Mismatched out is ignored.
	assert.InDelta(t, total, ch.Apply(m, nil), want*1e-12)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Penalties
	ch, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"heat_flux_ratio",
		"inter_pocket_faster_burn",
		"kinetic_flame_heat_flux",
		"pore_diameter",
		"radiative_conductivity",
		"surface_temperature",
	}, ch.Names())

	cfg.FlameHeight.Enabled = true
	cfg.FlameHeight.Min = 1
	cfg.FlameHeight.Max = 1
	_, err = FromConfig(cfg)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
