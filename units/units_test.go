package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressureConversions(t *testing.T) {
	p := FromMegapascals(6.5)
	assert.Equal(t, 6.5e6, p.Pascals())
	assert.InDelta(t, 6.5, p.Megapascals(), 1e-12)
	assert.Equal(t, "6.500 MPa", p.String())
}

func TestLinspaceEndpoints(t *testing.T) {
	ps := Linspace(FromMegapascals(1), FromMegapascals(6.5), 10)
	require.Len(t, ps, 11)
	assert.Equal(t, FromMegapascals(1), ps[0])
	assert.Equal(t, FromMegapascals(6.5), ps[10])
	for i := 1; i < len(ps); i++ {
		assert.Greater(t, ps[i], ps[i-1])
	}

	single := Linspace(Pascals(1e6), Pascals(2e6), 0)
	assert.Equal(t, []Pressure{1e6}, single)
}

func TestPascalSlice(t *testing.T) {
	raw := PascalSlice([]Pressure{1e6, 2e6})
	assert.Equal(t, []float64{1e6, 2e6}, raw)
}

func TestTemperatureArithmetic(t *testing.T) {
	ts := Kelvins(700)
	tf := Kelvins(2500)
	assert.Equal(t, Kelvins(1600), ts.Mean(tf))
	assert.Equal(t, Kelvins(1800), tf.Sub(ts))
	assert.InDelta(t, 26.85, FromCelsius(26.85).Celsius(), 1e-9)
}

func TestSpeedUnits(t *testing.T) {
	u := MillimetersPerSecond(7.5)
	assert.InDelta(t, 7.5e-3, u.MetersPerSecond(), 1e-15)
	assert.InDelta(t, 0.5, MillimetersPerSecond(15).RelativeError(MillimetersPerSecond(10)), 1e-12)
	assert.True(t, math.IsInf(u.RelativeError(0), 1))
}

func TestLengthUnits(t *testing.T) {
	d := Millimeters(0.2)
	assert.InDelta(t, 2e-4, d.Meters(), 1e-18)
	assert.InDelta(t, 200, d.Micrometers(), 1e-9)
}

func TestHeatFluxArithmetic(t *testing.T) {
	q := HeatFlux(1e5).Add(HeatFlux(5e4)).Scale(0.5)
	assert.Equal(t, 7.5e4, q.WattsPerSquareMeter())
}
