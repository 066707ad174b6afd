package combustion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisectFindsRoot(t *testing.T) {
	tests := []struct {
		name   string
		f      func(float64) float64
		lo, hi float64
		want   float64
	}{
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{"decreasing", func(x float64) float64 { return 1000 - x }, 100, 5000, 1000},
		{"cubic", func(x float64) float64 { return (x - 700) * (x - 700) * (x - 700) }, 100, 5000, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := Bisect(tt.f, tt.lo, tt.hi, 1e-8)
			require.True(t, ok)
			assert.InDelta(t, tt.want, x, 1e-8)
			assert.GreaterOrEqual(t, x, tt.lo)
			assert.LessOrEqual(t, x, tt.hi)
		})
	}
}

func TestBisectNoSignChange(t *testing.T) {
	x, ok := Bisect(func(x float64) float64 { return x + 1 }, 100, 5000, 1e-8)
	assert.False(t, ok)
	assert.Equal(t, NoRoot, x)

	x, ok = Bisect(func(float64) float64 { return math.NaN() }, 100, 5000, 1e-8)
	assert.False(t, ok)
	assert.Equal(t, NoRoot, x)
}

func TestBisectRootOnEndpoint(t *testing.T) {
	x, ok := Bisect(func(x float64) float64 { return x - 100 }, 100, 5000, 1e-8)
	require.True(t, ok)
	assert.Equal(t, 100.0, x)

	x, ok = Bisect(func(x float64) float64 { return 5000 - x }, 100, 5000, 1e-8)
	require.True(t, ok)
	assert.Equal(t, 5000.0, x)
}

func TestBisectSwappedInterval(t *testing.T) {
	x, ok := Bisect(func(x float64) float64 { return x - 3 }, 10, 0, 1e-9)
	require.True(t, ok)
	assert.InDelta(t, 3, x, 1e-9)
}

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, DefaultBounds().Validate())
	assert.Error(t, Bounds{Min: 10, Max: 10, Tol: 1}.Validate())
	assert.Error(t, Bounds{Min: 0, Max: 10, Tol: 0}.Validate())
}

func TestPolynomial(t *testing.T) {
	assert.Equal(t, 0.0, polynomial(nil, 3))
	assert.InDelta(t, 1+2*3+3*9, polynomial([]float64{1, 2, 3}, 3), 1e-12)
	assert.InDelta(t, MetalBoilingCoefficients[0], polynomial(MetalBoilingCoefficients[:], 0), 1e-12)
}
