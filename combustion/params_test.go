package combustion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFromVector(t *testing.T) {
	v := make([]float64, ParamCount)
	for i := range v {
		v[i] = float64(i) * 1.5
	}
	p, err := ParamsFromVector(v)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.ADecompose)
	assert.Equal(t, 1.5, p.EDecompose)
	assert.Equal(t, 21.0, p.KDiffusion)
	assert.Equal(t, v, p.Vector())
}

func TestParamsFromVectorLength(t *testing.T) {
	_, err := ParamsFromVector(make([]float64, 13))
	assert.ErrorIs(t, err, ErrParamsLength)
	assert.Panics(t, func() { MustParams(make([]float64, 16)) })
}

func TestParamNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range ParamNames {
		assert.NotEmpty(t, n)
		assert.False(t, seen[n], n)
		seen[n] = true
	}
}
